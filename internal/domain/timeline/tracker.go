package timeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"plan-timeline/internal/ports/kv"
)

// Tracker is the public change-tracking engine. It keeps a table of per-plan
// stores, so plans are tracked concurrently without cross-talk: operations on
// one plan are serialized by that plan's store, operations on different plans
// proceed independently. Version numbers are the sole total order of a
// timeline; timestamps are display-only.
type Tracker struct {
	backend kv.Store
	now     func() time.Time
	newID   func() string

	mu     sync.Mutex
	stores map[string]*Store
}

func NewTracker(backend kv.Store) *Tracker {
	return &Tracker{
		backend: backend,
		now:     time.Now,
		newID:   uuid.NewString,
		stores:  make(map[string]*Store),
	}
}

// InitializePlan loads (or creates empty) the timeline for planID. It always
// succeeds for a non-empty plan id: missing or corrupt persisted data means
// an empty log, never a startup failure.
func (t *Tracker) InitializePlan(ctx context.Context, planID string) error {
	_, err := t.ensureStore(ctx, planID)
	return err
}

// RecordInput carries the caller-supplied fields of a new entry. Snapshots
// are opaque whole-plan payloads; the engine stores them verbatim.
type RecordInput struct {
	ActionType ActionType
	EntityType EntityType
	Summary    string
	Details    string

	EntityID       string
	BeforeSnapshot Snapshot
	AfterSnapshot  Snapshot
	ScenarioID     string
}

// RecordChange appends a new entry with the next version, a fresh id and a
// fresh timestamp. On a storage failure the entry is not added and
// ErrStorage is returned.
func (t *Tracker) RecordChange(ctx context.Context, planID string, in RecordInput) (Entry, error) {
	if !KnownActionType(in.ActionType) {
		return Entry{}, fmt.Errorf("%w: unknown action type %q", ErrInvalidInput, in.ActionType)
	}
	if !KnownEntityType(in.EntityType) {
		return Entry{}, fmt.Errorf("%w: unknown entity type %q", ErrInvalidInput, in.EntityType)
	}
	if strings.TrimSpace(in.Summary) == "" {
		return Entry{}, fmt.Errorf("%w: summary required", ErrInvalidInput)
	}

	st, err := t.ensureStore(ctx, planID)
	if err != nil {
		return Entry{}, err
	}

	return st.AppendWith(ctx, func(d Document) (Entry, error) {
		return Entry{
			ID:             t.newID(),
			Version:        d.CurrentVersion + 1,
			Timestamp:      t.now().UTC(),
			ActionType:     in.ActionType,
			EntityType:     in.EntityType,
			EntityID:       strings.TrimSpace(in.EntityID),
			Summary:        strings.TrimSpace(in.Summary),
			Details:        strings.TrimSpace(in.Details),
			BeforeSnapshot: in.BeforeSnapshot,
			AfterSnapshot:  in.AfterSnapshot,
			ScenarioID:     strings.TrimSpace(in.ScenarioID),
		}, nil
	})
}

// GetTimeline returns the entries matching every supplied filter predicate,
// oldest first. It is a pure read: repeated calls against an unchanged log
// return identical results.
func (t *Tracker) GetTimeline(ctx context.Context, planID string, f Filter) ([]Entry, error) {
	st, err := t.ensureStore(ctx, planID)
	if err != nil {
		return nil, err
	}

	doc := st.Snapshot()
	out := make([]Entry, 0, len(doc.Entries))
	term := strings.ToLower(strings.TrimSpace(f.SearchTerm))

	for _, e := range doc.Entries {
		if f.EntityType != "" && e.EntityType != f.EntityType {
			continue
		}
		if f.ActionType != "" && e.ActionType != f.ActionType {
			continue
		}
		if term != "" {
			hay := strings.ToLower(e.Summary + " " + e.Details)
			if !strings.Contains(hay, term) {
				continue
			}
		}
		out = append(out, e)
	}

	// Limit keeps the most recent N, preserving ascending version order.
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out, nil
}

// GetStatistics aggregates the current log. Sums over the per-type and
// per-entity maps both equal TotalChanges.
func (t *Tracker) GetStatistics(ctx context.Context, planID string) (Statistics, error) {
	st, err := t.ensureStore(ctx, planID)
	if err != nil {
		return Statistics{}, err
	}

	return statisticsOf(st.Snapshot()), nil
}

// GetCurrentVersion returns the version of the most recent entry, 0 when the
// log is empty.
func (t *Tracker) GetCurrentVersion(ctx context.Context, planID string) (int, error) {
	st, err := t.ensureStore(ctx, planID)
	if err != nil {
		return 0, err
	}
	return st.Snapshot().CurrentVersion, nil
}

// RevertOptions tunes RevertToVersion.
type RevertOptions struct {
	// CreateBackup retains the pre-revert state in the new entry's
	// beforeSnapshot, so the revert is itself reversible.
	CreateBackup bool
}

// RevertToVersion appends a revert entry restoring the state captured by the
// target entry's afterSnapshot. History is never truncated or rewritten: the
// revert is a regular forward entry and is itself revertible. Applying the
// restored snapshot to live plan state is the caller's responsibility; the
// tracker only records it.
func (t *Tracker) RevertToVersion(ctx context.Context, planID string, targetVersion int, opts RevertOptions) (Entry, error) {
	st, err := t.ensureStore(ctx, planID)
	if err != nil {
		return Entry{}, err
	}

	return st.AppendWith(ctx, func(d Document) (Entry, error) {
		if targetVersion < 1 || targetVersion > d.CurrentVersion {
			return Entry{}, fmt.Errorf("%w: version %d", ErrNotFound, targetVersion)
		}
		target := d.Entries[targetVersion-1]

		// Current whole-plan state is the newest entry's afterSnapshot.
		var current Snapshot
		if len(d.Entries) > 0 {
			current = d.Entries[len(d.Entries)-1].AfterSnapshot
		}

		e := Entry{
			ID:            t.newID(),
			Version:       d.CurrentVersion + 1,
			Timestamp:     t.now().UTC(),
			ActionType:    ActionRevert,
			EntityType:    EntityPlan,
			Summary:       fmt.Sprintf("Reverted to version %d", targetVersion),
			Details:       fmt.Sprintf("Restored plan state recorded at version %d (%s)", targetVersion, target.Summary),
			AfterSnapshot: target.AfterSnapshot,
		}
		if opts.CreateBackup {
			e.BeforeSnapshot = current
		}
		return e, nil
	})
}

// ExportTimeline serializes the full current document to canonical text.
// ImportTimeline is its exact inverse.
func (t *Tracker) ExportTimeline(ctx context.Context, planID string) (string, error) {
	st, err := t.ensureStore(ctx, planID)
	if err != nil {
		return "", err
	}
	return EncodeDocument(st.Snapshot())
}

// ImportTimeline parses text and replaces the plan's whole log with it.
// Nothing is merged: the previous history is fully overwritten. A payload
// that does not parse or violates the version invariants is rejected with
// ErrValidation and the log is left unchanged.
func (t *Tracker) ImportTimeline(ctx context.Context, planID, text string) error {
	st, err := t.ensureStore(ctx, planID)
	if err != nil {
		return err
	}
	doc, err := DecodeDocument(text)
	if err != nil {
		return err
	}
	return st.Replace(ctx, doc)
}

// ClearTimeline resets the plan's log to empty.
func (t *Tracker) ClearTimeline(ctx context.Context, planID string) error {
	st, err := t.ensureStore(ctx, planID)
	if err != nil {
		return err
	}
	return st.Replace(ctx, Document{Entries: []Entry{}})
}

func (t *Tracker) ensureStore(ctx context.Context, planID string) (*Store, error) {
	planID = strings.TrimSpace(planID)
	if planID == "" {
		return nil, fmt.Errorf("%w: plan id required", ErrInvalidInput)
	}

	t.mu.Lock()
	st, ok := t.stores[planID]
	if !ok {
		st = NewStore(planID, t.backend)
		t.stores[planID] = st
	}
	t.mu.Unlock()

	st.Initialize(ctx)
	return st, nil
}
