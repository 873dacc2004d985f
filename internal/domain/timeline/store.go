package timeline

import (
	"context"
	"fmt"
	"sync"

	"plan-timeline/internal/ports/kv"
)

// StorageKeyPrefix namespaces timeline documents in the shared KV backend.
const StorageKeyPrefix = "timeline_"

// StorageKey returns the backend key holding planID's document.
func StorageKey(planID string) string {
	return StorageKeyPrefix + planID
}

// Store owns the in-memory document for a single plan and keeps it in sync
// with the persistence backend. All mutations are serialized by the store
// mutex, so concurrent writers on the same plan can never observe the same
// current version. The in-memory document never diverges from the last
// successfully persisted state: a failed write rolls back before returning.
type Store struct {
	mu      sync.Mutex
	once    sync.Once
	planID  string
	doc     Document
	backend kv.Store
}

// NewStore creates a store for planID over the given backend. The document
// starts empty until Initialize loads whatever is persisted.
func NewStore(planID string, backend kv.Store) *Store {
	return &Store{
		planID:  planID,
		doc:     Document{Entries: []Entry{}},
		backend: backend,
	}
}

// Initialize loads the persisted document for the plan, once. Missing or
// corrupt data is recovered by resetting to an empty document; startup never
// fails because of bad stored state.
func (s *Store) Initialize(ctx context.Context) {
	s.once.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.doc = Document{Entries: []Entry{}}

		text, found, err := s.backend.Get(ctx, StorageKey(s.planID))
		if err != nil || !found {
			return
		}
		doc, err := DecodeDocument(text)
		if err != nil {
			// Corrupt persisted text: reset rather than refuse to start.
			return
		}
		s.doc = doc
	})
}

// Append adds e to the log. e.Version must be exactly currentVersion+1.
func (s *Store) Append(ctx context.Context, e Entry) error {
	_, err := s.AppendWith(ctx, func(d Document) (Entry, error) {
		if e.Version != d.CurrentVersion+1 {
			return Entry{}, fmt.Errorf("%w: version %d, want %d",
				ErrInvalidInput, e.Version, d.CurrentVersion+1)
		}
		return e, nil
	})
	return err
}

// AppendWith runs build against a read-only view of the current document and
// appends the entry it returns, all under the store lock. The whole
// read-modify-write is atomic with respect to other writers on this plan.
func (s *Store) AppendWith(ctx context.Context, build func(d Document) (Entry, error)) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := build(s.doc.Clone())
	if err != nil {
		return Entry{}, err
	}
	if e.Version != s.doc.CurrentVersion+1 {
		return Entry{}, fmt.Errorf("%w: version %d, want %d",
			ErrInvalidInput, e.Version, s.doc.CurrentVersion+1)
	}

	prevLen := len(s.doc.Entries)
	prevVersion := s.doc.CurrentVersion
	s.doc.Entries = append(s.doc.Entries, e)
	s.doc.CurrentVersion = e.Version

	if err := s.persistLocked(ctx); err != nil {
		// Roll back so memory matches the last persisted state.
		s.doc.Entries = s.doc.Entries[:prevLen]
		s.doc.CurrentVersion = prevVersion
		return Entry{}, err
	}
	return e.clone(), nil
}

// Replace swaps in a whole new document (import/clear). The document is
// validated before anything is persisted or swapped.
func (s *Store) Replace(ctx context.Context, d Document) error {
	if err := ValidateDocument(d); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.doc
	s.doc = d.Clone()
	if s.doc.Entries == nil {
		s.doc.Entries = []Entry{}
	}
	if err := s.persistLocked(ctx); err != nil {
		s.doc = prev
		return err
	}
	return nil
}

// Snapshot returns a read-only deep copy of the current document.
func (s *Store) Snapshot() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

func (s *Store) persistLocked(ctx context.Context) error {
	text, err := EncodeDocument(s.doc)
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, StorageKey(s.planID), text); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}
