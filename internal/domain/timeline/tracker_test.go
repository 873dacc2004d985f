package timeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestTracker(backend *testBackend) *Tracker {
	tr := NewTracker(backend)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	tr.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	return tr
}

func record(t *testing.T, tr *Tracker, planID string, action ActionType, entity EntityType, summary string) Entry {
	t.Helper()
	e, err := tr.RecordChange(context.Background(), planID, RecordInput{
		ActionType:    action,
		EntityType:    entity,
		Summary:       summary,
		Details:       "details for " + summary,
		AfterSnapshot: Snapshot(fmt.Sprintf(`{"state":%q}`, summary)),
	})
	if err != nil {
		t.Fatalf("RecordChange(%s): %v", summary, err)
	}
	return e
}

func TestTracker_VersionMonotonicity(t *testing.T) {
	tr := newTestTracker(newTestBackend())

	const n = 10
	for i := 0; i < n; i++ {
		e := record(t, tr, "p1", ActionCreate, EntityPerson, fmt.Sprintf("change %d", i))
		if e.Version != i+1 {
			t.Fatalf("entry %d got version %d", i, e.Version)
		}
		if e.ID == "" {
			t.Fatalf("entry %d missing id", i)
		}
	}

	entries, err := tr.GetTimeline(context.Background(), "p1", Filter{})
	if err != nil {
		t.Fatalf("GetTimeline: %v", err)
	}
	for i, e := range entries {
		if e.Version != i+1 {
			t.Fatalf("entries[%d].Version = %d, want %d", i, e.Version, i+1)
		}
	}

	v, err := tr.GetCurrentVersion(context.Background(), "p1")
	if err != nil || v != n {
		t.Fatalf("GetCurrentVersion = %d, %v; want %d", v, err, n)
	}
}

func TestTracker_RecordChange_RejectsBadInput(t *testing.T) {
	tr := newTestTracker(newTestBackend())

	cases := []RecordInput{
		{ActionType: "rename", EntityType: EntityPerson, Summary: "x"},
		{ActionType: ActionCreate, EntityType: "vehicle", Summary: "x"},
		{ActionType: ActionCreate, EntityType: EntityPerson, Summary: "   "},
	}
	for i, in := range cases {
		if _, err := tr.RecordChange(context.Background(), "p1", in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
	if v, _ := tr.GetCurrentVersion(context.Background(), "p1"); v != 0 {
		t.Fatalf("rejected input must not append, version = %d", v)
	}
}

func TestTracker_GetTimeline_Filters(t *testing.T) {
	tr := newTestTracker(newTestBackend())

	record(t, tr, "p1", ActionCreate, EntityPerson, "Added person: Ana")
	record(t, tr, "p1", ActionUpdate, EntityAsset, "Updated asset: Home")
	record(t, tr, "p1", ActionCreate, EntityPerson, "Added person: Luis")
	record(t, tr, "p1", ActionDelete, EntityIncome, "Removed income: Salary")

	all, err := tr.GetTimeline(context.Background(), "p1", Filter{})
	if err != nil || len(all) != 4 {
		t.Fatalf("unfiltered = %d entries, %v; want 4", len(all), err)
	}

	people, err := tr.GetTimeline(context.Background(), "p1", Filter{EntityType: EntityPerson})
	if err != nil {
		t.Fatalf("filter by entity: %v", err)
	}
	if len(people) != 2 {
		t.Fatalf("expected 2 person entries, got %d", len(people))
	}
	for _, e := range people {
		if e.EntityType != EntityPerson {
			t.Fatalf("filter leaked entity type %s", e.EntityType)
		}
	}
	if len(people) > len(all) {
		t.Fatalf("filtered result larger than unfiltered")
	}

	creates, err := tr.GetTimeline(context.Background(), "p1", Filter{ActionType: ActionCreate})
	if err != nil || len(creates) != 2 {
		t.Fatalf("expected 2 create entries, got %d (%v)", len(creates), err)
	}

	// Search matches summary and details, case-insensitively.
	byTerm, err := tr.GetTimeline(context.Background(), "p1", Filter{SearchTerm: "SALARY"})
	if err != nil || len(byTerm) != 1 {
		t.Fatalf("expected 1 match for SALARY, got %d (%v)", len(byTerm), err)
	}
	byDetail, err := tr.GetTimeline(context.Background(), "p1", Filter{SearchTerm: "details for added person: ana"})
	if err != nil || len(byDetail) != 1 {
		t.Fatalf("expected detail match, got %d (%v)", len(byDetail), err)
	}

	// Limit keeps the most recent N in ascending order.
	last2, err := tr.GetTimeline(context.Background(), "p1", Filter{Limit: 2})
	if err != nil || len(last2) != 2 {
		t.Fatalf("expected 2 limited entries, got %d (%v)", len(last2), err)
	}
	if last2[0].Version != 3 || last2[1].Version != 4 {
		t.Fatalf("limit should keep most recent, got versions %d,%d", last2[0].Version, last2[1].Version)
	}

	// Repeated reads against an unchanged log are identical.
	again, _ := tr.GetTimeline(context.Background(), "p1", Filter{EntityType: EntityPerson})
	if len(again) != len(people) || again[0].ID != people[0].ID {
		t.Fatalf("repeated read differs")
	}
}

func TestTracker_Statistics(t *testing.T) {
	tr := newTestTracker(newTestBackend())

	empty, err := tr.GetStatistics(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetStatistics empty: %v", err)
	}
	if empty.TotalChanges != 0 || empty.OldestChange != nil || empty.NewestChange != nil {
		t.Fatalf("empty stats wrong: %+v", empty)
	}

	record(t, tr, "p1", ActionCreate, EntityPerson, "Added person")
	record(t, tr, "p1", ActionUpdate, EntityAsset, "Updated asset")
	record(t, tr, "p1", ActionUpdate, EntityAsset, "Updated asset again")

	stats, err := tr.GetStatistics(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}
	if stats.TotalChanges != 3 {
		t.Fatalf("TotalChanges = %d, want 3", stats.TotalChanges)
	}

	sumTypes := 0
	for _, n := range stats.ChangesByType {
		sumTypes += n
	}
	sumEntities := 0
	for _, n := range stats.ChangesByEntity {
		sumEntities += n
	}
	if sumTypes != stats.TotalChanges || sumEntities != stats.TotalChanges {
		t.Fatalf("stat sums diverge: types=%d entities=%d total=%d", sumTypes, sumEntities, stats.TotalChanges)
	}
	if stats.ChangesByType[ActionUpdate] != 2 || stats.ChangesByEntity[EntityAsset] != 2 {
		t.Fatalf("per-bucket counts wrong: %+v", stats)
	}
	if stats.OldestChange == nil || stats.NewestChange == nil {
		t.Fatalf("expected oldest/newest timestamps")
	}
	if stats.NewestChange.Before(*stats.OldestChange) {
		t.Fatalf("newest before oldest")
	}
}

func TestTracker_Revert_IsForwardOnlyAndAuditable(t *testing.T) {
	tr := newTestTracker(newTestBackend())

	record(t, tr, "p1", ActionCreate, EntityPerson, "v1 state")
	record(t, tr, "p1", ActionUpdate, EntityAsset, "v2 state")
	record(t, tr, "p1", ActionUpdate, EntityAsset, "v3 state")

	before, _ := tr.GetTimeline(context.Background(), "p1", Filter{})

	rev, err := tr.RevertToVersion(context.Background(), "p1", 1, RevertOptions{CreateBackup: true})
	if err != nil {
		t.Fatalf("RevertToVersion: %v", err)
	}
	if rev.ActionType != ActionRevert {
		t.Fatalf("actionType = %s, want revert", rev.ActionType)
	}
	if rev.Version != 4 {
		t.Fatalf("revert version = %d, want 4", rev.Version)
	}
	if string(rev.AfterSnapshot) != `{"state":"v1 state"}` {
		t.Fatalf("afterSnapshot should be the target entry's state, got %s", rev.AfterSnapshot)
	}
	if string(rev.BeforeSnapshot) != `{"state":"v3 state"}` {
		t.Fatalf("backup should capture pre-revert state, got %s", rev.BeforeSnapshot)
	}

	after, _ := tr.GetTimeline(context.Background(), "p1", Filter{})
	if len(after) != len(before)+1 {
		t.Fatalf("revert must append exactly one entry")
	}
	for i := range before {
		if after[i].ID != before[i].ID || after[i].Version != before[i].Version {
			t.Fatalf("revert rewrote prior entry %d", i+1)
		}
	}

	// The revert itself is revertible.
	rev2, err := tr.RevertToVersion(context.Background(), "p1", 4, RevertOptions{})
	if err != nil {
		t.Fatalf("revert of revert: %v", err)
	}
	if rev2.Version != 5 || len(rev2.BeforeSnapshot) != 0 {
		t.Fatalf("second revert wrong: %+v", rev2)
	}
}

func TestTracker_Revert_MissingVersion(t *testing.T) {
	tr := newTestTracker(newTestBackend())
	record(t, tr, "p1", ActionCreate, EntityPerson, "only change")

	for _, target := range []int{0, -3, 2, 99} {
		if _, err := tr.RevertToVersion(context.Background(), "p1", target, RevertOptions{}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("target %d: expected ErrNotFound, got %v", target, err)
		}
	}
	if v, _ := tr.GetCurrentVersion(context.Background(), "p1"); v != 1 {
		t.Fatalf("failed revert must not append, version = %d", v)
	}
}

func TestTracker_FailureIsolation(t *testing.T) {
	backend := newTestBackend()
	tr := newTestTracker(backend)

	record(t, tr, "p1", ActionCreate, EntityPerson, "first")

	backend.setErr = errors.New("backend rejected write")
	_, err := tr.RecordChange(context.Background(), "p1", RecordInput{
		ActionType: ActionUpdate,
		EntityType: EntityAsset,
		Summary:    "second",
	})
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}

	if v, _ := tr.GetCurrentVersion(context.Background(), "p1"); v != 1 {
		t.Fatalf("version after failed write = %d, want 1", v)
	}
	entries, _ := tr.GetTimeline(context.Background(), "p1", Filter{})
	if len(entries) != 1 {
		t.Fatalf("failed write leaked an entry")
	}
}

func TestTracker_ExportImport_RoundTrip(t *testing.T) {
	tr := newTestTracker(newTestBackend())

	record(t, tr, "p1", ActionCreate, EntityPerson, "Added person")
	record(t, tr, "p1", ActionUpdate, EntityAsset, "Updated asset")
	if _, err := tr.RevertToVersion(context.Background(), "p1", 1, RevertOptions{}); err != nil {
		t.Fatalf("revert: %v", err)
	}

	exported, err := tr.ExportTimeline(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ExportTimeline: %v", err)
	}
	beforeEntries, _ := tr.GetTimeline(context.Background(), "p1", Filter{})

	if err := tr.ClearTimeline(context.Background(), "p1"); err != nil {
		t.Fatalf("ClearTimeline: %v", err)
	}
	if v, _ := tr.GetCurrentVersion(context.Background(), "p1"); v != 0 {
		t.Fatalf("clear left version %d", v)
	}

	if err := tr.ImportTimeline(context.Background(), "p1", exported); err != nil {
		t.Fatalf("ImportTimeline: %v", err)
	}

	v, _ := tr.GetCurrentVersion(context.Background(), "p1")
	if v != 3 {
		t.Fatalf("restored version = %d, want 3", v)
	}
	afterEntries, _ := tr.GetTimeline(context.Background(), "p1", Filter{})
	if len(afterEntries) != len(beforeEntries) {
		t.Fatalf("restored %d entries, want %d", len(afterEntries), len(beforeEntries))
	}
	for i := range beforeEntries {
		a, b := beforeEntries[i], afterEntries[i]
		if a.ID != b.ID || a.Version != b.Version || a.Summary != b.Summary ||
			!a.Timestamp.Equal(b.Timestamp) ||
			string(a.AfterSnapshot) != string(b.AfterSnapshot) {
			t.Fatalf("entry %d differs after round trip:\n%+v\n%+v", i, a, b)
		}
	}
}

func TestTracker_Import_RejectsInvalidPayload(t *testing.T) {
	tr := newTestTracker(newTestBackend())
	record(t, tr, "p1", ActionCreate, EntityPerson, "keep me")

	for name, payload := range map[string]string{
		"garbage":     "not json",
		"wrong shape": `{"foo": 1}`,
		"bad counts":  `{"currentVersion": 9, "entries": []}`,
	} {
		if err := tr.ImportTimeline(context.Background(), "p1", payload); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", name, err)
		}
	}

	// Rejected imports leave the log untouched.
	entries, _ := tr.GetTimeline(context.Background(), "p1", Filter{})
	if len(entries) != 1 || entries[0].Summary != "keep me" {
		t.Fatalf("rejected import mutated the log: %+v", entries)
	}
}

func TestTracker_PlansAreIsolated(t *testing.T) {
	tr := newTestTracker(newTestBackend())

	record(t, tr, "p1", ActionCreate, EntityPerson, "plan one change")
	record(t, tr, "p2", ActionCreate, EntityAsset, "plan two change")
	record(t, tr, "p2", ActionUpdate, EntityAsset, "plan two again")

	v1, _ := tr.GetCurrentVersion(context.Background(), "p1")
	v2, _ := tr.GetCurrentVersion(context.Background(), "p2")
	if v1 != 1 || v2 != 2 {
		t.Fatalf("cross-plan leakage: v1=%d v2=%d", v1, v2)
	}
}

func TestTracker_InitializePlan_PicksUpPersistedLog(t *testing.T) {
	backend := newTestBackend()

	tr1 := newTestTracker(backend)
	record(t, tr1, "p1", ActionCreate, EntityPerson, "persisted change")

	// A fresh tracker over the same backend sees the durable log.
	tr2 := newTestTracker(backend)
	if err := tr2.InitializePlan(context.Background(), "p1"); err != nil {
		t.Fatalf("InitializePlan: %v", err)
	}
	v, _ := tr2.GetCurrentVersion(context.Background(), "p1")
	if v != 1 {
		t.Fatalf("persisted log not loaded, version = %d", v)
	}
}

func TestTracker_ConcurrentRecords_UniqueDenseVersions(t *testing.T) {
	backend := newTestBackend()
	tr := NewTracker(backend) // real clock; ordering must not depend on it

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := tr.RecordChange(context.Background(), "p1", RecordInput{
				ActionType: ActionUpdate,
				EntityType: EntityAsset,
				Summary:    fmt.Sprintf("concurrent change %d", i),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent RecordChange: %v", err)
		}
	}

	entries, err := tr.GetTimeline(context.Background(), "p1", Filter{})
	if err != nil {
		t.Fatalf("GetTimeline: %v", err)
	}
	if len(entries) != n {
		t.Fatalf("got %d entries, want %d", len(entries), n)
	}
	for i, e := range entries {
		if e.Version != i+1 {
			t.Fatalf("versions not dense at %d: %d", i, e.Version)
		}
	}
}

// Walks the concrete end-to-end scenario: record, stats, revert, export,
// clear, import.
func TestTracker_Scenario(t *testing.T) {
	tr := newTestTracker(newTestBackend())
	ctx := context.Background()

	e1, err := tr.RecordChange(ctx, "p1", RecordInput{
		ActionType: ActionCreate, EntityType: EntityPerson,
		Summary: "Added person", Details: "Details A",
		AfterSnapshot: Snapshot(`{"v":1}`),
	})
	if err != nil || e1.Version != 1 {
		t.Fatalf("first change: %+v, %v", e1, err)
	}
	e2, err := tr.RecordChange(ctx, "p1", RecordInput{
		ActionType: ActionUpdate, EntityType: EntityAsset,
		Summary: "Updated asset", Details: "Details B",
		AfterSnapshot: Snapshot(`{"v":2}`),
	})
	if err != nil || e2.Version != 2 {
		t.Fatalf("second change: %+v, %v", e2, err)
	}

	stats, _ := tr.GetStatistics(ctx, "p1")
	if stats.TotalChanges != 2 ||
		stats.ChangesByType[ActionCreate] != 1 || stats.ChangesByType[ActionUpdate] != 1 ||
		stats.ChangesByEntity[EntityPerson] != 1 || stats.ChangesByEntity[EntityAsset] != 1 {
		t.Fatalf("scenario stats wrong: %+v", stats)
	}

	rev, err := tr.RevertToVersion(ctx, "p1", 1, RevertOptions{})
	if err != nil || rev.Version != 3 || rev.ActionType != ActionRevert {
		t.Fatalf("scenario revert wrong: %+v, %v", rev, err)
	}
	if v, _ := tr.GetCurrentVersion(ctx, "p1"); v != 3 {
		t.Fatalf("version after revert = %d, want 3", v)
	}

	exported, err := tr.ExportTimeline(ctx, "p1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := tr.ClearTimeline(ctx, "p1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := tr.ImportTimeline(ctx, "p1", exported); err != nil {
		t.Fatalf("import: %v", err)
	}
	v, _ := tr.GetCurrentVersion(ctx, "p1")
	entries, _ := tr.GetTimeline(ctx, "p1", Filter{})
	if v != 3 || len(entries) != 3 {
		t.Fatalf("scenario restore wrong: version=%d entries=%d", v, len(entries))
	}
}
