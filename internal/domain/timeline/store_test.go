package timeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// -------------------------
// Test backend (in-memory)
// -------------------------

type testBackend struct {
	mu   sync.Mutex
	data map[string]string

	getErr error
	setErr error
	sets   int
}

func newTestBackend() *testBackend {
	return &testBackend{data: map[string]string{}}
}

func (b *testBackend) Get(ctx context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.getErr != nil {
		return "", false, b.getErr
	}
	v, ok := b.data[key]
	return v, ok, nil
}

func (b *testBackend) Set(ctx context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sets++
	if b.setErr != nil {
		return b.setErr
	}
	b.data[key] = value
	return nil
}

func entryV(version int) Entry {
	return Entry{
		ID:         "e",
		Version:    version,
		Timestamp:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ActionType: ActionCreate,
		EntityType: EntityPerson,
		Summary:    "x",
	}
}

func TestStore_Initialize_NoData_StartsEmpty(t *testing.T) {
	backend := newTestBackend()
	st := NewStore("p1", backend)
	st.Initialize(context.Background())

	doc := st.Snapshot()
	if doc.CurrentVersion != 0 || len(doc.Entries) != 0 {
		t.Fatalf("expected empty document, got %+v", doc)
	}
}

func TestStore_Initialize_CorruptData_ResetsEmpty(t *testing.T) {
	backend := newTestBackend()
	backend.data[StorageKey("p1")] = `{"currentVersion": "boom"`

	st := NewStore("p1", backend)
	st.Initialize(context.Background())

	doc := st.Snapshot()
	if doc.CurrentVersion != 0 || len(doc.Entries) != 0 {
		t.Fatalf("corrupt data should reset to empty, got %+v", doc)
	}
}

func TestStore_Initialize_GetError_ResetsEmpty(t *testing.T) {
	backend := newTestBackend()
	backend.getErr = errors.New("backend down")

	st := NewStore("p1", backend)
	st.Initialize(context.Background())

	if v := st.Snapshot().CurrentVersion; v != 0 {
		t.Fatalf("load failure should be non-fatal, got version %d", v)
	}
}

func TestStore_Initialize_LoadsPersistedDocument(t *testing.T) {
	backend := newTestBackend()
	text, err := EncodeDocument(Document{CurrentVersion: 1, Entries: []Entry{entryV(1)}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	backend.data[StorageKey("p1")] = text

	st := NewStore("p1", backend)
	st.Initialize(context.Background())

	doc := st.Snapshot()
	if doc.CurrentVersion != 1 || len(doc.Entries) != 1 {
		t.Fatalf("expected persisted document loaded, got %+v", doc)
	}
}

func TestStore_Append_RequiresNextVersion(t *testing.T) {
	backend := newTestBackend()
	st := NewStore("p1", backend)
	st.Initialize(context.Background())

	if err := st.Append(context.Background(), entryV(7)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for version jump, got %v", err)
	}
	if err := st.Append(context.Background(), entryV(1)); err != nil {
		t.Fatalf("append v1: %v", err)
	}
	if v := st.Snapshot().CurrentVersion; v != 1 {
		t.Fatalf("expected version 1, got %d", v)
	}
}

func TestStore_Append_PersistsBeforeReturning(t *testing.T) {
	backend := newTestBackend()
	st := NewStore("p1", backend)
	st.Initialize(context.Background())

	if err := st.Append(context.Background(), entryV(1)); err != nil {
		t.Fatalf("append: %v", err)
	}

	stored, ok := backend.data[StorageKey("p1")]
	if !ok {
		t.Fatalf("append did not persist")
	}
	doc, err := DecodeDocument(stored)
	if err != nil {
		t.Fatalf("persisted text invalid: %v", err)
	}
	if doc.CurrentVersion != 1 {
		t.Fatalf("persisted version = %d, want 1", doc.CurrentVersion)
	}
}

func TestStore_Append_RollsBackOnStorageFailure(t *testing.T) {
	backend := newTestBackend()
	st := NewStore("p1", backend)
	st.Initialize(context.Background())

	if err := st.Append(context.Background(), entryV(1)); err != nil {
		t.Fatalf("append v1: %v", err)
	}

	backend.setErr = errors.New("disk full")
	err := st.Append(context.Background(), entryV(2))
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}

	doc := st.Snapshot()
	if doc.CurrentVersion != 1 || len(doc.Entries) != 1 {
		t.Fatalf("failed append must roll back, got %+v", doc)
	}

	// Memory still matches the last persisted state: a retry works.
	backend.setErr = nil
	if err := st.Append(context.Background(), entryV(2)); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
}

func TestStore_Replace_ValidatesBeforeSwapping(t *testing.T) {
	backend := newTestBackend()
	st := NewStore("p1", backend)
	st.Initialize(context.Background())
	if err := st.Append(context.Background(), entryV(1)); err != nil {
		t.Fatalf("append: %v", err)
	}

	bad := Document{CurrentVersion: 3, Entries: []Entry{entryV(1)}}
	if err := st.Replace(context.Background(), bad); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if v := st.Snapshot().CurrentVersion; v != 1 {
		t.Fatalf("rejected replace must not mutate, got version %d", v)
	}
}

func TestStore_Replace_RollsBackOnStorageFailure(t *testing.T) {
	backend := newTestBackend()
	st := NewStore("p1", backend)
	st.Initialize(context.Background())
	if err := st.Append(context.Background(), entryV(1)); err != nil {
		t.Fatalf("append: %v", err)
	}

	backend.setErr = errors.New("backend down")
	err := st.Replace(context.Background(), Document{Entries: []Entry{}})
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if v := st.Snapshot().CurrentVersion; v != 1 {
		t.Fatalf("failed replace must roll back, got version %d", v)
	}
}

func TestStore_Snapshot_IsDetached(t *testing.T) {
	backend := newTestBackend()
	st := NewStore("p1", backend)
	st.Initialize(context.Background())

	e := entryV(1)
	e.AfterSnapshot = Snapshot(`{"a":1}`)
	if err := st.Append(context.Background(), e); err != nil {
		t.Fatalf("append: %v", err)
	}

	doc := st.Snapshot()
	doc.Entries[0].Summary = "mutated"
	doc.Entries[0].AfterSnapshot[0] = 'X'

	fresh := st.Snapshot()
	if fresh.Entries[0].Summary != "x" {
		t.Fatalf("snapshot aliases the store document")
	}
	if string(fresh.Entries[0].AfterSnapshot) != `{"a":1}` {
		t.Fatalf("snapshot payload aliases the store document")
	}
}
