package plans

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Plan
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Plan{}}
}

func (r *testRepo) Create(ctx context.Context, p Plan) error {
	if p.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Plan) error {
	if _, ok := r.byID[p.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Plan, error) {
	p, ok := r.byID[id]
	if !ok {
		return Plan{}, errRepoNotFound
	}
	return p, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Plan, error) {
	out := make([]Plan, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsAndValidation(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 5, 11, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name:        "  Retirement  ",
		Description: "long-term plan",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if p.Name != "Retirement" {
		t.Fatalf("expected trimmed name, got %q", p.Name)
	}
	if p.Currency != "USD" {
		t.Fatalf("expected default currency USD, got %q", p.Currency)
	}
	if p.Status != StatusActive {
		t.Fatalf("expected active status, got %s", p.Status)
	}
	if p.CreatedAt != now || p.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
	if p.ID == "" {
		t.Fatalf("expected generated ID")
	}
}

func TestService_Create_NormalizesCurrency(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name:     "Home purchase",
		Currency: " eur ",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if p.Currency != "EUR" {
		t.Fatalf("expected EUR, got %q", p.Currency)
	}
}

func TestService_Create_Rejections(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	cases := []struct {
		name  string
		owner string
		in    CreateInput
	}{
		{"missing owner", "", CreateInput{Name: "Plan"}},
		{"missing name", "owner-1", CreateInput{Name: "   "}},
		{"bad currency", "owner-1", CreateInput{Name: "Plan", Currency: "EURO"}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(context.Background(), tc.owner, tc.in); err != ErrInvalidInput {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestService_Patch_PartialUpdate(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now1 := time.Date(2026, 5, 11, 9, 0, 0, 0, time.UTC)
	now2 := now1.Add(time.Hour)

	svc.now = func() time.Time { return now1 }
	p, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name:        "Retirement",
		Currency:    "USD",
		Description: "original",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	svc.now = func() time.Time { return now2 }
	newName := "Early retirement"
	updated, err := svc.Patch(context.Background(), p.ID, PatchInput{Name: &newName})
	if err != nil {
		t.Fatalf("Patch error: %v", err)
	}
	if updated.Name != "Early retirement" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}
	if updated.Description != "original" || updated.Currency != "USD" {
		t.Fatalf("expected untouched fields to survive, got %#v", updated)
	}
	if updated.UpdatedAt != now2 {
		t.Fatalf("expected UpdatedAt bump")
	}
	if updated.CreatedAt != now1 {
		t.Fatalf("expected CreatedAt to stay")
	}
}

func TestService_Patch_RejectsEmptyName(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Plan"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	empty := "   "
	if _, err := svc.Patch(context.Background(), p.ID, PatchInput{Name: &empty}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	// failed patch must not leave partial changes behind
	got, err := svc.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Name != "Plan" {
		t.Fatalf("expected name unchanged after rejected patch, got %q", got.Name)
	}
}

func TestService_Archive_Idempotent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Plan"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	a1, err := svc.Archive(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Archive error: %v", err)
	}
	if a1.Status != StatusArchived {
		t.Fatalf("expected archived, got %s", a1.Status)
	}

	a2, err := svc.Archive(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Archive #2 error: %v", err)
	}
	if a2.Status != StatusArchived || a2.UpdatedAt != a1.UpdatedAt {
		t.Fatalf("expected idempotent archive, got %#v", a2)
	}
}

func TestService_OwnerOf(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Plan"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	owner, err := svc.OwnerOf(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("OwnerOf error: %v", err)
	}
	if owner != "owner-1" {
		t.Fatalf("expected owner-1, got %q", owner)
	}

	if _, err := svc.OwnerOf(context.Background(), "missing"); err == nil {
		t.Fatalf("expected error for unknown plan")
	}
}
