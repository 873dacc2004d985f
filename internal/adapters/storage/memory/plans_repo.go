package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"plan-timeline/internal/domain/plans"
)

var (
	ErrNotFound = errors.New("not found")
)

type planRepo struct {
	mu   sync.RWMutex
	byID map[string]plans.Plan
}

func NewPlanRepo() plans.Repository {
	return &planRepo{
		byID: make(map[string]plans.Plan),
	}
}

func (r *planRepo) Create(ctx context.Context, p plans.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("plan id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("plan already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *planRepo) Update(ctx context.Context, p plans.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("plan id required")
	}
	if _, exists := r.byID[p.ID]; !exists {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *planRepo) GetByID(ctx context.Context, id string) (plans.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return plans.Plan{}, ErrNotFound
	}
	return p, nil
}

func (r *planRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]plans.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]plans.Plan, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}

	// Stable order by created_at asc (consistency in dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
