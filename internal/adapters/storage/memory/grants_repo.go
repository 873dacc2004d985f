package memory

import (
	"context"
	"errors"
	"sync"

	"plan-timeline/internal/domain/sharing"
)

type grantRepo struct {
	mu   sync.RWMutex
	byID map[string]sharing.Grant
}

func NewGrantsRepo() sharing.Repository {
	return &grantRepo{
		byID: make(map[string]sharing.Grant),
	}
}

func (r *grantRepo) Create(ctx context.Context, g sharing.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g.ID == "" {
		return errors.New("grant id required")
	}
	if _, exists := r.byID[g.ID]; exists {
		return errors.New("grant already exists")
	}
	r.byID[g.ID] = g
	return nil
}

func (r *grantRepo) Update(ctx context.Context, g sharing.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g.ID == "" {
		return errors.New("grant id required")
	}
	if _, exists := r.byID[g.ID]; !exists {
		return ErrNotFound
	}
	r.byID[g.ID] = g
	return nil
}

func (r *grantRepo) GetByID(ctx context.Context, id string) (sharing.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byID[id]
	if !ok {
		return sharing.Grant{}, ErrNotFound
	}
	return g, nil
}

func (r *grantRepo) ListByPlan(ctx context.Context, planID string) ([]sharing.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]sharing.Grant, 0)
	for _, g := range r.byID {
		if g.PlanID == planID {
			out = append(out, g)
		}
	}
	return out, nil
}

// If dirty data ever leaves several active grants around, return the most
// recent one by UpdatedAt (CreatedAt breaks ties).
func (r *grantRepo) GetActiveGrant(ctx context.Context, planID, granteeUserID string) (sharing.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var winner sharing.Grant
	has := false

	for _, g := range r.byID {
		if g.PlanID != planID {
			continue
		}
		if g.GranteeUserID != granteeUserID {
			continue
		}
		if g.Status != sharing.StatusActive {
			continue
		}

		if !has {
			winner = g
			has = true
			continue
		}

		if g.UpdatedAt.After(winner.UpdatedAt) {
			winner = g
			continue
		}
		if g.UpdatedAt.Equal(winner.UpdatedAt) && g.CreatedAt.After(winner.CreatedAt) {
			winner = g
		}
	}

	if !has {
		return sharing.Grant{}, ErrNotFound
	}
	return winner, nil
}

func (r *grantRepo) ListByGrantee(ctx context.Context, granteeUserID string) ([]sharing.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]sharing.Grant, 0)
	for _, g := range r.byID {
		if g.GranteeUserID == granteeUserID {
			out = append(out, g)
		}
	}
	return out, nil
}
