package sharing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("invalid state")
)

var knownScopes = map[Scope]bool{
	ScopePlanRead:       true,
	ScopePlanEdit:       true,
	ScopeTimelineRead:   true,
	ScopeTimelineRecord: true,
	ScopeTimelineRevert: true,
	ScopeTimelineManage: true,
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type InviteInput struct {
	PlanID        string
	OwnerUserID   string
	GranteeUserID string
	Scopes        []Scope
}

// Invite creates (or refreshes) a grant for (plan, grantee). Empty scopes
// default to read-only access; supplied scopes are validated strictly.
// Re-inviting an existing non-revoked grant updates its scopes in place.
func (s *Service) Invite(ctx context.Context, in InviteInput) (Grant, error) {
	planID := strings.TrimSpace(in.PlanID)
	ownerID := strings.TrimSpace(in.OwnerUserID)
	granteeID := strings.TrimSpace(in.GranteeUserID)

	if planID == "" || ownerID == "" || granteeID == "" {
		return Grant{}, ErrInvalidInput
	}
	if ownerID == granteeID {
		return Grant{}, ErrInvalidInput
	}

	scopes := []Scope{ScopePlanRead, ScopeTimelineRead}
	if len(in.Scopes) > 0 {
		normalized, err := normalizeScopes(in.Scopes)
		if err != nil {
			return Grant{}, err
		}
		scopes = normalized
	}

	now := s.now()

	existing, err := s.latestMatch(ctx, planID, ownerID, granteeID)
	if err == nil && existing.Status != StatusRevoked {
		existing.Scopes = scopes
		existing.UpdatedAt = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return Grant{}, err
		}
		return existing, nil
	}

	g := Grant{
		ID:            uuid.NewString(),
		PlanID:        planID,
		OwnerUserID:   ownerID,
		GranteeUserID: granteeID,
		Scopes:        scopes,
		Status:        StatusInvited,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return Grant{}, err
	}
	return g, nil
}

// Accept activates an invited grant. Idempotent for already-active grants.
func (s *Service) Accept(ctx context.Context, grantID, granteeUserID string) (Grant, error) {
	grantID = strings.TrimSpace(grantID)
	granteeUserID = strings.TrimSpace(granteeUserID)
	if grantID == "" || granteeUserID == "" {
		return Grant{}, ErrInvalidInput
	}

	g, err := s.repo.GetByID(ctx, grantID)
	if err != nil {
		return Grant{}, ErrNotFound
	}
	if g.GranteeUserID != granteeUserID {
		return Grant{}, ErrForbidden
	}
	switch g.Status {
	case StatusActive:
		return g, nil
	case StatusInvited:
		// fallthrough to activation
	default:
		return Grant{}, ErrBadState
	}

	g.Status = StatusActive
	g.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, g); err != nil {
		return Grant{}, err
	}
	return g, nil
}

// Revoke takes effect immediately: the delegate loses access on the next
// check against GetActiveGrant.
func (s *Service) Revoke(ctx context.Context, grantID, ownerUserID string) (Grant, error) {
	grantID = strings.TrimSpace(grantID)
	ownerUserID = strings.TrimSpace(ownerUserID)
	if grantID == "" || ownerUserID == "" {
		return Grant{}, ErrInvalidInput
	}

	g, err := s.repo.GetByID(ctx, grantID)
	if err != nil {
		return Grant{}, ErrNotFound
	}
	if g.OwnerUserID != ownerUserID {
		return Grant{}, ErrForbidden
	}
	if g.Status == StatusRevoked {
		return g, nil
	}

	now := s.now()
	g.Status = StatusRevoked
	g.UpdatedAt = now
	g.RevokedAt = &now
	if err := s.repo.Update(ctx, g); err != nil {
		return Grant{}, err
	}
	return g, nil
}

func (s *Service) GetActiveGrant(ctx context.Context, planID, granteeUserID string) (Grant, error) {
	return s.repo.GetActiveGrant(ctx, planID, granteeUserID)
}

func (s *Service) ListByPlan(ctx context.Context, planID string) ([]Grant, error) {
	return s.repo.ListByPlan(ctx, planID)
}

func (s *Service) ListByGrantee(ctx context.Context, granteeUserID string) ([]Grant, error) {
	return s.repo.ListByGrantee(ctx, granteeUserID)
}

func normalizeScopes(in []Scope) ([]Scope, error) {
	seen := map[Scope]bool{}
	out := make([]Scope, 0, len(in))
	for _, raw := range in {
		sc := Scope(strings.TrimSpace(string(raw)))
		if sc == "" {
			continue
		}
		if !knownScopes[sc] {
			return nil, ErrInvalidInput
		}
		if seen[sc] {
			continue
		}
		seen[sc] = true
		out = append(out, sc)
	}
	if len(out) == 0 {
		return nil, ErrInvalidInput
	}
	return out, nil
}

// latestMatch returns the most recently updated grant for (plan, owner,
// grantee), preferring non-revoked grants so a re-invite refreshes instead of
// duplicating.
func (s *Service) latestMatch(ctx context.Context, planID, ownerID, granteeID string) (Grant, error) {
	all, err := s.repo.ListByPlan(ctx, planID)
	if err != nil {
		return Grant{}, err
	}

	var winner Grant
	found := false
	for _, g := range all {
		if g.OwnerUserID != ownerID || g.GranteeUserID != granteeID {
			continue
		}
		if !found {
			winner = g
			found = true
			continue
		}
		if winner.Status == StatusRevoked && g.Status != StatusRevoked {
			winner = g
			continue
		}
		if g.Status != StatusRevoked && g.UpdatedAt.After(winner.UpdatedAt) {
			winner = g
		}
	}
	if !found {
		return Grant{}, ErrNotFound
	}
	return winner, nil
}
