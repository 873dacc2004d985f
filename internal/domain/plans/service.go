package plans

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

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

type CreateInput struct {
	Name        string
	Currency    string
	Description string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Plan, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Plan{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Plan{}, ErrInvalidInput
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return Plan{}, ErrInvalidInput
	}

	now := s.now()
	p := Plan{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Currency:    currency,
		Description: strings.TrimSpace(in.Description),
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Plan{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Plan, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Plan{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Plan, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

type PatchInput struct {
	Name        *string
	Currency    *string
	Description *string
}

func (s *Service) Patch(ctx context.Context, id string, in PatchInput) (Plan, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Plan{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Plan{}, ErrInvalidInput
		}
		p.Name = name
	}
	if in.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*in.Currency))
		if len(currency) != 3 {
			return Plan{}, ErrInvalidInput
		}
		p.Currency = currency
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// Archive marks the plan as archived (never deleted: its timeline stays).
func (s *Service) Archive(ctx context.Context, id string) (Plan, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Plan{}, err
	}
	if p.Status == StatusArchived {
		return p, nil
	}
	p.Status = StatusArchived
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Plan{}, err
	}
	return p, nil
}
