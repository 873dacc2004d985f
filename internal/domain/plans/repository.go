package plans

import "context"

type Repository interface {
	Create(ctx context.Context, p Plan) error
	Update(ctx context.Context, p Plan) error
	GetByID(ctx context.Context, id string) (Plan, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Plan, error)
}
