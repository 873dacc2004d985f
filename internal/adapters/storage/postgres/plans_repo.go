package postgres

import (
	"context"
	"database/sql"
	"strings"

	"plan-timeline/internal/domain/plans"
)

type PlansRepo struct {
	db *sql.DB
}

func NewPlansRepo(db *sql.DB) *PlansRepo {
	return &PlansRepo{db: db}
}

func (r *PlansRepo) Create(ctx context.Context, p plans.Plan) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO plans (
			id, owner_user_id,
			name, currency, description, status,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		p.ID,
		p.OwnerUserID,
		p.Name,
		p.Currency,
		p.Description,
		string(p.Status),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PlansRepo) Update(ctx context.Context, p plans.Plan) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE plans
		SET
			name = $2,
			currency = $3,
			description = $4,
			status = $5,
			updated_at = $6
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Currency,
		p.Description,
		string(p.Status),
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PlansRepo) GetByID(ctx context.Context, id string) (plans.Plan, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return plans.Plan{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_user_id,
			name, currency, description, status,
			created_at, updated_at
		FROM plans
		WHERE id = $1
	`, id)

	var p plans.Plan
	var status string
	if err := row.Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.Name,
		&p.Currency,
		&p.Description,
		&status,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return plans.Plan{}, ErrNotFound
		}
		return plans.Plan{}, err
	}

	p.Status = plans.Status(status)
	return p, nil
}

func (r *PlansRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]plans.Plan, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_user_id,
			name, currency, description, status,
			created_at, updated_at
		FROM plans
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]plans.Plan, 0)
	for rows.Next() {
		var p plans.Plan
		var status string
		if err := rows.Scan(
			&p.ID,
			&p.OwnerUserID,
			&p.Name,
			&p.Currency,
			&p.Description,
			&status,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}

		p.Status = plans.Status(status)
		out = append(out, p)
	}

	return out, rows.Err()
}
