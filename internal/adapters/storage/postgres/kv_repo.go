package postgres

import (
	"context"
	"database/sql"

	"plan-timeline/internal/ports/kv"
)

type KVRepo struct {
	db *sql.DB
}

// NewKVRepo persists timeline documents as whole serialized texts keyed by
// plan. One row per timeline; the engine always writes the full document.
func NewKVRepo(db *sql.DB) kv.Store {
	return &KVRepo{db: db}
}

func (r *KVRepo) Get(ctx context.Context, key string) (string, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT value
		FROM timeline_documents
		WHERE key = $1
	`, key)

	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (r *KVRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO timeline_documents (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    updated_at = now()
	`, key, value)
	return err
}
