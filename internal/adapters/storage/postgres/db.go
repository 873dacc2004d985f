package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	ErrNotFound = errors.New("not found")
)

// Open opens a connection pool to Postgres via pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the tables if they do not exist yet. Idempotent, safe
// to run on every start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS plans (
			id            text PRIMARY KEY,
			owner_user_id text NOT NULL,
			name          text NOT NULL,
			currency      text NOT NULL,
			description   text NOT NULL DEFAULT '',
			status        text NOT NULL,
			created_at    timestamptz NOT NULL,
			updated_at    timestamptz NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS plans_owner_idx ON plans (owner_user_id)`,

		`CREATE TABLE IF NOT EXISTS sharing_grants (
			id              text PRIMARY KEY,
			plan_id         text NOT NULL,
			owner_user_id   text NOT NULL,
			grantee_user_id text NOT NULL,
			scopes          text[] NOT NULL,
			status          text NOT NULL,
			created_at      timestamptz NOT NULL,
			updated_at      timestamptz NOT NULL,
			revoked_at      timestamptz
		)`,
		`CREATE INDEX IF NOT EXISTS sharing_grants_plan_idx ON sharing_grants (plan_id)`,
		`CREATE INDEX IF NOT EXISTS sharing_grants_grantee_idx ON sharing_grants (grantee_user_id)`,

		`CREATE TABLE IF NOT EXISTS timeline_documents (
			key        text PRIMARY KEY,
			value      text NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
