package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the prefixed tables if they don't exist yet. Idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	stmts := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				username VARCHAR(255) NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				title VARCHAR(255) NOT NULL,
				content TEXT NOT NULL,
				uploaded_by VARCHAR(255) NOT NULL,
				uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.Documents),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s_uploaded_by_idx
			ON %s (uploaded_by, uploaded_at DESC)`,
			tables.Documents, tables.Documents),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				seq BIGSERIAL,
				username VARCHAR(255) NOT NULL,
				role VARCHAR(16) NOT NULL,
				content TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.Turns),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s_username_idx
			ON %s (username, seq)`,
			tables.Turns, tables.Turns),
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
