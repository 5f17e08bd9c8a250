package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds shared dependencies for the pgx repositories.
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds environment-prefixed table names (dev_, test_,
// prod_) so multiple environments can share one database.
type TableNames struct {
	Users     string
	Documents string
	Turns     string
}

// NewTableNames creates table names with the given prefix.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:     fmt.Sprintf("%susers", prefix),
		Documents: fmt.Sprintf("%sdocuments", prefix),
		Turns:     fmt.Sprintf("%sturns", prefix),
	}
}

// CreateConnectionPool creates a pgx connection pool and verifies the
// connection. Query exec mode overrides (e.g. for PgBouncer transaction
// pooling) can be passed through the connection string with
// ?default_query_exec_mode=simple_protocol.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
