package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"chatdesk/internal/domain/models"
	"chatdesk/internal/domain/repositories"
)

// PostgresDocumentRepository implements DocumentRepository using PostgreSQL
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new PostgresDocumentRepository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// CreateDocument stores extracted upload text
func (r *PostgresDocumentRepository) CreateDocument(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, content, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING uploaded_at
	`, r.tables.Documents)

	err := r.pool.QueryRow(ctx, query,
		doc.ID,
		doc.Title,
		doc.Content,
		doc.UploadedBy,
		doc.UploadedAt,
	).Scan(&doc.UploadedAt)

	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// RecentDocuments retrieves the user's newest documents, newest first
func (r *PostgresDocumentRepository) RecentDocuments(ctx context.Context, username string, limit int) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, title, content, uploaded_by, uploaded_at
		FROM %s
		WHERE uploaded_by = $1
		ORDER BY uploaded_at DESC
		LIMIT $2
	`, r.tables.Documents)

	rows, err := r.pool.Query(ctx, query, username, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent documents: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(
			&doc.ID,
			&doc.Title,
			&doc.Content,
			&doc.UploadedBy,
			&doc.UploadedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}
