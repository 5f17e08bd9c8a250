package repositories

import (
	"context"

	"chatdesk/internal/domain/models"
)

// DocumentRepository persists extracted upload text.
type DocumentRepository interface {
	// CreateDocument stores a new document.
	CreateDocument(ctx context.Context, doc *models.Document) error

	// RecentDocuments returns up to limit documents uploaded by the
	// user, newest first. Empty slice when the user has none.
	RecentDocuments(ctx context.Context, username string, limit int) ([]models.Document, error)
}
