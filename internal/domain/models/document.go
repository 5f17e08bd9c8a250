package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is the extracted plain-text content of an uploaded file,
// used as optional prompt context for the completion provider.
// Documents are write-once: no mutation, no retention policy.
type Document struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"` // original filename
	Content    string    `json:"content"`
	UploadedBy string    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}
