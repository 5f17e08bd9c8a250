package repositories

import (
	"context"

	"chatdesk/internal/domain/models"
)

// ConversationRepository persists per-user transcripts. Appends are
// independent row inserts ordered by (created_at, seq); there is no
// read-modify-write cycle to race, matching the single-active-session
// assumption.
type ConversationRepository interface {
	// AppendTurns appends turns to the user's conversation in order,
	// creating the conversation implicitly on first append.
	AppendTurns(ctx context.Context, username string, turns []models.Turn) error

	// GetConversation returns the full ordered transcript, or a
	// conversation with no turns when the user has never sent anything.
	GetConversation(ctx context.Context, username string) (*models.Conversation, error)
}
