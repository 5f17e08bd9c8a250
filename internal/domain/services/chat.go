package services

import (
	"context"

	"chatdesk/internal/domain/models"
)

// Upload is a file attached to a chat send.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// SendTurnRequest is one chat send: free text, an upload, or both.
// At least one must be present.
type SendTurnRequest struct {
	Username string
	Content  string
	File     *Upload
}

// ChatService orchestrates a single chat exchange.
type ChatService interface {
	// SendTurn handles one send. With a file it extracts and stores the
	// text and returns an upload confirmation without calling the
	// completion provider. With text only it builds a prompt from the
	// user's recent documents, calls the provider, and returns the
	// assistant reply - or a fallback apology when the provider fails.
	// Either way the resulting turns are appended to the conversation.
	SendTurn(ctx context.Context, req *SendTurnRequest) (reply string, err error)

	// History returns the user's full ordered transcript. Never fails
	// for a valid username; a user with no conversation gets an empty
	// turn list.
	History(ctx context.Context, username string) ([]models.Turn, error)
}
