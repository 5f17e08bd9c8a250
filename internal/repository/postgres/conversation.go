package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"chatdesk/internal/domain/models"
	"chatdesk/internal/domain/repositories"
)

// PostgresConversationRepository implements ConversationRepository
// using PostgreSQL. The conversation record is implicit: it exists as
// the set of turn rows for a username, ordered by a BIGSERIAL seq
// column, so an append is a plain insert and racing sends interleave
// without losing rows.
type PostgresConversationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewConversationRepository creates a new PostgresConversationRepository
func NewConversationRepository(config *RepositoryConfig) repositories.ConversationRepository {
	return &PostgresConversationRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// AppendTurns inserts turns in order, assigning seq from the table's
// sequence so insertion order is preserved on read.
func (r *PostgresConversationRepository) AppendTurns(ctx context.Context, username string, turns []models.Turn) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, username, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq, created_at
	`, r.tables.Turns)

	for i := range turns {
		turn := &turns[i]
		err := r.pool.QueryRow(ctx, query,
			turn.ID,
			username,
			turn.Role,
			turn.Content,
			turn.CreatedAt,
		).Scan(&turn.Seq, &turn.CreatedAt)
		if err != nil {
			return fmt.Errorf("append turn: %w", err)
		}
	}

	return nil
}

// GetConversation returns the full ordered transcript for a user.
// A user with no turns gets a conversation with an empty slice.
func (r *PostgresConversationRepository) GetConversation(ctx context.Context, username string) (*models.Conversation, error) {
	query := fmt.Sprintf(`
		SELECT id, role, content, seq, created_at
		FROM %s
		WHERE username = $1
		ORDER BY seq ASC
	`, r.tables.Turns)

	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	defer rows.Close()

	conv := &models.Conversation{Username: username, Turns: []models.Turn{}}
	for rows.Next() {
		var turn models.Turn
		if err := rows.Scan(
			&turn.ID,
			&turn.Role,
			&turn.Content,
			&turn.Seq,
			&turn.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		conv.Turns = append(conv.Turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	return conv, nil
}
