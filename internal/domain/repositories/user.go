package repositories

import (
	"context"

	"chatdesk/internal/domain/models"
)

// UserRepository persists registered accounts.
type UserRepository interface {
	// CreateUser stores a new user. Returns domain.ErrConflict wrapped
	// if the username is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername returns the user or domain.ErrNotFound wrapped.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}
