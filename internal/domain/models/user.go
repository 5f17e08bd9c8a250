package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Created at registration, immutable
// afterwards; never deleted by this system.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
