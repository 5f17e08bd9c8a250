package models

import (
	"time"

	"github.com/google/uuid"
)

// Role tags a turn with its author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Turn is one role-tagged message within a conversation. Turns are
// append-only and never edited or removed. Seq gives a total order
// that stays stable when two turns share a timestamp.
type Turn struct {
	ID        uuid.UUID `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Seq       int64     `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is the ordered transcript for one username. There is at
// most one conversation per user, created lazily on the first send.
type Conversation struct {
	Username string `json:"username"`
	Turns    []Turn `json:"turns"`
}
