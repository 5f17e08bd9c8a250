package config

import "time"

const (
	// MaxUsernameLength bounds usernames so they fit in VARCHAR(255)
	// and stay reasonable for display.
	MaxUsernameLength = 64

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 4

	// MaxPasswordLength caps input to bcrypt's 72-byte limit.
	MaxPasswordLength = 72

	// MaxMessageLength bounds a single chat message.
	MaxMessageLength = 8000

	// MaxUploadBytes is the hard cap on uploaded file size, checked
	// before any text extraction is attempted.
	MaxUploadBytes = 4 << 20

	// ContextDocumentCount is how many of the user's most recent
	// documents are folded into the system prompt.
	ContextDocumentCount = 3

	// SessionTTL is the lifetime of an issued session token.
	SessionTTL = time.Hour

	// Completion sampling parameters. Fixed: the chat surface exposes no
	// per-request tuning.
	CompletionMaxTokens   = 800
	CompletionTemperature = 0.7
	CompletionTopP        = 0.95
)
