package domain

import "errors"

// Sentinel errors - wrap with %w and match with errors.Is().
// Handlers map these to HTTP status codes in one place.
var (
	// ErrValidation indicates bad or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a missing resource.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a duplicate resource, e.g. registering a
	// username that already exists.
	ErrConflict = errors.New("already exists")

	// ErrInvalidCredentials is returned for both unknown-user and
	// wrong-password logins so responses don't enumerate usernames.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated means no session token was presented at all.
	// Distinct from ErrInvalidToken so callers can tell "never logged
	// in" from "session expired".
	ErrUnauthenticated = errors.New("authentication required")

	// ErrInvalidToken means the presented token is malformed, has a bad
	// signature, or has expired.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrUnsupportedType indicates an upload with a MIME type other
	// than plain text or PDF.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrPayloadTooLarge indicates an upload over the size cap.
	ErrPayloadTooLarge = errors.New("file too large")

	// ErrProvider indicates a completion provider failure. Never
	// surfaced to HTTP callers; the chat service degrades to a fallback
	// reply instead.
	ErrProvider = errors.New("completion provider failed")
)
