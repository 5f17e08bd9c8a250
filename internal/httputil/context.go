package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const usernameKey contextKey = "username"

// WithUsername adds the authenticated username to the request context
func WithUsername(r *http.Request, username string) *http.Request {
	ctx := context.WithValue(r.Context(), usernameKey, username)
	return r.WithContext(ctx)
}

// GetUsername retrieves the username from context, empty if not found
func GetUsername(r *http.Request) string {
	username, _ := r.Context().Value(usernameKey).(string)
	return username
}
