package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"chatdesk/internal/domain"
	"chatdesk/internal/domain/services"
	"chatdesk/internal/httputil"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

// Auth verifies the session cookie on protected routes.
type Auth struct {
	authService services.AuthService
	logger      *slog.Logger
}

// NewAuth creates the auth middleware.
func NewAuth(authService services.AuthService, logger *slog.Logger) *Auth {
	return &Auth{authService: authService, logger: logger}
}

// RequireAuth rejects requests without a valid session cookie. A
// missing cookie gets 401 (never logged in); a bad or expired token
// gets 403, so clients can show the right message. On success the
// username is placed in the request context.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			token = cookie.Value
		}

		username, err := a.authService.CurrentUser(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUnauthenticated):
				httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
			case errors.Is(err, domain.ErrInvalidToken):
				httputil.RespondError(w, http.StatusForbidden, "invalid or expired token")
			default:
				a.logger.Error("auth check failed", "error", err)
				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		next.ServeHTTP(w, httputil.WithUsername(r, username))
	})
}
