package handler

import (
	"log/slog"
	"net/http"
	"time"

	"chatdesk/internal/domain/services"
	"chatdesk/internal/httputil"
	"chatdesk/internal/middleware"
)

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	authService services.AuthService
	sessionTTL  time.Duration
	// secureCookies enables Secure + SameSite=None, needed when the
	// frontend is served from another origin over HTTPS.
	secureCookies bool
	logger        *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService services.AuthService, sessionTTL time.Duration, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// Register creates a new account
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Clients that send no confirmation field confirm implicitly
	if req.ConfirmPassword == "" {
		req.ConfirmPassword = req.Password
	}

	if err := h.authService.Register(r.Context(), &req); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]string{
		"message": "Registration successful",
	})
}

// Login checks credentials and sets the session cookie
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(token, int(h.sessionTTL.Seconds())))
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Login successful",
	})
}

// CurrentUser returns the authenticated user
// GET /api/auth/user (behind auth middleware)
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	username := httputil.GetUsername(r)

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"user": map[string]string{"username": username},
	})
}

// Logout clears the session cookie. Idempotent: succeeds whether or
// not a valid session exists.
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out",
	})
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if h.secureCookies {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: sameSite,
	}
}
