package services

import "context"

// RegisterRequest carries a registration attempt.
type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest carries a login attempt.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthService validates credentials and manages session tokens.
type AuthService interface {
	// Register creates a new account. No auto-login: the caller still
	// has to log in afterwards.
	Register(ctx context.Context, req *RegisterRequest) error

	// Login checks credentials and returns a signed session token.
	// Unknown user and wrong password both yield
	// domain.ErrInvalidCredentials.
	Login(ctx context.Context, req *LoginRequest) (token string, err error)

	// CurrentUser resolves a session token to a username. An empty
	// token yields domain.ErrUnauthenticated; a malformed, tampered or
	// expired one yields domain.ErrInvalidToken.
	CurrentUser(ctx context.Context, token string) (username string, err error)
}
