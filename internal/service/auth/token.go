package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"chatdesk/internal/domain"
)

// TokenService issues and verifies HS256 session tokens. Tokens are
// self-contained: validity is signature plus expiry, with no server-side
// revocation list.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service. The secret must be non-empty.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret cannot be empty")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// NewToken creates a signed session token for a username.
func (s *TokenService) NewToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken checks signature and expiry and returns the username.
// Any failure maps to domain.ErrInvalidToken; the caller decides how to
// treat a missing token.
func (s *TokenService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrInvalidToken
	}

	username, err := claims.GetSubject()
	if err != nil || username == "" {
		return "", domain.ErrInvalidToken
	}

	return username, nil
}
