// Package auth implements credential validation and session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"chatdesk/internal/config"
	"chatdesk/internal/domain"
	"chatdesk/internal/domain/models"
	"chatdesk/internal/domain/repositories"
	"chatdesk/internal/domain/services"
)

// Service implements the AuthService interface.
type Service struct {
	userRepo repositories.UserRepository
	tokens   *TokenService
	logger   *slog.Logger
}

// NewService creates a new auth service.
func NewService(
	userRepo repositories.UserRepository,
	tokens *TokenService,
	logger *slog.Logger,
) services.AuthService {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a new account. No auto-login.
func (s *Service) Register(ctx context.Context, req *services.RegisterRequest) error {
	if err := validateRegisterRequest(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return err
	}

	s.logger.Info("user registered", "username", user.Username)
	return nil
}

// Login checks credentials and issues a session token. Unknown user and
// wrong password both return ErrInvalidCredentials so the response
// can't be used to enumerate usernames; the log still tells them apart.
func (s *Service) Login(ctx context.Context, req *services.LoginRequest) (string, error) {
	if err := validateLoginRequest(req); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("login failed: unknown user", "username", req.Username)
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("login failed: password mismatch", "username", req.Username)
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.NewToken(user.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user logged in", "username", user.Username)
	return token, nil
}

// CurrentUser resolves a session token to a username. Missing token and
// bad token stay distinct so callers can tell "never logged in" from
// "session expired".
func (s *Service) CurrentUser(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthenticated
	}
	return s.tokens.VerifyToken(token)
}

func validateRegisterRequest(req *services.RegisterRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Username,
			validation.Required,
			validation.Length(1, config.MaxUsernameLength),
		),
		validation.Field(&req.Password,
			validation.Required,
			validation.Length(config.MinPasswordLength, config.MaxPasswordLength),
		),
	); err != nil {
		return err
	}

	if req.Password != req.ConfirmPassword {
		return fmt.Errorf("passwords do not match")
	}
	return nil
}

func validateLoginRequest(req *services.LoginRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Username, validation.Required),
		validation.Field(&req.Password, validation.Required),
	)
}
