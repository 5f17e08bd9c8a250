// Package chat orchestrates a single chat exchange: input validation,
// upload extraction, prompt assembly, the completion call, and the
// conversation append.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"chatdesk/internal/config"
	"chatdesk/internal/domain"
	"chatdesk/internal/domain/models"
	"chatdesk/internal/domain/repositories"
	"chatdesk/internal/domain/services"
	"chatdesk/internal/extract"
	"chatdesk/internal/llm"
	"chatdesk/internal/prompts"
)

// Service implements the ChatService interface.
type Service struct {
	docRepo         repositories.DocumentRepository
	convRepo        repositories.ConversationRepository
	provider        llm.CompletionProvider
	prompts         *prompts.Registry
	model           string
	providerTimeout time.Duration
	logger          *slog.Logger
}

// NewService creates a new chat service.
func NewService(
	docRepo repositories.DocumentRepository,
	convRepo repositories.ConversationRepository,
	provider llm.CompletionProvider,
	promptRegistry *prompts.Registry,
	model string,
	providerTimeout time.Duration,
	logger *slog.Logger,
) services.ChatService {
	return &Service{
		docRepo:         docRepo,
		convRepo:        convRepo,
		provider:        provider,
		prompts:         promptRegistry,
		model:           model,
		providerTimeout: providerTimeout,
		logger:          logger,
	}
}

// SendTurn handles one send: an upload is extracted and stored without
// calling the provider; free text goes through a single-exchange
// completion with the user's recent documents as context.
func (s *Service) SendTurn(ctx context.Context, req *services.SendTurnRequest) (string, error) {
	if err := validateSendTurnRequest(req); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.File != nil {
		return s.handleUpload(ctx, req)
	}
	return s.handleMessage(ctx, req)
}

// History returns the user's full ordered transcript.
func (s *Service) History(ctx context.Context, username string) ([]models.Turn, error) {
	conv, err := s.convRepo.GetConversation(ctx, username)
	if err != nil {
		return nil, err
	}
	return conv.Turns, nil
}

// handleUpload extracts and stores the file text, then records the
// exchange as a user turn (the filename) plus a system confirmation.
func (s *Service) handleUpload(ctx context.Context, req *services.SendTurnRequest) (string, error) {
	file := req.File

	// Size gate comes first: oversized files are rejected before any
	// extraction work.
	if file.Size > config.MaxUploadBytes {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", domain.ErrPayloadTooLarge, file.Size, config.MaxUploadBytes)
	}

	content, err := extract.Text(file.Filename, file.ContentType, file.Data)
	if err != nil {
		return "", err
	}

	doc := &models.Document{
		ID:         uuid.New(),
		Title:      file.Filename,
		Content:    content,
		UploadedBy: req.Username,
		UploadedAt: time.Now(),
	}
	if err := s.docRepo.CreateDocument(ctx, doc); err != nil {
		return "", err
	}

	confirmation := s.prompts.UploadConfirmation(file.Filename)
	turns := []models.Turn{
		newTurn(models.RoleUser, file.Filename),
		newTurn(models.RoleSystem, confirmation),
	}
	if err := s.convRepo.AppendTurns(ctx, req.Username, turns); err != nil {
		return "", err
	}

	s.logger.Info("document uploaded",
		"username", req.Username,
		"title", file.Filename,
		"bytes", file.Size,
	)
	return confirmation, nil
}

// handleMessage runs the completion exchange. Provider failures degrade
// to a fallback reply; the conversation still records both turns so the
// transcript is never left partial.
func (s *Service) handleMessage(ctx context.Context, req *services.SendTurnRequest) (string, error) {
	systemPrompt, err := s.buildSystemPrompt(ctx, req.Username)
	if err != nil {
		return "", err
	}

	reply := s.complete(ctx, systemPrompt, req.Content)

	turns := []models.Turn{
		newTurn(models.RoleUser, req.Content),
		newTurn(models.RoleAssistant, reply),
	}
	if err := s.convRepo.AppendTurns(ctx, req.Username, turns); err != nil {
		return "", err
	}

	return reply, nil
}

// buildSystemPrompt folds the user's most recent documents into the
// company-context preamble, or falls back to the generic one.
func (s *Service) buildSystemPrompt(ctx context.Context, username string) (string, error) {
	docs, err := s.docRepo.RecentDocuments(ctx, username, config.ContextDocumentCount)
	if err != nil {
		return "", err
	}

	contents := make([]string, 0, len(docs))
	for _, doc := range docs {
		if text := strings.TrimSpace(doc.Content); text != "" {
			contents = append(contents, text)
		}
	}

	return s.prompts.SystemPrompt(s.prompts.JoinContext(contents)), nil
}

// complete calls the provider with fixed sampling parameters and the
// configured timeout. A failure is logged and replaced with the
// fallback apology - the chat never hard-fails on a provider outage.
func (s *Service) complete(ctx context.Context, systemPrompt, message string) string {
	ctx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	resp, err := s.provider.Complete(ctx, &llm.CompletionRequest{
		System:      systemPrompt,
		UserMessage: message,
		Model:       s.model,
		MaxTokens:   config.CompletionMaxTokens,
		Temperature: config.CompletionTemperature,
		TopP:        config.CompletionTopP,
	})
	if err != nil {
		s.logger.Error("completion provider failed",
			"provider", s.provider.Name(),
			"model", s.model,
			"error", err,
		)
		return s.prompts.FallbackReply()
	}

	s.logger.Debug("completion succeeded",
		"model", resp.Model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
	)
	return resp.Text
}

func newTurn(role models.Role, content string) models.Turn {
	return models.Turn{
		ID:        uuid.New(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

func validateSendTurnRequest(req *services.SendTurnRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Username, validation.Required),
		validation.Field(&req.Content, validation.Length(0, config.MaxMessageLength)),
	); err != nil {
		return err
	}

	if strings.TrimSpace(req.Content) == "" && req.File == nil {
		return fmt.Errorf("message or file is required")
	}
	return nil
}
