// Package memory provides in-memory repository implementations used by
// tests and by local development without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"chatdesk/internal/domain"
	"chatdesk/internal/domain/models"
)

// Store implements all three repository interfaces in memory.
type Store struct {
	mu        sync.RWMutex
	users     map[string]*models.User
	documents map[string][]models.Document // keyed by uploader
	turns     map[string][]models.Turn     // keyed by username
	nextSeq   int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:     make(map[string]*models.User),
		documents: make(map[string][]models.Document),
		turns:     make(map[string][]models.Turn),
	}
}

// CreateUser stores a new user, rejecting duplicate usernames.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Username]; exists {
		return fmt.Errorf("user '%s': %w", user.Username, domain.ErrConflict)
	}

	u := *user
	s.users[user.Username] = &u
	return nil
}

// GetUserByUsername returns the user or domain.ErrNotFound.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[username]
	if !exists {
		return nil, fmt.Errorf("user '%s': %w", username, domain.ErrNotFound)
	}
	u := *user
	return &u, nil
}

// CreateDocument stores extracted upload text.
func (s *Store) CreateDocument(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[doc.UploadedBy] = append(s.documents[doc.UploadedBy], *doc)
	return nil
}

// RecentDocuments returns up to limit documents, newest first.
func (s *Store) RecentDocuments(ctx context.Context, username string, limit int) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]models.Document, len(s.documents[username]))
	copy(docs, s.documents[username])

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})

	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// AppendTurns appends turns in order, assigning monotonic seq values.
func (s *Store) AppendTurns(ctx context.Context, username string, turns []models.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range turns {
		s.nextSeq++
		turns[i].Seq = s.nextSeq
		s.turns[username] = append(s.turns[username], turns[i])
	}
	return nil
}

// GetConversation returns the full transcript in insertion order.
func (s *Store) GetConversation(ctx context.Context, username string) (*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv := &models.Conversation{Username: username, Turns: []models.Turn{}}
	conv.Turns = append(conv.Turns, s.turns[username]...)
	return conv, nil
}
