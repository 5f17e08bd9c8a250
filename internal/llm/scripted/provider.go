// Package scripted provides a canned CompletionProvider for tests and
// for local development without an API key.
package scripted

import (
	"context"
	"sync"

	"chatdesk/internal/llm"
)

// Provider replies with a fixed text, or fails with a configured error.
// Safe for concurrent use.
type Provider struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []llm.CompletionRequest
}

// NewProvider creates a provider that always replies with text.
func NewProvider(text string) *Provider {
	return &Provider{reply: text}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "scripted"
}

// Fail makes all subsequent calls return err (nil restores replies).
func (p *Provider) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Requests returns a copy of every request seen so far.
func (p *Provider) Requests() []llm.CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]llm.CompletionRequest, len(p.requests))
	copy(out, p.requests)
	return out
}

// Complete records the request and returns the canned reply or error.
func (p *Provider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, *req)

	if p.err != nil {
		return nil, p.err
	}

	return &llm.CompletionResponse{
		Text:  p.reply,
		Model: req.Model,
	}, nil
}
