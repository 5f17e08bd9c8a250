// Package llm defines the completion provider abstraction. The chat
// service treats a provider as an opaque request -> reply function.
package llm

import "context"

// CompletionProvider generates one assistant reply for one exchange.
// Implementations must respect ctx cancellation; callers apply the
// provider timeout.
type CompletionProvider interface {
	// Complete generates a reply for a single user message plus an
	// optional system prompt. No conversation history is sent beyond
	// this one exchange.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g. "anthropic").
	Name() string
}

// CompletionRequest contains the parameters for one completion call.
type CompletionRequest struct {
	// System is the system prompt; empty means none.
	System string

	// UserMessage is the user's message, the only conversation turn sent.
	UserMessage string

	// Model is the model identifier.
	Model string

	// Sampling parameters. Zero MaxTokens means the provider default.
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// CompletionResponse contains the provider's reply.
type CompletionResponse struct {
	// Text is the assistant reply.
	Text string

	// Model is the model that served the request.
	Model string

	// Token counts, when the provider reports them.
	InputTokens  int
	OutputTokens int
}
