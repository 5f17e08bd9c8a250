// Package prompts holds the chat service's prompt and canned-response
// text, loaded from an embedded YAML file so wording can change without
// touching orchestration code.
package prompts

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

const contextPlaceholder = "{{context}}"

type systemPrompts struct {
	WithContext string `yaml:"with_context"`
	Generic     string `yaml:"generic"`
}

type promptsFile struct {
	System             systemPrompts `yaml:"system"`
	ContextSeparator   string        `yaml:"context_separator"`
	FallbackReply      string        `yaml:"fallback_reply"`
	UploadConfirmation string        `yaml:"upload_confirmation"`
}

// Registry resolves prompt text. Read-only after load.
type Registry struct {
	file promptsFile
}

// NewRegistry loads the embedded prompt file.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/prompts.yaml")
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}

	var file promptsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal prompts file: %w", err)
	}

	if file.System.WithContext == "" || file.System.Generic == "" ||
		file.FallbackReply == "" || file.UploadConfirmation == "" {
		return nil, fmt.Errorf("prompts file is missing required entries")
	}

	return &Registry{file: file}, nil
}

// SystemPrompt returns the system prompt for a completion call. With a
// non-empty context it uses the company-documents preamble, otherwise
// the generic support-agent one.
func (r *Registry) SystemPrompt(contextText string) string {
	if contextText == "" {
		return strings.TrimSpace(r.file.System.Generic)
	}
	prompt := strings.ReplaceAll(r.file.System.WithContext, contextPlaceholder, contextText)
	return strings.TrimSpace(prompt)
}

// JoinContext concatenates document contents with the configured separator.
func (r *Registry) JoinContext(contents []string) string {
	return strings.Join(contents, r.file.ContextSeparator)
}

// FallbackReply is the assistant text substituted when the completion
// provider fails.
func (r *Registry) FallbackReply() string {
	return r.file.FallbackReply
}

// UploadConfirmation returns the system-turn text confirming an upload.
func (r *Registry) UploadConfirmation(filename string) string {
	return fmt.Sprintf(r.file.UploadConfirmation, filename)
}
