package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemPrompt(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)

	withDocs := registry.SystemPrompt("refund policy: 30 days")
	assert.Contains(t, withDocs, "refund policy: 30 days")
	assert.NotContains(t, withDocs, "{{context}}")

	generic := registry.SystemPrompt("")
	assert.NotEmpty(t, generic)
	assert.NotContains(t, strings.ToLower(generic), "company documents")
}

func TestJoinContext(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)

	joined := registry.JoinContext([]string{"doc one", "doc two"})
	assert.Contains(t, joined, "doc one")
	assert.Contains(t, joined, "doc two")
	assert.NotEqual(t, "doc onedoc two", joined)

	assert.Equal(t, "only", registry.JoinContext([]string{"only"}))
}

func TestUploadConfirmation(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)

	msg := registry.UploadConfirmation("faq.txt")
	assert.Contains(t, msg, "faq.txt")
}

func TestFallbackReply(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)

	assert.NotEmpty(t, registry.FallbackReply())
}
