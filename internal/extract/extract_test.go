package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatdesk/internal/domain"
)

func TestText_PlainTextVerbatim(t *testing.T) {
	content := "line one\nline two\n"

	got, err := Text("notes.txt", "text/plain", []byte(content))
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestText_PlainTextWithCharsetParameter(t *testing.T) {
	got, err := Text("notes.txt", "text/plain; charset=utf-8", []byte("héllo"))
	require.NoError(t, err)
	assert.Equal(t, "héllo", got)
}

func TestText_ExtensionFallback(t *testing.T) {
	// Browsers often send application/octet-stream; the extension decides
	got, err := Text("notes.txt", "application/octet-stream", []byte("content"))
	require.NoError(t, err)
	assert.Equal(t, "content", got)

	got, err = Text("notes.TXT", "", []byte("content"))
	require.NoError(t, err)
	assert.Equal(t, "content", got)
}

func TestText_UnsupportedType(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
	}{
		{"image", "photo.png", "image/png"},
		{"markdown", "readme.md", "text/markdown"},
		{"binary without extension", "blob", "application/octet-stream"},
		{"unknown extension", "data.bin", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Text(tt.filename, tt.contentType, []byte("data"))
			assert.ErrorIs(t, err, domain.ErrUnsupportedType)
		})
	}
}

func TestText_CorruptPDF(t *testing.T) {
	// Declared as PDF but not parseable as one
	_, err := Text("broken.pdf", "application/pdf", []byte("not a pdf at all"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}
