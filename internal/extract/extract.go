// Package extract turns uploaded files into plain text. Plain-text
// files are read verbatim; PDFs are parsed page by page. Everything
// else is rejected before any bytes are interpreted.
package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"chatdesk/internal/domain"
)

// Text extracts plain text from an upload. contentType is the declared
// MIME type; when it's empty or generic the file extension decides.
func Text(filename, contentType string, data []byte) (string, error) {
	switch kind(filename, contentType) {
	case "text":
		return string(data), nil
	case "pdf":
		return pdfText(data)
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedType, displayType(filename, contentType))
	}
}

func kind(filename, contentType string) string {
	// Strip parameters like "; charset=utf-8"
	mime := contentType
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.TrimSpace(strings.ToLower(mime))

	switch mime {
	case "text/plain":
		return "text"
	case "application/pdf":
		return "pdf"
	case "", "application/octet-stream":
		// Browsers often send a generic type; trust the extension
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".txt":
			return "text"
		case ".pdf":
			return "pdf"
		}
	}
	return ""
}

func displayType(filename, contentType string) string {
	if contentType != "" {
		return contentType
	}
	if ext := filepath.Ext(filename); ext != "" {
		return ext
	}
	return "unknown"
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: not a readable PDF", domain.ErrUnsupportedType)
	}

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: PDF has no extractable text", domain.ErrUnsupportedType)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", fmt.Errorf("read PDF text: %w", err)
	}

	return buf.String(), nil
}
