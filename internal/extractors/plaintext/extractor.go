// Package plaintext extracts text from plain-text document formats.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
		"text/csv",
	}
}

// Extract returns the document bytes as text.
// Rejects content that is not valid UTF-8 rather than indexing mojibake.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", domain.ErrInvalidArgument
	}

	content := string(raw.Content)
	if !utf8.ValidString(content) {
		return "", domain.ErrExtractionFailed
	}

	return strings.TrimSpace(content), nil
}
