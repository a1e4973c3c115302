package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// extensionMIME maps filename extensions to MIME types for callers that
// upload bytes without declaring a type.
var extensionMIME = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Registry selects a TextExtractor by MIME type.
type Registry struct {
	byMIME map[string]driven.TextExtractor
}

// NewRegistry creates a registry with the given extractors.
func NewRegistry(extractors ...driven.TextExtractor) *Registry {
	r := &Registry{byMIME: make(map[string]driven.TextExtractor)}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds an extractor for all of its supported MIME types.
// Later registrations win on conflict.
func (r *Registry) Register(e driven.TextExtractor) {
	for _, mime := range e.SupportedMIMETypes() {
		r.byMIME[mime] = e
	}
}

// Extract resolves an extractor for the raw document and runs it.
// Returns domain.ErrUnsupportedFormat when no extractor handles the type.
func (r *Registry) Extract(ctx context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", domain.ErrInvalidArgument
	}

	mime := ResolveMIME(raw)
	if mime == "" {
		return "", fmt.Errorf("%w: no MIME type declared and none sniffed for %q",
			domain.ErrUnsupportedFormat, raw.SourceName)
	}

	extractor, ok := r.byMIME[mime]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, mime)
	}

	return extractor.Extract(ctx, raw)
}

// ResolveMIME returns the declared MIME type, falling back to the source
// name extension. Parameters after a semicolon are stripped.
func ResolveMIME(raw *domain.RawDocument) string {
	mime := raw.MIMEType
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = mime[:idx]
	}
	mime = strings.TrimSpace(strings.ToLower(mime))
	if mime != "" {
		return mime
	}

	ext := strings.ToLower(filepath.Ext(raw.SourceName))
	return extensionMIME[ext]
}
