package driven

import (
	"context"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// TextExtractor turns raw document bytes into plain text.
// Each extractor handles specific MIME types (e.g., PDF, DOCX, plain text).
//
// Extractors fail with domain.ErrExtractionFailed when the bytes cannot be
// parsed for their declared type. Selecting an extractor for an unknown
// type is the registry's job and yields domain.ErrUnsupportedFormat.
type TextExtractor interface {
	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Extract returns the plain text content of the raw document.
	Extract(ctx context.Context, raw *domain.RawDocument) (string, error)
}
