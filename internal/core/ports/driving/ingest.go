package driving

import (
	"context"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// Ingestor commits raw documents to the document store and vector index.
type Ingestor interface {
	// Ingest extracts, chunks, embeds and commits one raw document.
	// A failure aborts this document only; previously committed
	// documents are unaffected.
	Ingest(ctx context.Context, raw *domain.RawDocument) (*IngestReport, error)

	// IngestAll ingests multiple raw documents, embedding in parallel up
	// to the provider concurrency limit. Per-document failures are
	// collected in the reports; the first hard error is returned.
	IngestAll(ctx context.Context, raws []*domain.RawDocument) ([]IngestReport, error)
}

// IngestReport summarises one document's ingestion.
type IngestReport struct {
	// SourceName is the declared origin of the input.
	SourceName string

	// DocumentID is the committed document's ID, empty on failure.
	DocumentID string

	// Chunks is the number of passages committed.
	Chunks int

	// Superseded is true when a previous document under the same
	// source name was replaced.
	Superseded bool

	// Err holds the per-document failure, nil on success.
	Err error
}
