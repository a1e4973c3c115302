package driven

import (
	"context"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// Committer applies one document's ingest as a single atomic unit:
// the document, its chunks, and their index entries all commit, or none
// do. Chunks carry their embeddings when handed to CommitDocument.
//
// Re-ingesting under an existing source name supersedes it: the previous
// document, chunks and index entries are removed in the same commit scope
// before the new ones land, so readers never observe a mixed state.
type Committer interface {
	// CommitDocument atomically commits a document with its embedded
	// chunks, superseding any previous document with the same source
	// name. Returns whether a previous document was replaced.
	//
	// The index invariants (dimension, model) are validated before
	// anything is written; a rejected commit changes nothing.
	CommitDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk, modelID string) (superseded bool, err error)
}
