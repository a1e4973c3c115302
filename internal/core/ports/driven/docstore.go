package driven

import (
	"context"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// DocumentStore persists documents and their chunks.
//
// The store backs the vector index's results with actual text: every chunk
// ID held by the index must resolve here. SaveChunks is transactional:
// either every chunk in the batch commits or none does, so an ingest never
// leaves orphaned text behind a failed write.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks (with embeddings) atomically.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound when absent.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunk retrieves a specific chunk by ID.
	// Returns domain.ErrNotFound when absent.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetChunks retrieves all chunks for a document, ordered by offset.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// DeleteDocument removes a document and all its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// FindBySourceName returns the live document for a source name.
	// Returns domain.ErrNotFound when no document carries that name.
	FindBySourceName(ctx context.Context, sourceName string) (*domain.Document, error)

	// ListDocuments returns all stored documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}
