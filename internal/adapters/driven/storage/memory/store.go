package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.Committer = (*Store)(nil)

// Store pairs the in-memory document store and vector index and commits
// ingests across both as one unit. A store-wide mutex serializes commits;
// individual reads go through the underlying components.
type Store struct {
	mu    sync.Mutex
	docs  *DocumentStore
	index *VectorIndex
}

// NewStore creates a combined in-memory store.
func NewStore(dimensions int, modelID string) *Store {
	return &Store{
		docs:  NewDocumentStore(),
		index: NewVectorIndex(dimensions, modelID),
	}
}

// DocumentStore returns the document store view.
func (s *Store) DocumentStore() driven.DocumentStore { return s.docs }

// VectorIndex returns the vector index view.
func (s *Store) VectorIndex() driven.VectorIndex { return s.index }

// CommitDocument atomically commits a document, its chunks and their index
// entries, superseding any previous document under the same source name.
//
// Index invariants are validated for every chunk before anything is
// written, so a rejected commit leaves both components untouched.
func (s *Store) CommitDocument(
	ctx context.Context, doc *domain.Document, chunks []domain.Chunk, modelID string,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate everything up front: embed-before-insert discipline.
	for _, chunk := range chunks {
		if len(chunk.Embedding) != s.index.Dimensions() {
			return false, fmt.Errorf("%w: chunk %s has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, chunk.ID, len(chunk.Embedding), s.index.Dimensions())
		}
	}
	if modelID != s.index.ModelID() {
		return false, fmt.Errorf("%w: got %q, index model is %q",
			domain.ErrModelMismatch, modelID, s.index.ModelID())
	}

	// Supersede any previous document under this source name.
	superseded := false
	if prev, err := s.docs.FindBySourceName(ctx, doc.SourceName); err == nil {
		prevChunks, _ := s.docs.GetChunks(ctx, prev.ID)
		for _, chunk := range prevChunks {
			if err := s.index.Remove(ctx, chunk.ID); err != nil {
				return false, err
			}
		}
		if err := s.docs.DeleteDocument(ctx, prev.ID); err != nil {
			return false, err
		}
		superseded = true
	}

	if err := s.docs.SaveDocument(ctx, doc); err != nil {
		return superseded, err
	}
	if err := s.docs.SaveChunks(ctx, chunks); err != nil {
		return superseded, err
	}
	for _, chunk := range chunks {
		if err := s.index.Insert(ctx, chunk.ID, chunk.Embedding, modelID); err != nil {
			// Validation above makes this unreachable; keep both sides
			// consistent anyway.
			_ = s.docs.DeleteDocument(ctx, doc.ID)
			return superseded, err
		}
	}

	return superseded, nil
}
