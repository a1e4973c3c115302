package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driving"
	"github.com/docsage-labs/docsage-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.Retriever = (*RetrievalService)(nil)

// DefaultTopK is the number of passages retrieved per query.
const DefaultTopK = 3

// RetrievalService embeds a query, searches the vector index, and hydrates
// the hits into ranked passages.
type RetrievalService struct {
	embedder    driven.EmbeddingService
	vectorIndex driven.VectorIndex
	docStore    driven.DocumentStore
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(
	embedder driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	docStore driven.DocumentStore,
) *RetrievalService {
	return &RetrievalService{
		embedder:    embedder,
		vectorIndex: vectorIndex,
		docStore:    docStore,
	}
}

// Retrieve returns up to k passages ranked by similarity to the query.
// An index entry whose chunk or document is missing from the store is
// dropped with a warning rather than failing the query.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, k int) (domain.RetrievalResult, error) {
	result := domain.RetrievalResult{Query: query}

	if k < 1 {
		return result, fmt.Errorf("%w: k must be >= 1", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(query) == "" {
		return result, fmt.Errorf("%w: query is empty", domain.ErrInvalidArgument)
	}

	logger.Section("Retrieval")
	logger.Debug("Query: %q, k=%d", query, k)

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return result, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := s.vectorIndex.Search(ctx, embedding, k)
	if err != nil {
		return result, fmt.Errorf("searching index: %w", err)
	}
	logger.Debug("Index returned %d hits", len(hits))

	// Hydrate hits from the document store. Cache source names per
	// document; consecutive hits often share one.
	sourceNames := make(map[string]string)
	for _, hit := range hits {
		chunk, err := s.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			logger.Warn("Dropping hit %s: chunk not found (%v)", hit.ChunkID, err)
			continue
		}

		sourceName, ok := sourceNames[chunk.DocumentID]
		if !ok {
			doc, err := s.docStore.GetDocument(ctx, chunk.DocumentID)
			if err != nil {
				logger.Warn("Dropping hit %s: document %s not found (%v)",
					hit.ChunkID, chunk.DocumentID, err)
				continue
			}
			sourceName = doc.SourceName
			sourceNames[chunk.DocumentID] = sourceName
		}

		result.Chunks = append(result.Chunks, domain.RetrievedChunk{
			ChunkID:    hit.ChunkID,
			Score:      hit.Similarity,
			Text:       chunk.Text,
			SourceName: sourceName,
		})
	}

	logger.Info("Retrieved %d passages", len(result.Chunks))
	return result, nil
}
