package driven

import "context"

// VectorIndex stores (chunk ID, embedding) pairs and answers k-nearest
// neighbour queries by cosine similarity.
//
// An index is bound to one embedding dimension and one model identifier at
// construction. Insert enforces both atomically: a rejected insert leaves
// the index untouched. Exactness is a quality property, not a correctness
// one: a brute-force backend and an approximate backend are interchangeable.
type VectorIndex interface {
	// Insert adds a vector for the given chunk ID. It fails with
	// domain.ErrDimensionMismatch when the embedding length disagrees
	// with the index dimension, and with domain.ErrModelMismatch when
	// modelID differs from the index's model.
	Insert(ctx context.Context, chunkID string, embedding []float32, modelID string) error

	// Remove deletes all entries for the chunk. No-op if absent.
	Remove(ctx context.Context, chunkID string) error

	// Search finds up to k nearest neighbours to the query vector,
	// ordered by descending similarity, ties broken by insertion order.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Dimensions returns the index's embedding dimension.
	Dimensions() int

	// ModelID returns the embedding model the index is bound to.
	ModelID() string

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score (-1 to 1, higher is closer).
	Similarity float64
}
