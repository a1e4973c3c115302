package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// From the core's perspective this is a pure function with latency: the
// same text always maps to the same vector for a given model. Any caching
// is the caller's responsibility.
//
// Implementations may include:
//   - OpenAI-compatible APIs (text-embedding-3-small, all-MiniLM servers)
//   - Ollama (nomic-embed-text, all-minilm)
//
// A provider that is unreachable or returns malformed output fails with an
// error wrapping domain.ErrEmbeddingUnavailable; the core never indexes
// partial results.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// The result has the same length and order as the input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536).
	// This must match the VectorIndex configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	// Indexes reject embeddings produced by a different model.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
