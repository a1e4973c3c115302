package domain

// RetrievedChunk is a single ranked passage returned by retrieval.
type RetrievedChunk struct {
	// ChunkID identifies the matched chunk.
	ChunkID string

	// Score is the cosine similarity to the query (higher is closer).
	Score float64

	// Text is the full chunk text, hydrated from the document store.
	Text string

	// SourceName is the origin of the owning document, for display.
	SourceName string
}

// RetrievalResult is an ordered sequence of passages for a query,
// sorted by descending similarity. Ties are broken by insertion order
// (earliest-ingested first) so identical inputs rank deterministically.
type RetrievalResult struct {
	// Query is the original query string.
	Query string

	// Chunks holds up to k passages, best match first.
	Chunks []RetrievedChunk
}

// Empty reports whether retrieval found no supporting passages.
func (r RetrievalResult) Empty() bool {
	return len(r.Chunks) == 0
}
