package driving

import (
	"context"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// Retriever turns a query into ranked context passages.
type Retriever interface {
	// Retrieve embeds the query, searches the vector index and hydrates
	// the hits from the document store. k must be >= 1.
	Retrieve(ctx context.Context, query string, k int) (domain.RetrievalResult, error)
}

// Answerer runs the full query path: retrieve, build a prompt, generate.
type Answerer interface {
	// Ask answers a question against the ingested corpus.
	Ask(ctx context.Context, question string) (*Answer, error)

	// History returns this session's exchanges, oldest first.
	History() []domain.HistoryEntry
}

// Answer is the result of one Ask call.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources are the passages the answer was grounded on.
	Sources domain.RetrievalResult

	// Prompt is the composed model input, kept for debuggability.
	Prompt domain.Prompt
}
