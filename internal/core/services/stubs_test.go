package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// stubEmbedder returns canned vectors by exact text, falling back to a
// cheap deterministic hash vector for anything unlisted.
type stubEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	err     error
	calls   int
}

var _ driven.EmbeddingService = (*stubEmbedder)(nil)

func newStubEmbedder() *stubEmbedder {
	return &stubEmbedder{vectors: make(map[string][]float32)}
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return hashVector(text), nil
}

func (e *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *stubEmbedder) Dimensions() int               { return 3 }
func (e *stubEmbedder) ModelName() string             { return "stub-model" }
func (e *stubEmbedder) Ping(ctx context.Context) error { return nil }
func (e *stubEmbedder) Close() error                  { return nil }

// hashVector maps text to a stable 3-dimensional vector.
func hashVector(text string) []float32 {
	var h [3]float32
	for i, r := range text {
		h[i%3] += float32(r%97) + 1
	}
	return []float32{h[0], h[1], h[2]}
}

// stubLLM replays a scripted sequence of responses and errors.
type stubLLM struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
	lastSystem string
	lastUser   string
}

var _ driven.LLMService = (*stubLLM)(nil)

func (l *stubLLM) Complete(ctx context.Context, system, user string, opts driven.CompleteOptions) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.calls
	l.calls++
	l.lastSystem = system
	l.lastUser = user

	if i < len(l.errs) && l.errs[i] != nil {
		return "", l.errs[i]
	}
	if i < len(l.responses) {
		return l.responses[i], nil
	}
	if len(l.responses) > 0 {
		return l.responses[len(l.responses)-1], nil
	}
	return fmt.Sprintf("answer %d", i), nil
}

func (l *stubLLM) ModelName() string              { return "stub-llm" }
func (l *stubLLM) Ping(ctx context.Context) error { return nil }
func (l *stubLLM) Close() error                   { return nil }

// blockingLLM never returns before the context expires.
type blockingLLM struct {
	mu    sync.Mutex
	calls int
}

var _ driven.LLMService = (*blockingLLM)(nil)

func (l *blockingLLM) Complete(ctx context.Context, system, user string, opts driven.CompleteOptions) (string, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()

	<-ctx.Done()
	return "", fmt.Errorf("%w: provider hung", domain.ErrTimeout)
}

func (l *blockingLLM) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func (l *blockingLLM) ModelName() string              { return "blocking-llm" }
func (l *blockingLLM) Ping(ctx context.Context) error { return nil }
func (l *blockingLLM) Close() error                   { return nil }

// stubRetriever returns a fixed retrieval result.
type stubRetriever struct {
	result domain.RetrievalResult
	err    error
	lastK  int
}

func (r *stubRetriever) Retrieve(ctx context.Context, query string, k int) (domain.RetrievalResult, error) {
	r.lastK = k
	if r.err != nil {
		return domain.RetrievalResult{Query: query}, r.err
	}
	result := r.result
	result.Query = query
	return result, nil
}
