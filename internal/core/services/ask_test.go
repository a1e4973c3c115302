package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

func newTestAsk(retriever *stubRetriever, llm *stubLLM, opts ...AskOption) *AskService {
	gen := NewAnswerGenerator(llm, WithRetryBaseDelay(time.Millisecond))
	return NewAskService(retriever, NewPromptBuilder(), gen, opts...)
}

func TestAsk_Success(t *testing.T) {
	retriever := &stubRetriever{result: retrievalWith("", "The sky is blue.")}
	llm := &stubLLM{responses: []string{"It is blue."}}
	svc := newTestAsk(retriever, llm)

	answer, err := svc.Ask(context.Background(), "what colour is the sky?")
	require.NoError(t, err)

	assert.Equal(t, "It is blue.", answer.Text)
	assert.Equal(t, "what colour is the sky?", answer.Sources.Query)
	require.Len(t, answer.Sources.Chunks, 1)
	assert.Contains(t, answer.Prompt.ContextBlock, "The sky is blue.")
	assert.Equal(t, DefaultTopK, retriever.lastK)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	svc := newTestAsk(&stubRetriever{}, &stubLLM{})

	_, err := svc.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestAsk_NoContextStillAnswers(t *testing.T) {
	retriever := &stubRetriever{} // empty corpus
	llm := &stubLLM{responses: []string{"I don't know."}}
	svc := newTestAsk(retriever, llm)

	answer, err := svc.Ask(context.Background(), "unknown topic?")
	require.NoError(t, err)

	assert.Equal(t, "I don't know.", answer.Text)
	assert.True(t, answer.Sources.Empty())
	assert.Equal(t, emptyContextNotice, answer.Prompt.ContextBlock)
}

func TestAsk_RetrievalFailure(t *testing.T) {
	retriever := &stubRetriever{err: domain.ErrEmbeddingUnavailable}
	svc := newTestAsk(retriever, &stubLLM{})

	_, err := svc.Ask(context.Background(), "question?")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Empty(t, svc.History())
}

func TestAsk_GenerationFailureNotRecorded(t *testing.T) {
	retriever := &stubRetriever{result: retrievalWith("", "context")}
	llm := &stubLLM{errs: []error{domain.ErrAuthFailed}}
	svc := newTestAsk(retriever, llm)

	_, err := svc.Ask(context.Background(), "question?")
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
	assert.Empty(t, svc.History())
}

func TestAsk_HistoryAccumulatesInOrder(t *testing.T) {
	retriever := &stubRetriever{result: retrievalWith("", "context")}
	llm := &stubLLM{responses: []string{"first answer", "second answer"}}
	svc := newTestAsk(retriever, llm)
	ctx := context.Background()

	_, err := svc.Ask(ctx, "first question?")
	require.NoError(t, err)
	_, err = svc.Ask(ctx, "second question?")
	require.NoError(t, err)

	history := svc.History()
	require.Len(t, history, 2)
	assert.Equal(t, "first question?", history[0].Query)
	assert.Equal(t, "first answer", history[0].Answer)
	assert.Equal(t, "second question?", history[1].Query)
	assert.Equal(t, "second answer", history[1].Answer)
	assert.False(t, history[1].AskedAt.Before(history[0].AskedAt))
}

func TestAsk_WithTopK(t *testing.T) {
	retriever := &stubRetriever{result: retrievalWith("", "context")}
	llm := &stubLLM{responses: []string{"answer"}}
	svc := newTestAsk(retriever, llm, WithTopK(7))

	_, err := svc.Ask(context.Background(), "question?")
	require.NoError(t, err)
	assert.Equal(t, 7, retriever.lastK)
}

func TestSessionHistory_CopyIsolation(t *testing.T) {
	history := NewSessionHistory()
	history.Append("q1", "a1")

	snapshot := history.Entries()
	snapshot[0].Answer = "mutated"

	assert.Equal(t, "a1", history.Entries()[0].Answer)
	assert.Equal(t, 1, history.Len())
}
