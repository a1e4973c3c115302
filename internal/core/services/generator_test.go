package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

func testPrompt() domain.Prompt {
	builder := NewPromptBuilder()
	return builder.Build(retrievalWith("what is the sky?", "The sky is blue."))
}

func fastRetry() []GeneratorOption {
	return []GeneratorOption{WithRetryBaseDelay(time.Millisecond)}
}

func TestGenerate_Success(t *testing.T) {
	llm := &stubLLM{responses: []string{"The sky is blue."}}
	gen := NewAnswerGenerator(llm, fastRetry()...)

	answer, err := gen.Generate(context.Background(), testPrompt())
	require.NoError(t, err)
	assert.Equal(t, "The sky is blue.", answer)
	assert.Equal(t, 1, llm.calls)

	// The system instruction travels separately from the user content.
	assert.Equal(t, DefaultSystemInstruction, llm.lastSystem)
	assert.Contains(t, llm.lastUser, "The sky is blue.")
	assert.Contains(t, llm.lastUser, "what is the sky?")
}

func TestGenerate_RetriesTransientFailures(t *testing.T) {
	llm := &stubLLM{
		errs:      []error{domain.ErrProviderUnavailable, domain.ErrTimeout, nil},
		responses: []string{"", "", "recovered"},
	}
	gen := NewAnswerGenerator(llm, fastRetry()...)

	answer, err := gen.Generate(context.Background(), testPrompt())
	require.NoError(t, err)
	assert.Equal(t, "recovered", answer)
	assert.Equal(t, 3, llm.calls)
}

func TestGenerate_GivesUpAfterMaxRetries(t *testing.T) {
	llm := &stubLLM{
		errs: []error{
			domain.ErrProviderUnavailable,
			domain.ErrProviderUnavailable,
			domain.ErrProviderUnavailable,
			domain.ErrProviderUnavailable,
		},
	}
	gen := NewAnswerGenerator(llm, append(fastRetry(), WithMaxRetries(2))...)

	_, err := gen.Generate(context.Background(), testPrompt())
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.Equal(t, 3, llm.calls) // initial attempt + 2 retries
}

func TestGenerate_DoesNotRetryTerminalFailures(t *testing.T) {
	for _, terminal := range []error{domain.ErrAuthFailed, domain.ErrMalformedResponse} {
		llm := &stubLLM{errs: []error{terminal}}
		gen := NewAnswerGenerator(llm, fastRetry()...)

		_, err := gen.Generate(context.Background(), testPrompt())
		assert.ErrorIs(t, err, terminal)
		assert.Equal(t, 1, llm.calls, "terminal error %v must not retry", terminal)
	}
}

func TestGenerate_AttemptTimeout(t *testing.T) {
	llm := &blockingLLM{}
	gen := NewAnswerGenerator(llm,
		WithAttemptTimeout(10*time.Millisecond),
		WithMaxRetries(1),
		WithRetryBaseDelay(time.Millisecond))

	start := time.Now()
	_, err := gen.Generate(context.Background(), testPrompt())
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)

	// One initial attempt plus the configured retry, each timing out.
	assert.Equal(t, 2, llm.callCount())
}

func TestGenerate_CircuitBreakerOpens(t *testing.T) {
	errs := make([]error, 10)
	for i := range errs {
		errs[i] = domain.ErrProviderUnavailable
	}
	llm := &stubLLM{errs: errs}
	gen := NewAnswerGenerator(llm, append(fastRetry(), WithMaxRetries(10))...)

	_, err := gen.Generate(context.Background(), testPrompt())
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)

	// The breaker tripped after 5 consecutive failures, so later attempts
	// never reached the provider.
	assert.Less(t, llm.calls, 11)
	assert.GreaterOrEqual(t, llm.calls, 5)
}

func TestGenerate_CancelledContextStopsRetries(t *testing.T) {
	llm := &stubLLM{errs: []error{domain.ErrProviderUnavailable}}
	gen := NewAnswerGenerator(llm, WithRetryBaseDelay(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := gen.Generate(ctx, testPrompt())
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, domain.ErrTimeout)
	case <-time.After(time.Second):
		t.Fatal("Generate did not stop after context cancellation")
	}
}
