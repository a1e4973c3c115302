package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
	"github.com/docsage-labs/docsage-cli/internal/logger"
)

// Default generation settings.
const (
	DefaultMaxRetries     = 2
	DefaultAttemptTimeout = 60 * time.Second
	DefaultRetryBaseDelay = 500 * time.Millisecond
	DefaultMaxTokens      = 1024
	DefaultTemperature    = 0.2
)

// AnswerGenerator calls the LLM with a per-attempt timeout, bounded
// retries and a circuit breaker. Only transient failures (provider
// unavailable, timeout) are retried; auth and malformed-response
// failures surface immediately.
type AnswerGenerator struct {
	llm            driven.LLMService
	breaker        *gobreaker.CircuitBreaker
	maxRetries     int
	attemptTimeout time.Duration
	retryBaseDelay time.Duration
	maxTokens      int
	temperature    float64
}

// GeneratorOption configures an AnswerGenerator.
type GeneratorOption func(*AnswerGenerator)

// WithMaxRetries sets how many times a transient failure is retried.
func WithMaxRetries(n int) GeneratorOption {
	return func(g *AnswerGenerator) {
		if n >= 0 {
			g.maxRetries = n
		}
	}
}

// WithAttemptTimeout bounds each individual provider call.
func WithAttemptTimeout(d time.Duration) GeneratorOption {
	return func(g *AnswerGenerator) {
		if d > 0 {
			g.attemptTimeout = d
		}
	}
}

// WithRetryBaseDelay sets the first backoff delay; it doubles per retry.
func WithRetryBaseDelay(d time.Duration) GeneratorOption {
	return func(g *AnswerGenerator) {
		if d > 0 {
			g.retryBaseDelay = d
		}
	}
}

// WithMaxTokens caps the generated completion length.
func WithMaxTokens(n int) GeneratorOption {
	return func(g *AnswerGenerator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) GeneratorOption {
	return func(g *AnswerGenerator) {
		if t >= 0 {
			g.temperature = t
		}
	}
}

// NewAnswerGenerator creates a new answer generator.
func NewAnswerGenerator(llm driven.LLMService, opts ...GeneratorOption) *AnswerGenerator {
	g := &AnswerGenerator{
		llm:            llm,
		maxRetries:     DefaultMaxRetries,
		attemptTimeout: DefaultAttemptTimeout,
		retryBaseDelay: DefaultRetryBaseDelay,
		maxTokens:      DefaultMaxTokens,
		temperature:    DefaultTemperature,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "llm",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker %s: %s -> %s", name, from, to)
		},
		IsSuccessful: func(err error) bool {
			// Terminal classifications are the caller's problem, not a
			// sign of provider health.
			if errors.Is(err, domain.ErrAuthFailed) || errors.Is(err, domain.ErrMalformedResponse) {
				return true
			}
			return err == nil
		},
	})

	return g
}

// Generate produces an answer for the prompt, retrying transient provider
// failures with exponential backoff.
func (g *AnswerGenerator) Generate(ctx context.Context, prompt domain.Prompt) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			delay := g.retryBaseDelay << (attempt - 1)
			logger.Debug("Retrying generation in %s (attempt %d of %d)",
				delay, attempt+1, g.maxRetries+1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", domain.ErrTimeout, ctx.Err())
			}
		}

		answer, err := g.attempt(ctx, prompt)
		if err == nil {
			return answer, nil
		}
		lastErr = err

		if !isTransient(err) {
			return "", err
		}
		logger.Warn("Generation attempt %d failed: %v", attempt+1, err)
	}

	return "", fmt.Errorf("generation failed after %d attempts: %w", g.maxRetries+1, lastErr)
}

// attempt runs one provider call under the breaker and attempt timeout.
func (g *AnswerGenerator) attempt(ctx context.Context, prompt domain.Prompt) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
	defer cancel()

	result, err := g.breaker.Execute(func() (any, error) {
		return g.llm.Complete(attemptCtx, prompt.SystemInstruction, g.userContent(prompt),
			driven.CompleteOptions{
				MaxTokens:   g.maxTokens,
				Temperature: g.temperature,
			})
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: circuit breaker open", domain.ErrProviderUnavailable)
		}
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && !isClassified(err) {
			return "", fmt.Errorf("%w: attempt exceeded %s", domain.ErrTimeout, g.attemptTimeout)
		}
		return "", err
	}

	return result.(string), nil
}

// userContent renders the model's user turn: the fitted context plus the
// verbatim question.
func (g *AnswerGenerator) userContent(prompt domain.Prompt) string {
	return "Context:\n" + prompt.ContextBlock + "\n\nQuestion: " + prompt.UserQuery
}

// isTransient reports whether the failure is worth retrying.
func isTransient(err error) bool {
	return errors.Is(err, domain.ErrProviderUnavailable) || errors.Is(err, domain.ErrTimeout)
}

// isClassified reports whether the error already carries a domain class.
func isClassified(err error) bool {
	return errors.Is(err, domain.ErrProviderUnavailable) ||
		errors.Is(err, domain.ErrTimeout) ||
		errors.Is(err, domain.ErrAuthFailed) ||
		errors.Is(err, domain.ErrMalformedResponse)
}
