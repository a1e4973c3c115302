package driven

import "context"

// LLMService produces text completions from a hosted language model.
//
// Implementations may include:
//   - OpenRouter (any OpenAI-compatible chat completion API)
//   - Ollama (local models)
//
// Adapters classify failures into the domain taxonomy so the answer
// generator can decide what to retry:
//   - domain.ErrProviderUnavailable: 5xx, 429, transport errors (transient)
//   - domain.ErrAuthFailed: 401/403 (terminal)
//   - domain.ErrMalformedResponse: undecodable or empty body (terminal)
type LLMService interface {
	// Complete sends a system instruction and user content to the model
	// and returns the generated text.
	Complete(ctx context.Context, system, user string, opts CompleteOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompleteOptions configures text generation behaviour.
type CompleteOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
