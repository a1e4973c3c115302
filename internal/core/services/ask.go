package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driving"
	"github.com/docsage-labs/docsage-cli/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.Answerer = (*AskService)(nil)

// AskService runs the full question path: retrieve supporting passages,
// build a prompt, generate an answer, and record the exchange.
type AskService struct {
	retriever driving.Retriever
	builder   *PromptBuilder
	generator *AnswerGenerator
	history   *SessionHistory
	topK      int
}

// AskOption configures an AskService.
type AskOption func(*AskService)

// WithTopK sets how many passages are retrieved per question.
func WithTopK(k int) AskOption {
	return func(s *AskService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// NewAskService creates a new ask service.
func NewAskService(
	retriever driving.Retriever,
	builder *PromptBuilder,
	generator *AnswerGenerator,
	opts ...AskOption,
) *AskService {
	s := &AskService{
		retriever: retriever,
		builder:   builder,
		generator: generator,
		history:   NewSessionHistory(),
		topK:      DefaultTopK,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ask answers a question against the ingested corpus. A question that
// retrieves nothing still reaches the model, with the prompt stating that
// no supporting context was found.
func (s *AskService) Ask(ctx context.Context, question string) (*driving.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidArgument)
	}

	retrieved, err := s.retriever.Retrieve(ctx, question, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}

	prompt := s.builder.Build(retrieved)
	logger.Debug("Prompt: %d chars, %d passages", len(prompt.Text), len(retrieved.Chunks))

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	s.history.Append(question, text)

	return &driving.Answer{
		Text:    text,
		Sources: retrieved,
		Prompt:  prompt,
	}, nil
}

// History returns this session's exchanges, oldest first.
func (s *AskService) History() []domain.HistoryEntry {
	return s.history.Entries()
}
