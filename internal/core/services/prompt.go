package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/logger"
)

// DefaultMaxContextChars bounds the rendered context block.
const DefaultMaxContextChars = 6000

// DefaultSystemInstruction frames the model as a grounded assistant.
const DefaultSystemInstruction = "You are a helpful assistant. Answer the question using only the " +
	"provided context. If the context does not contain the answer, say so " +
	"instead of guessing."

// emptyContextNotice replaces the context block when retrieval found nothing.
const emptyContextNotice = "No supporting context was found in the ingested documents."

// PromptBuilder composes retrieved passages and a user question into a
// model prompt. The system instruction and the question are never
// truncated; only the context block is fitted to the character budget,
// dropping whole passages from the lowest rank up and hard-truncating
// the top passage when it alone overflows the budget.
type PromptBuilder struct {
	systemInstruction string
	maxContextChars   int
}

// PromptOption configures a PromptBuilder.
type PromptOption func(*PromptBuilder)

// WithSystemInstruction overrides the default system instruction.
func WithSystemInstruction(s string) PromptOption {
	return func(b *PromptBuilder) {
		if s != "" {
			b.systemInstruction = s
		}
	}
}

// WithMaxContextChars sets the context block character budget.
func WithMaxContextChars(n int) PromptOption {
	return func(b *PromptBuilder) {
		if n > 0 {
			b.maxContextChars = n
		}
	}
}

// NewPromptBuilder creates a new prompt builder.
func NewPromptBuilder(opts ...PromptOption) *PromptBuilder {
	b := &PromptBuilder{
		systemInstruction: DefaultSystemInstruction,
		maxContextChars:   DefaultMaxContextChars,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build renders a prompt from a retrieval result. Building never fails:
// an empty retrieval produces a prompt that tells the model no context
// was found.
func (b *PromptBuilder) Build(result domain.RetrievalResult) domain.Prompt {
	contextBlock := b.renderContext(result)

	var sb strings.Builder
	sb.WriteString(b.systemInstruction)
	sb.WriteString("\n\nContext:\n")
	sb.WriteString(contextBlock)
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(result.Query)

	return domain.Prompt{
		SystemInstruction: b.systemInstruction,
		ContextBlock:      contextBlock,
		UserQuery:         result.Query,
		Text:              sb.String(),
	}
}

// renderContext formats the passages, dropping whole passages from the
// lowest rank first until the block fits the budget. When the top-ranked
// passage alone exceeds the budget it is hard-truncated at a rune
// boundary, so the block never exceeds maxContextChars.
func (b *PromptBuilder) renderContext(result domain.RetrievalResult) string {
	if result.Empty() {
		return emptyContextNotice
	}

	passages := make([]string, len(result.Chunks))
	for i, chunk := range result.Chunks {
		passages[i] = fmt.Sprintf("[%d] (%s)\n%s", i+1, chunk.SourceName, chunk.Text)
	}

	keep := len(passages)
	for keep > 1 && blockLen(passages[:keep]) > b.maxContextChars {
		keep--
	}
	if keep < len(passages) {
		logger.Debug("Context budget dropped %d of %d passages",
			len(passages)-keep, len(passages))
	}

	block := strings.Join(passages[:keep], "\n\n")
	if len(block) > b.maxContextChars {
		block = truncateAtRune(block, b.maxContextChars)
		logger.Debug("Context budget truncated the top passage to %d chars", len(block))
	}
	return block
}

// truncateAtRune cuts s to at most max bytes without splitting a rune.
func truncateAtRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// blockLen is the rendered length of passages joined by blank lines.
func blockLen(passages []string) int {
	n := 0
	for i, p := range passages {
		if i > 0 {
			n += 2 // separator
		}
		n += len(p)
	}
	return n
}
