// Package chunker splits document text into bounded-size passages
// suitable for embedding and retrieval.
//
// Splitting prefers paragraph boundaries, then sentence boundaries, then
// word boundaries, and falls back to a hard character cut only when a
// single unit exceeds the chunk size. The same input and parameters always
// yield identical chunk boundaries.
package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// DefaultMaxChars is the default number of characters per chunk.
const DefaultMaxChars = 1000

// DefaultOverlap is the default number of overlapping characters
// repeated between consecutive chunks.
const DefaultOverlap = 200

// Chunker splits document content into passages.
type Chunker struct {
	maxChars int
	overlap  int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxChars sets the maximum chunk size in characters.
func WithMaxChars(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxChars = n
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.overlap = n
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		maxChars: DefaultMaxChars,
		overlap:  DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must stay strictly below the chunk size or chunking
	// cannot make progress.
	if c.overlap >= c.maxChars {
		c.overlap = c.maxChars / 4
	}

	return c
}

// MaxChars returns the configured chunk size.
func (c *Chunker) MaxChars() int { return c.maxChars }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Split breaks text into chunks owned by documentID.
// Empty or whitespace-only input produces zero chunks.
func (c *Chunker) Split(documentID, text string) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []domain.Chunk
	start := skipSpace(text, 0)

	for start < len(text) {
		end := c.cutPoint(text, start)

		passage := strings.TrimRightFunc(text[start:end], unicode.IsSpace)
		if passage != "" {
			chunks = append(chunks, domain.Chunk{
				ID:         domain.ChunkID(documentID, start),
				DocumentID: documentID,
				Text:       passage,
				Offset:     start,
			})
		}

		if end >= len(text) {
			break
		}

		next := end - c.overlap
		for next > start && !utf8.RuneStart(text[next]) {
			next--
		}
		if next <= start {
			next = end
		}
		next = skipSpace(text, next)
		if next <= start {
			// Overlap landed back inside the current chunk after
			// whitespace skipping; force progress.
			next = skipSpace(text, end)
		}
		start = next
	}

	return chunks
}

// cutPoint returns the exclusive end index for a chunk starting at start,
// snapping to the best boundary within the size budget.
func (c *Chunker) cutPoint(text string, start int) int {
	limit := start + c.maxChars
	if limit >= len(text) {
		return len(text)
	}

	window := text[start:limit]

	// Paragraph boundary: cut before the blank line.
	if idx := strings.LastIndex(window, "\n\n"); idx > 0 {
		return start + idx
	}

	// Sentence boundary: cut after the terminator.
	if idx := lastSentenceEnd(window); idx > 0 {
		return start + idx
	}

	// Word boundary.
	if idx := strings.LastIndexFunc(window, unicode.IsSpace); idx > 0 {
		return start + idx
	}

	// Hard cut, backed off to a rune boundary.
	for limit > start && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return limit
}

// lastSentenceEnd returns the index just past the last sentence terminator
// in s that is followed by whitespace or ends s, or 0 if none exists.
func lastSentenceEnd(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case '.', '!', '?':
			if i == len(s)-1 || isSpaceByte(s[i+1]) {
				return i + 1
			}
		}
	}
	return 0
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}

// skipSpace advances i past whitespace.
func skipSpace(text string, i int) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}
