package chunker

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := New()
		if c.maxChars != DefaultMaxChars {
			t.Errorf("expected maxChars %d, got %d", DefaultMaxChars, c.maxChars)
		}
		if c.overlap != DefaultOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultOverlap, c.overlap)
		}
	})

	t.Run("custom values", func(t *testing.T) {
		c := New(WithMaxChars(500), WithOverlap(50))
		if c.maxChars != 500 || c.overlap != 50 {
			t.Errorf("unexpected config: %d/%d", c.maxChars, c.overlap)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		c := New(WithMaxChars(100), WithOverlap(150))
		if c.overlap >= c.maxChars {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		c := New(WithMaxChars(0), WithOverlap(-1))
		if c.maxChars != DefaultMaxChars || c.overlap != DefaultOverlap {
			t.Errorf("expected defaults, got %d/%d", c.maxChars, c.overlap)
		}
	})
}

func TestSplit_EmptyInput(t *testing.T) {
	c := New()

	if chunks := c.Split("doc-1", ""); len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty input, got %d", len(chunks))
	}
	if chunks := c.Split("doc-1", "   \n\t  "); len(chunks) != 0 {
		t.Errorf("expected 0 chunks for whitespace input, got %d", len(chunks))
	}
}

func TestSplit_SmallInput(t *testing.T) {
	c := New(WithMaxChars(100), WithOverlap(20))

	chunks := c.Split("doc-1", "This is a small piece of content.")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "This is a small piece of content." {
		t.Errorf("unexpected chunk text: %q", chunks[0].Text)
	}
	if chunks[0].ID != "doc-1:0" {
		t.Errorf("unexpected chunk ID: %q", chunks[0].ID)
	}
}

func TestSplit_SentenceBoundaries(t *testing.T) {
	c := New(WithMaxChars(20), WithOverlap(0))

	chunks := c.Split("doc-1", "The sky is blue. Grass is green.")
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != "The sky is blue." {
		t.Errorf("unexpected first chunk: %q", chunks[0].Text)
	}
	if chunks[1].Text != "Grass is green." {
		t.Errorf("unexpected second chunk: %q", chunks[1].Text)
	}
}

func TestSplit_ParagraphBoundaries(t *testing.T) {
	c := New(WithMaxChars(40), WithOverlap(0))

	text := "First paragraph here\n\nSecond paragraph that continues for a while"
	chunks := c.Split("doc-1", text)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != "First paragraph here" {
		t.Errorf("expected cut at paragraph boundary, got %q", chunks[0].Text)
	}
}

func TestSplit_HardCut(t *testing.T) {
	c := New(WithMaxChars(10), WithOverlap(0))

	// A single unbroken word longer than the budget must be hard cut.
	chunks := c.Split("doc-1", strings.Repeat("x", 25))
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for _, chunk := range chunks {
		if len(chunk.Text) > 10 {
			t.Errorf("chunk exceeds budget: %d chars", len(chunk.Text))
		}
	}
}

func TestSplit_Overlap(t *testing.T) {
	c := New(WithMaxChars(12), WithOverlap(4))

	chunks := c.Split("doc-1", strings.Repeat("abcd", 10))
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Consecutive chunks repeat trailing context.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		if chunks[i].Offset >= prev.Offset+len(prev.Text) {
			t.Errorf("chunk %d does not overlap its predecessor", i)
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	c := New(WithMaxChars(50), WithOverlap(10))
	text := "One sentence. Another sentence follows! A third one? And some trailing words to spill over the budget."

	first := c.Split("doc-1", text)
	second := c.Split("doc-1", text)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical input produced different chunk boundaries")
	}
}

func TestSplit_OffsetsPointIntoSource(t *testing.T) {
	c := New(WithMaxChars(30), WithOverlap(5))
	text := "Alpha beta gamma. Delta epsilon zeta. Eta theta iota kappa lambda."

	for _, chunk := range c.Split("doc-1", text) {
		if !strings.HasPrefix(text[chunk.Offset:], chunk.Text) {
			t.Errorf("offset %d does not locate chunk %q", chunk.Offset, chunk.Text)
		}
	}
}

func TestSplit_MultiByteRunes(t *testing.T) {
	c := New(WithMaxChars(10), WithOverlap(0))

	// Hard cuts must not split a rune.
	chunks := c.Split("doc-1", strings.Repeat("é", 20))
	for _, chunk := range chunks {
		if !utf8.ValidString(chunk.Text) {
			t.Fatalf("chunk contains a split rune: %q", chunk.Text)
		}
	}
}

func TestSplit_MultiByteRunesWithOverlap(t *testing.T) {
	c := New(WithMaxChars(10), WithOverlap(3))

	// The overlap rewind must land on a rune boundary too, or every
	// overlapped chunk starts with a continuation byte.
	chunks := c.Split("doc-1", strings.Repeat("é", 40))
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if !utf8.ValidString(chunk.Text) {
			t.Fatalf("chunk %d (offset %d) is invalid UTF-8: %q",
				i, chunk.Offset, chunk.Text)
		}
	}
}
