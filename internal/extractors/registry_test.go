package extractors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/extractors/plaintext"
)

func TestRegistry_Extract(t *testing.T) {
	r := NewRegistry(plaintext.New())

	raw := &domain.RawDocument{
		SourceName: "notes.txt",
		MIMEType:   "text/plain",
		Content:    []byte("hello"),
	}

	text, err := r.Extract(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestRegistry_UnsupportedFormat(t *testing.T) {
	r := NewRegistry(plaintext.New())

	raw := &domain.RawDocument{
		SourceName: "image.png",
		MIMEType:   "image/png",
		Content:    []byte{1, 2, 3},
	}

	_, err := r.Extract(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestRegistry_SniffsFromExtension(t *testing.T) {
	r := NewRegistry(plaintext.New())

	raw := &domain.RawDocument{
		SourceName: "notes.txt",
		Content:    []byte("sniffed"),
	}

	text, err := r.Extract(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "sniffed", text)
}

func TestResolveMIME_StripsParameters(t *testing.T) {
	raw := &domain.RawDocument{
		SourceName: "notes.txt",
		MIMEType:   "text/plain; charset=utf-8",
	}

	assert.Equal(t, "text/plain", ResolveMIME(raw))
}

func TestRegistry_NoTypeAtAll(t *testing.T) {
	r := NewRegistry(plaintext.New())

	raw := &domain.RawDocument{
		SourceName: "mystery",
		Content:    []byte("???"),
	}

	_, err := r.Extract(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}
