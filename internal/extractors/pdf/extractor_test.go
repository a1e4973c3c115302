package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	e := New()
	assert.Equal(t, []string{"application/pdf"}, e.SupportedMIMETypes())
}

func TestExtract_NilDocument(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestExtract_EmptyContent(t *testing.T) {
	e := New()

	text, err := e.Extract(context.Background(), &domain.RawDocument{
		SourceName: "empty.pdf",
		MIMEType:   "application/pdf",
	})
	assert.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtract_MalformedBytes(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), &domain.RawDocument{
		SourceName: "broken.pdf",
		MIMEType:   "application/pdf",
		Content:    []byte("this is not a pdf"),
	})
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}
