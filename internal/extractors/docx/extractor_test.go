package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(documentXML string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	contentTypes, _ := w.Create("[Content_Types].xml")
	contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))

	if documentXML != "" {
		doc, _ := w.Create("word/document.xml")
		doc.Write([]byte(documentXML))
	}

	w.Close()
	return buf.Bytes()
}

func TestSupportedMIMETypes(t *testing.T) {
	e := New()
	mimeTypes := e.SupportedMIMETypes()

	require.Len(t, mimeTypes, 1)
	assert.Contains(t, mimeTypes, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
}

func TestExtract_Success(t *testing.T) {
	e := New()

	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>
<w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>
</w:body>
</w:document>`

	raw := &domain.RawDocument{
		SourceName: "document.docx",
		MIMEType:   "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Content:    createTestDOCX(docXML),
	}

	text, err := e.Extract(context.Background(), raw)
	require.NoError(t, err)
	assert.Contains(t, text, "Hello World")
	assert.Contains(t, text, "Second paragraph")
}

func TestExtract_NilInput(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestExtract_InvalidZip(t *testing.T) {
	e := New()

	raw := &domain.RawDocument{
		SourceName: "broken.docx",
		Content:    []byte("not a zip archive"),
	}

	_, err := e.Extract(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestExtract_MissingDocumentXML(t *testing.T) {
	e := New()

	raw := &domain.RawDocument{
		SourceName: "empty.docx",
		Content:    createTestDOCX(""),
	}

	_, err := e.Extract(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}
