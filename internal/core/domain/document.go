package domain

import (
	"fmt"
	"time"
)

// Document represents an ingested document.
// Documents are immutable once stored; re-ingesting under the same
// SourceName supersedes the previous document rather than mutating it.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourceName is the caller-declared origin (typically a filename).
	// At most one live document exists per source name.
	SourceName string

	// Content is the full extracted text.
	Content string

	// MIMEType is the declared type of the original bytes.
	MIMEType string

	// IngestedAt is when the document was committed.
	IngestedAt time.Time
}

// Chunk represents a retrievable passage within a document.
// Chunks are owned exclusively by their document and are removed
// together with it when the document is deleted or superseded.
type Chunk struct {
	// ID is derived from the owning document and the chunk's offset,
	// so identical input always produces identical chunk identities.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Text is the passage content.
	Text string

	// Offset is the byte position of the passage in the source text.
	Offset int

	// Embedding is the vector representation, populated during ingest.
	Embedding []float32
}

// ChunkID derives the stable identifier for a chunk of a document.
func ChunkID(documentID string, offset int) string {
	return fmt.Sprintf("%s:%d", documentID, offset)
}

// RawDocument is the ingestion input: opaque bytes plus the caller's
// declared filename and MIME type. Text extraction turns it into a Document.
type RawDocument struct {
	// SourceName is the declared origin, typically a filename.
	SourceName string

	// MIMEType is the declared content type. When empty, extractors
	// may sniff it from the source name extension.
	MIMEType string

	// Content is the raw document bytes.
	Content []byte
}
