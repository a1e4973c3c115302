// Package memory provides in-memory implementations of the storage ports.
// They are used as test doubles and as the volatile backend variant.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string]domain.Chunk   // by chunk ID
	byDoc     map[string][]string       // document ID -> chunk IDs, offset order
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string]domain.Chunk),
		byDoc:     make(map[string][]string),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// SaveChunks stores chunks atomically. All chunks in one batch belong to
// the same write; there is no partial visibility under the lock.
func (s *DocumentStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, chunk := range chunks {
		if _, seen := s.chunks[chunk.ID]; !seen {
			s.byDoc[chunk.DocumentID] = append(s.byDoc[chunk.DocumentID], chunk.ID)
		}
		s.chunks[chunk.ID] = chunk
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *DocumentStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunk, ok := s.chunks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &chunk, nil
}

// GetChunks retrieves all chunks for a document, ordered by offset.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byDoc[documentID]
	chunks := make([]domain.Chunk, 0, len(ids))
	for _, id := range ids {
		chunks = append(chunks, s.chunks[id])
	}
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Offset < chunks[j].Offset
	})
	return chunks, nil
}

// DeleteDocument removes a document and all its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, id)
	for _, chunkID := range s.byDoc[id] {
		delete(s.chunks, chunkID)
	}
	delete(s.byDoc, id)
	return nil
}

// FindBySourceName returns the live document for a source name.
func (s *DocumentStore) FindBySourceName(_ context.Context, sourceName string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id := range s.documents {
		doc := s.documents[id]
		if doc.SourceName == sourceName {
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListDocuments returns all stored documents, oldest ingest first.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0, len(s.documents))
	for id := range s.documents {
		docs = append(docs, s.documents[id])
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].IngestedAt.Before(docs[j].IngestedAt)
	})
	return docs, nil
}
