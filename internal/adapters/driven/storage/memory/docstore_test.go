package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc-1", SourceName: "notes.txt", Content: "hello"}
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", got.SourceName)

	_, err = store.GetDocument(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_Chunks(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "doc-1:20", DocumentID: "doc-1", Text: "second", Offset: 20},
		{ID: "doc-1:0", DocumentID: "doc-1", Text: "first", Offset: 0},
	}))

	chunk, err := store.GetChunk(ctx, "doc-1:0")
	require.NoError(t, err)
	assert.Equal(t, "first", chunk.Text)

	chunks, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "first", chunks[0].Text, "chunks ordered by offset")

	_, err = store.GetChunk(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_DeleteDocument(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1"}))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "doc-1:0", DocumentID: "doc-1", Text: "gone", Offset: 0},
	}))

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	_, err := store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetChunk(ctx, "doc-1:0")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_FindBySourceName(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1", SourceName: "a.txt"}))

	doc, err := store.FindBySourceName(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)

	_, err = store.FindBySourceName(ctx, "b.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ListDocuments(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "new", IngestedAt: now}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "old", IngestedAt: now.Add(-time.Hour)}))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "old", docs[0].ID, "oldest ingest first")
}
