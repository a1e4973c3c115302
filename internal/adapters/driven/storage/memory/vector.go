package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
	"github.com/docsage-labs/docsage-cli/internal/vecmath"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// indexEntry pins an embedding to its chunk and insertion sequence.
// The sequence number breaks similarity ties deterministically.
type indexEntry struct {
	chunkID   string
	embedding []float32
	seq       int
}

// VectorIndex is a brute-force in-memory vector index.
//
// Search is an exact O(n·d) scan. That is the correctness baseline; an
// approximate backend may replace it without changing callers.
type VectorIndex struct {
	mu         sync.RWMutex
	dimensions int
	modelID    string
	entries    []indexEntry
	byChunk    map[string]int // chunk ID -> position in entries
	nextSeq    int
}

// NewVectorIndex creates an index bound to one dimension and model.
func NewVectorIndex(dimensions int, modelID string) *VectorIndex {
	return &VectorIndex{
		dimensions: dimensions,
		modelID:    modelID,
		byChunk:    make(map[string]int),
	}
}

// Insert adds a vector for the given chunk ID. The dimension and model
// invariants are checked before any state changes, so a rejected insert
// leaves the index untouched.
func (idx *VectorIndex) Insert(_ context.Context, chunkID string, embedding []float32, modelID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if len(embedding) != idx.dimensions {
		return fmt.Errorf("%w: got %d, index dimension is %d",
			domain.ErrDimensionMismatch, len(embedding), idx.dimensions)
	}
	if modelID != idx.modelID {
		return fmt.Errorf("%w: got %q, index model is %q",
			domain.ErrModelMismatch, modelID, idx.modelID)
	}

	vec := make([]float32, len(embedding))
	copy(vec, embedding)

	if pos, ok := idx.byChunk[chunkID]; ok {
		idx.entries[pos].embedding = vec
		return nil
	}

	idx.byChunk[chunkID] = len(idx.entries)
	idx.entries = append(idx.entries, indexEntry{
		chunkID:   chunkID,
		embedding: vec,
		seq:       idx.nextSeq,
	})
	idx.nextSeq++
	return nil
}

// Remove deletes the entry for a chunk. No-op if absent.
func (idx *VectorIndex) Remove(_ context.Context, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	pos, ok := idx.byChunk[chunkID]
	if !ok {
		return nil
	}

	idx.entries = append(idx.entries[:pos], idx.entries[pos+1:]...)
	delete(idx.byChunk, chunkID)
	for i := pos; i < len(idx.entries); i++ {
		idx.byChunk[idx.entries[i].chunkID] = i
	}
	return nil
}

// Search scans every entry and returns up to k hits ordered by descending
// cosine similarity, ties broken by insertion order.
func (idx *VectorIndex) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be >= 1", domain.ErrInvalidArgument)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(query) != idx.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), idx.dimensions)
	}

	type scored struct {
		hit driven.VectorHit
		seq int
	}

	results := make([]scored, 0, len(idx.entries))
	for _, entry := range idx.entries {
		results = append(results, scored{
			hit: driven.VectorHit{
				ChunkID:    entry.chunkID,
				Similarity: vecmath.CosineSimilarity(query, entry.embedding),
			},
			seq: entry.seq,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].hit.Similarity != results[j].hit.Similarity {
			return results[i].hit.Similarity > results[j].hit.Similarity
		}
		return results[i].seq < results[j].seq
	})

	if k > len(results) {
		k = len(results)
	}

	hits := make([]driven.VectorHit, k)
	for i := 0; i < k; i++ {
		hits[i] = results[i].hit
	}
	return hits, nil
}

// Count returns the number of stored entries.
func (idx *VectorIndex) Count(_ context.Context) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries), nil
}

// Dimensions returns the index's embedding dimension.
func (idx *VectorIndex) Dimensions() int { return idx.dimensions }

// ModelID returns the embedding model the index is bound to.
func (idx *VectorIndex) ModelID() string { return idx.modelID }

// Close releases resources.
func (idx *VectorIndex) Close() error { return nil }
