package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docsage-labs/docsage-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
	"github.com/docsage-labs/docsage-cli/internal/vecmath"
)

// metricCosine is the only metric this store writes; recorded in
// index_meta so a future backend cannot silently reinterpret scores.
const metricCosine = "cosine"

// Store is a unified SQLite-based storage that provides the document
// store, the vector index and atomic ingest commits over one database.
type Store struct {
	db         *sql.DB
	path       string
	dimensions int
	modelID    string
}

// Ensure Store implements the interface.
var _ driven.Committer = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory,
// bound to the given embedding dimension and model. If dataDir is empty,
// defaults to ~/.docsage/data/docsage.db.
//
// Opening an existing database with a different dimension or model fails
// rather than mixing embeddings.
func NewStore(dataDir string, dimensions int, modelID string) (*Store, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidArgument)
	}
	if modelID == "" {
		return nil, fmt.Errorf("%w: model ID is required", domain.ErrInvalidArgument)
	}

	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docsage", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "docsage.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:         db,
		path:       dbPath,
		dimensions: dimensions,
		modelID:    modelID,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	// Bind or verify the index metadata
	if err := s.ensureIndexMeta(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// VectorIndex returns a VectorIndex interface backed by this store.
func (s *Store) VectorIndex() driven.VectorIndex {
	return &vectorIndex{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ensureIndexMeta writes the index binding on first open and verifies it
// on every subsequent open.
func (s *Store) ensureIndexMeta() error {
	var dimensions int
	var modelID, metric string
	row := s.db.QueryRow("SELECT dimensions, model_id, metric FROM index_meta WHERE id = 1")
	err := row.Scan(&dimensions, &modelID, &metric)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.Exec(
			"INSERT INTO index_meta (id, dimensions, model_id, metric) VALUES (1, ?, ?, ?)",
			s.dimensions, s.modelID, metricCosine)
		if err != nil {
			return fmt.Errorf("writing index metadata: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("reading index metadata: %w", err)
	}

	if dimensions != s.dimensions {
		return fmt.Errorf("%w: store has %d dimensions, requested %d",
			domain.ErrDimensionMismatch, dimensions, s.dimensions)
	}
	if modelID != s.modelID {
		return fmt.Errorf("%w: store is bound to %q, requested %q",
			domain.ErrModelMismatch, modelID, s.modelID)
	}
	return nil
}

// CommitDocument atomically commits a document, its chunks and their index
// entries in a single transaction, superseding any previous document under
// the same source name. ON DELETE CASCADE removes the superseded document's
// chunks and index entries inside the same transaction.
func (s *Store) CommitDocument(
	ctx context.Context, doc *domain.Document, chunks []domain.Chunk, modelID string,
) (bool, error) {
	// Validate invariants before touching the database.
	if modelID != s.modelID {
		return false, fmt.Errorf("%w: got %q, index model is %q",
			domain.ErrModelMismatch, modelID, s.modelID)
	}
	for _, chunk := range chunks {
		if len(chunk.Embedding) != s.dimensions {
			return false, fmt.Errorf("%w: chunk %s has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, chunk.ID, len(chunk.Embedding), s.dimensions)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Supersede the previous document under this source name.
	superseded := false
	var prevID string
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM documents WHERE source_name = ?", doc.SourceName).Scan(&prevID)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", prevID); err != nil {
			return false, fmt.Errorf("superseding document: %w", err)
		}
		superseded = true
	case !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("looking up source name: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, source_name, mime_type, content, ingested_at)
		VALUES (?, ?, ?, ?, ?)
	`, doc.ID, doc.SourceName, doc.MIMEType, doc.Content, doc.IngestedAt); err != nil {
		return superseded, fmt.Errorf("saving document: %w", err)
	}

	var seq int
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), 0) FROM index_entries").Scan(&seq); err != nil {
		return superseded, fmt.Errorf("reading index sequence: %w", err)
	}

	for _, chunk := range chunks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (id, document_id, text, chunk_offset)
			VALUES (?, ?, ?, ?)
		`, chunk.ID, chunk.DocumentID, chunk.Text, chunk.Offset); err != nil {
			return superseded, fmt.Errorf("saving chunk: %w", err)
		}

		seq++
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO index_entries (chunk_id, embedding, seq)
			VALUES (?, ?, ?)
		`, chunk.ID, float32SliceToBytes(chunk.Embedding), seq); err != nil {
			return superseded, fmt.Errorf("saving index entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return superseded, fmt.Errorf("committing transaction: %w", err)
	}
	return superseded, nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, source_name, mime_type, content, ingested_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_name = excluded.source_name,
			mime_type = excluded.mime_type,
			content = excluded.content,
			ingested_at = excluded.ingested_at
	`, doc.ID, doc.SourceName, doc.MIMEType, doc.Content, doc.IngestedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// SaveChunks stores chunks in a single transaction. Chunks that carry an
// embedding also get their index entry written, so the pair stays
// consistent regardless of which component the caller drives.
func (s *documentStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var seq int
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), 0) FROM index_entries").Scan(&seq); err != nil {
		return fmt.Errorf("reading index sequence: %w", err)
	}

	for _, chunk := range chunks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (id, document_id, text, chunk_offset)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				document_id = excluded.document_id,
				text = excluded.text,
				chunk_offset = excluded.chunk_offset
		`, chunk.ID, chunk.DocumentID, chunk.Text, chunk.Offset); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}

		if len(chunk.Embedding) == 0 {
			continue
		}
		if len(chunk.Embedding) != s.store.dimensions {
			return fmt.Errorf("%w: chunk %s has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, chunk.ID, len(chunk.Embedding), s.store.dimensions)
		}

		seq++
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO index_entries (chunk_id, embedding, seq)
			VALUES (?, ?, ?)
			ON CONFLICT(chunk_id) DO UPDATE SET
				embedding = excluded.embedding
		`, chunk.ID, float32SliceToBytes(chunk.Embedding), seq); err != nil {
			return fmt.Errorf("saving index entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_name, mime_type, content, ingested_at
		FROM documents WHERE id = ?
	`, id)

	return scanDocument(row)
}

// GetChunk retrieves a specific chunk by ID, with its embedding when one
// is indexed.
func (s *documentStore) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT c.id, c.document_id, c.text, c.chunk_offset, e.embedding
		FROM chunks c
		LEFT JOIN index_entries e ON e.chunk_id = c.id
		WHERE c.id = ?
	`, id)

	var chunk domain.Chunk
	var embedding []byte
	if err := row.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Text, &chunk.Offset, &embedding); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}
	chunk.Embedding = bytesToFloat32Slice(embedding)
	return &chunk, nil
}

// GetChunks retrieves all chunks for a document, ordered by offset.
func (s *documentStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT c.id, c.document_id, c.text, c.chunk_offset, e.embedding
		FROM chunks c
		LEFT JOIN index_entries e ON e.chunk_id = c.id
		WHERE c.document_id = ?
		ORDER BY c.chunk_offset
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var embedding []byte
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Text,
			&chunk.Offset, &embedding); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Embedding = bytesToFloat32Slice(embedding)
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// DeleteDocument removes a document; chunks and index entries cascade.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// FindBySourceName returns the live document for a source name.
func (s *documentStore) FindBySourceName(ctx context.Context, sourceName string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_name, mime_type, content, ingested_at
		FROM documents WHERE source_name = ?
	`, sourceName)

	return scanDocument(row)
}

// ListDocuments returns all stored documents, oldest ingest first.
func (s *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source_name, mime_type, content, ingested_at
		FROM documents ORDER BY ingested_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(&doc.ID, &doc.SourceName, &doc.MIMEType,
			&doc.Content, &doc.IngestedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	if err := row.Scan(&doc.ID, &doc.SourceName, &doc.MIMEType,
		&doc.Content, &doc.IngestedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return &doc, nil
}

// ==================== Vector Index ====================

// vectorIndex implements driven.VectorIndex over the index_entries table
// with a brute-force scan at query time.
type vectorIndex struct {
	store *Store
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

// Insert adds or replaces the embedding for a chunk. The chunk row must
// already exist; the schema's foreign key enforces that an index entry
// never outlives its text.
func (v *vectorIndex) Insert(ctx context.Context, chunkID string, embedding []float32, modelID string) error {
	if len(embedding) != v.store.dimensions {
		return fmt.Errorf("%w: got %d, index dimension is %d",
			domain.ErrDimensionMismatch, len(embedding), v.store.dimensions)
	}
	if modelID != v.store.modelID {
		return fmt.Errorf("%w: got %q, index model is %q",
			domain.ErrModelMismatch, modelID, v.store.modelID)
	}

	_, err := v.store.db.ExecContext(ctx, `
		INSERT INTO index_entries (chunk_id, embedding, seq)
		VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM index_entries))
		ON CONFLICT(chunk_id) DO UPDATE SET
			embedding = excluded.embedding
	`, chunkID, float32SliceToBytes(embedding))
	if err != nil {
		return fmt.Errorf("inserting index entry: %w", err)
	}
	return nil
}

// Remove deletes the entry for a chunk. No-op if absent.
func (v *vectorIndex) Remove(ctx context.Context, chunkID string) error {
	_, err := v.store.db.ExecContext(ctx,
		"DELETE FROM index_entries WHERE chunk_id = ?", chunkID)
	if err != nil {
		return fmt.Errorf("removing index entry: %w", err)
	}
	return nil
}

// Search scans all entries in insertion order and returns up to k hits by
// descending cosine similarity, ties broken by insertion order.
func (v *vectorIndex) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be >= 1", domain.ErrInvalidArgument)
	}
	if len(query) != v.store.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), v.store.dimensions)
	}

	rows, err := v.store.db.QueryContext(ctx,
		"SELECT chunk_id, embedding FROM index_entries ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("querying index entries: %w", err)
	}
	defer rows.Close()

	type scored struct {
		hit driven.VectorHit
		seq int
	}

	var results []scored
	seq := 0
	for rows.Next() {
		var chunkID string
		var blob []byte
		if err := rows.Scan(&chunkID, &blob); err != nil {
			return nil, fmt.Errorf("scanning index entry: %w", err)
		}
		results = append(results, scored{
			hit: driven.VectorHit{
				ChunkID:    chunkID,
				Similarity: vecmath.CosineSimilarity(query, bytesToFloat32Slice(blob)),
			},
			seq: seq,
		})
		seq++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating index entries: %w", err)
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
func (v *vectorIndex) Count(ctx context.Context) (int, error) {
	var count int
	row := v.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM index_entries")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting index entries: %w", err)
	}
	return count, nil
}

// Dimensions returns the index's embedding dimension.
func (v *vectorIndex) Dimensions() int { return v.store.dimensions }

// ModelID returns the embedding model the index is bound to.
func (v *vectorIndex) ModelID() string { return v.store.modelID }

// Close is a no-op; the owning Store manages the connection.
func (v *vectorIndex) Close() error { return nil }

// ==================== Helpers ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
