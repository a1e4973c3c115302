package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docsage-labs/docsage-cli/internal/chunker"
	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driving"
	"github.com/docsage-labs/docsage-cli/internal/extractors"
	"github.com/docsage-labs/docsage-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// DefaultIngestConcurrency bounds how many documents embed in parallel
// during IngestAll.
const DefaultIngestConcurrency = 4

// IngestService runs the ingest pipeline: extract text, split it into
// chunks, embed every chunk, and commit the document atomically.
type IngestService struct {
	registry    *extractors.Registry
	chunker     *chunker.Chunker
	embedder    driven.EmbeddingService
	committer   driven.Committer
	concurrency int
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithConcurrency sets how many documents IngestAll processes in parallel.
func WithConcurrency(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	registry *extractors.Registry,
	chk *chunker.Chunker,
	embedder driven.EmbeddingService,
	committer driven.Committer,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		registry:    registry,
		chunker:     chk,
		embedder:    embedder,
		committer:   committer,
		concurrency: DefaultIngestConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest extracts, chunks, embeds and commits one raw document.
// Nothing is stored until every chunk has an embedding, so a provider
// failure mid-document leaves the corpus untouched.
func (s *IngestService) Ingest(ctx context.Context, raw *domain.RawDocument) (*driving.IngestReport, error) {
	report := &driving.IngestReport{SourceName: raw.SourceName}

	if raw.SourceName == "" {
		report.Err = fmt.Errorf("%w: source name is required", domain.ErrInvalidArgument)
		return report, report.Err
	}

	logger.Section("Ingest: " + raw.SourceName)

	text, err := s.registry.Extract(ctx, raw)
	if err != nil {
		report.Err = fmt.Errorf("extracting %s: %w", raw.SourceName, err)
		return report, report.Err
	}

	if strings.TrimSpace(text) == "" {
		logger.Info("No extractable text in %s, skipping", raw.SourceName)
		return report, nil
	}

	doc := &domain.Document{
		ID:         uuid.NewString(),
		SourceName: raw.SourceName,
		Content:    text,
		MIMEType:   extractors.ResolveMIME(raw),
		IngestedAt: time.Now().UTC(),
	}

	chunks := s.chunker.Split(doc.ID, text)
	logger.Debug("Split %s into %d chunks", raw.SourceName, len(chunks))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		report.Err = fmt.Errorf("embedding %s: %w", raw.SourceName, err)
		return report, report.Err
	}
	if len(embeddings) != len(chunks) {
		report.Err = fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrMalformedResponse, len(embeddings), len(chunks))
		return report, report.Err
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	superseded, err := s.committer.CommitDocument(ctx, doc, chunks, s.embedder.ModelName())
	if err != nil {
		report.Err = fmt.Errorf("committing %s: %w", raw.SourceName, err)
		return report, report.Err
	}

	if superseded {
		logger.Info("Superseded previous document for %s", raw.SourceName)
	}
	logger.Info("Committed %s: %d chunks", raw.SourceName, len(chunks))

	report.DocumentID = doc.ID
	report.Chunks = len(chunks)
	report.Superseded = superseded
	return report, nil
}

// IngestAll ingests multiple documents with bounded parallelism. Each
// document fails or commits independently; failures are reported per
// document rather than aborting the batch.
func (s *IngestService) IngestAll(ctx context.Context, raws []*domain.RawDocument) ([]driving.IngestReport, error) {
	reports := make([]driving.IngestReport, len(raws))

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, raw := range raws {
		wg.Add(1)
		go func(i int, raw *domain.RawDocument) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				reports[i] = driving.IngestReport{SourceName: raw.SourceName, Err: err}
				return
			}

			report, err := s.Ingest(ctx, raw)
			if err != nil {
				logger.Warn("Ingest failed for %s: %v", raw.SourceName, err)
			}
			reports[i] = *report
		}(i, raw)
	}
	wg.Wait()

	return reports, ctx.Err()
}
