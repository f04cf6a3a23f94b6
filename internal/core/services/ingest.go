package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jlkeet/pacific-hansard-sub001/internal/core/domain"
	"github.com/jlkeet/pacific-hansard-sub001/internal/core/ports/driven"
	"github.com/jlkeet/pacific-hansard-sub001/internal/core/ports/driving"
	"github.com/jlkeet/pacific-hansard-sub001/internal/logger"
	"github.com/jlkeet/pacific-hansard-sub001/internal/resolver"
)

// DefaultWorkers is the ingest worker pool size.
const DefaultWorkers = 4

// Ensure IngestService implements the interface.
var _ driving.IngestOrchestrator = (*IngestService)(nil)

// IngestService coordinates transcript ingestion: it enumerates the
// collections tree through a connector, runs each document through
// normalisation and chunking on a bounded worker pool, and writes the
// results to the store and the search index. One bad document is
// recorded and skipped; it never aborts the batch.
type IngestService struct {
	factory  driven.ConnectorFactory
	registry driven.NormaliserRegistry
	pipeline driven.PostProcessorPipeline
	docStore driven.DocumentStore
	index    driven.SearchIndex
	workers  int

	running atomic.Bool
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithWorkers sets the worker pool size.
func WithWorkers(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	factory driven.ConnectorFactory,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	docStore driven.DocumentStore,
	index driven.SearchIndex,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		factory:  factory,
		registry: registry,
		pipeline: pipeline,
		docStore: docStore,
		index:    index,
		workers:  DefaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest processes every transcript under root and returns a report.
// Only one ingest runs at a time.
func (s *IngestService) Ingest(ctx context.Context, root string) (*driving.IngestReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, domain.ErrIngestInProgress
	}
	defer s.running.Store(false)

	connector, err := s.factory(root)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	defer connector.Close()

	if err := connector.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate connector: %w", err)
	}

	logger.Info("Starting ingest from %s with %d workers", root, s.workers)
	start := time.Now()

	docsCh, errsCh := connector.FullSync(ctx)

	report := &driving.IngestReport{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for range s.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for raw := range docsCh {
				chunks, err := s.processOne(ctx, &raw)

				mu.Lock()
				if err != nil {
					logger.Warn("Skipping %s: %v", raw.URI, err)
					report.Failures = append(report.Failures, driving.DocumentFailure{
						URI:    raw.URI,
						Reason: err.Error(),
					})
				} else {
					report.DocumentsProcessed++
					report.ChunksIndexed += chunks
				}
				mu.Unlock()

				if ctx.Err() != nil {
					return
				}
			}
		}()
	}

	// Connector errors name files the walk could not read; they are
	// failures, not reasons to stop the run.
	for err := range errsCh {
		mu.Lock()
		report.Failures = append(report.Failures, driving.DocumentFailure{Reason: err.Error()})
		mu.Unlock()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return report, err
	}

	logger.Info("Ingest complete: %d documents, %d chunks, %d failures in %s",
		report.DocumentsProcessed, report.ChunksIndexed, len(report.Failures), time.Since(start).Round(time.Millisecond))
	return report, nil
}

// Watch ingests transcript files as they appear under root, until the
// context is cancelled.
func (s *IngestService) Watch(ctx context.Context, root string) error {
	connector, err := s.factory(root)
	if err != nil {
		return fmt.Errorf("create connector: %w", err)
	}
	defer connector.Close()

	docsCh, err := connector.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}

	logger.Info("Watching %s", root)

	for raw := range docsCh {
		if _, err := s.processOne(ctx, &raw); err != nil {
			logger.Warn("Skipping %s: %v", raw.URI, err)
			continue
		}
		logger.Info("Ingested %s", raw.URI)
	}
	return ctx.Err()
}

// processOne runs the document pipeline for a single raw transcript
// and returns the number of chunks indexed.
func (s *IngestService) processOne(ctx context.Context, raw *domain.RawDocument) (int, error) {
	// 1. Recover the sitting date and jurisdiction from the path.
	segments := pathSegments(raw.URI)
	date, err := resolver.Resolve(segments)
	if err != nil {
		return 0, fmt.Errorf("resolve date: %w", err)
	}
	jurisdiction := resolver.Jurisdiction(segments)

	// 2. Structure the transcript.
	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return 0, fmt.Errorf("normalise: %w", err)
	}

	doc := result.Document
	doc.Date = date
	doc.Jurisdiction = jurisdiction
	if doc.DocumentType == "Oral Question" {
		// Question part files repeat their titles across sittings;
		// the date disambiguates them.
		doc.Title = fmt.Sprintf("%s - %s", doc.Title, date)
	}

	// 3. Chunk.
	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return 0, fmt.Errorf("post-process: %w", err)
	}

	// 4. Persist. SaveDocument assigns the numeric sequence the index
	// records reference.
	if err := s.docStore.SaveDocument(ctx, &doc); err != nil {
		return 0, fmt.Errorf("save document: %w", err)
	}
	for i := range chunks {
		chunks[i].DocumentID = doc.ID
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		return 0, fmt.Errorf("save chunks: %w", err)
	}

	// 5. Index. Replace any records from an earlier run first so a
	// re-ingest is indistinguishable from a fresh one.
	if err := s.index.DeleteDocument(ctx, doc.Seq); err != nil {
		return 0, fmt.Errorf("clear index: %w", err)
	}
	for _, chunk := range chunks {
		rec := domain.IndexRecord{
			ID:           fmt.Sprintf("%d_%d", doc.Seq, chunk.Position),
			DocumentID:   doc.Seq,
			Title:        doc.Title,
			Source:       doc.Jurisdiction,
			Date:         date.Time(),
			DocumentType: doc.DocumentType,
			ChunkIndex:   chunk.Position,
			TokenCount:   chunk.TokenCount,
			Content:      chunk.Content,
		}
		if err := s.index.Index(ctx, rec); err != nil {
			return 0, fmt.Errorf("index chunk %d: %w", chunk.Position, err)
		}
	}

	logger.Debug("Processed %s: %d chunks", raw.URI, len(chunks))
	return len(chunks), nil
}

// pathSegments splits a collections URI into its path segments.
func pathSegments(uri string) []string {
	return strings.FieldsFunc(filepath.ToSlash(uri), func(r rune) bool {
		return r == '/'
	})
}
