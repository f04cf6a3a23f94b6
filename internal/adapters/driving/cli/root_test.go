package cli

import (
	"context"
	"time"

	"github.com/jlkeet/pacific-hansard-sub001/internal/adapters/driven/storage/memory"
	"github.com/jlkeet/pacific-hansard-sub001/internal/core/domain"
	"github.com/jlkeet/pacific-hansard-sub001/internal/core/ports/driving"
)

// stubSearchService returns canned results for command tests.
type stubSearchService struct {
	results []domain.IndexRecord
	err     error
	query   string
	opts    domain.SearchOptions
}

func (s *stubSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.IndexRecord, error) {
	s.query = query
	s.opts = opts
	return s.results, s.err
}

// stubIngestOrchestrator records the root it was invoked with.
type stubIngestOrchestrator struct {
	report *driving.IngestReport
	err    error
	root   string
}

func (s *stubIngestOrchestrator) Ingest(_ context.Context, root string) (*driving.IngestReport, error) {
	s.root = root
	return s.report, s.err
}

func (s *stubIngestOrchestrator) Watch(ctx context.Context, root string) error {
	s.root = root
	<-ctx.Done()
	return ctx.Err()
}

func sampleResults() []domain.IndexRecord {
	return []domain.IndexRecord{
		{
			ID:           "1_0",
			DocumentID:   1,
			Title:        "ORAL QUESTIONS",
			Source:       "Fiji",
			Date:         time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC),
			DocumentType: "Hansard Document",
			Content:      "HON. J. USAMATE asked about the sugar industry levy.",
			Score:        4.2,
		},
	}
}

// setupTestServices installs stub services and returns a cleanup
// function restoring the previous ones.
func setupTestServices() func() {
	prevSearch := searchService
	prevIngest := ingestOrchestrator
	prevDocs := documentStore

	searchService = &stubSearchService{results: sampleResults()}
	ingestOrchestrator = &stubIngestOrchestrator{report: &driving.IngestReport{
		DocumentsProcessed: 2,
		ChunksIndexed:      5,
	}}
	documentStore = memory.NewDocumentStore()

	return func() {
		searchService = prevSearch
		ingestOrchestrator = prevIngest
		documentStore = prevDocs
	}
}
