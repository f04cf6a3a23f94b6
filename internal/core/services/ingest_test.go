package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlkeet/pacific-hansard-sub001/internal/core/domain"
	"github.com/jlkeet/pacific-hansard-sub001/internal/core/ports/driven"
	"github.com/jlkeet/pacific-hansard-sub001/internal/normalisers"
	"github.com/jlkeet/pacific-hansard-sub001/internal/normalisers/hansard"
	"github.com/jlkeet/pacific-hansard-sub001/internal/postprocessors"
	"github.com/jlkeet/pacific-hansard-sub001/internal/postprocessors/chunker"
)

// fakeConnector plays back a fixed set of raw documents.
type fakeConnector struct {
	docs    []domain.RawDocument
	release chan struct{} // when set, FullSync blocks until closed
	started sync.Once
	running chan struct{} // closed once FullSync has begun
}

func (c *fakeConnector) Type() string                     { return "fake" }
func (c *fakeConnector) Validate(_ context.Context) error { return nil }
func (c *fakeConnector) Close() error                     { return nil }

func (c *fakeConnector) FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument)
	errs := make(chan error, 1)
	go func() {
		defer close(docs)
		defer close(errs)
		if c.running != nil {
			c.started.Do(func() { close(c.running) })
		}
		if c.release != nil {
			<-c.release
		}
		for _, doc := range c.docs {
			select {
			case docs <- doc:
			case <-ctx.Done():
				return
			}
		}
	}()
	return docs, errs
}

func (c *fakeConnector) Watch(ctx context.Context) (<-chan domain.RawDocument, error) {
	docs := make(chan domain.RawDocument)
	go func() {
		defer close(docs)
		for _, doc := range c.docs {
			select {
			case docs <- doc:
			case <-ctx.Done():
				return
			}
		}
		<-ctx.Done()
	}()
	return docs, nil
}

// fakeDocStore assigns sequence numbers and records saves.
type fakeDocStore struct {
	mu     sync.Mutex
	nextSeq int64
	docs   map[string]domain.Document
	chunks map[string][]domain.Chunk
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{
		docs:   make(map[string]domain.Document),
		chunks: make(map[string][]domain.Chunk),
	}
}

func (s *fakeDocStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	doc.Seq = s.nextSeq
	s.docs[doc.ID] = *doc
	return nil
}

func (s *fakeDocStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(chunks) > 0 {
		s.chunks[chunks[0].DocumentID] = chunks
	}
	return nil
}

func (s *fakeDocStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (s *fakeDocStore) GetDocumentByURI(_ context.Context, uri string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.docs {
		if doc.URI == uri {
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeDocStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chunks[documentID], nil
}

func (s *fakeDocStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	delete(s.chunks, id)
	return nil
}

func (s *fakeDocStore) ListDocuments(_ context.Context, jurisdiction string) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Document
	for _, doc := range s.docs {
		if jurisdiction == "" || doc.Jurisdiction == jurisdiction {
			out = append(out, doc)
		}
	}
	return out, nil
}

// fakeIndex records index writes and deletes.
type fakeIndex struct {
	mu      sync.Mutex
	records []domain.IndexRecord
	deleted []int64
	hits    []driven.RawHit
	lastOpts domain.SearchOptions
}

func (i *fakeIndex) Index(_ context.Context, rec domain.IndexRecord) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.records = append(i.records, rec)
	return nil
}

func (i *fakeIndex) DeleteDocument(_ context.Context, documentID int64) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.deleted = append(i.deleted, documentID)
	return nil
}

func (i *fakeIndex) Search(_ context.Context, _ string, opts domain.SearchOptions) ([]driven.RawHit, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.lastOpts = opts
	return i.hits, nil
}

func (i *fakeIndex) Close() error { return nil }

func newTestPipeline() driven.PostProcessorPipeline {
	return postprocessors.NewPipeline(chunker.New())
}

func newTestRegistry() driven.NormaliserRegistry {
	r := normalisers.NewRegistry()
	r.Register(hansard.New(hansard.NewStructurer()))
	return r
}

func fijiURI(name string) string {
	return filepath.Join("collections", "Fiji", "2023", "December", "5", "part3_questions", name)
}

func newIngestService(c driven.Connector, store *fakeDocStore, index *fakeIndex, opts ...IngestOption) *IngestService {
	factory := func(string) (driven.Connector, error) { return c, nil }
	return NewIngestService(factory, newTestRegistry(), newTestPipeline(), store, index, opts...)
}

func TestIngest_ProcessesDocuments(t *testing.T) {
	connector := &fakeConnector{docs: []domain.RawDocument{
		{
			URI:      fijiURI("part3_questions.html"),
			MIMEType: "text/html",
			Content: []byte(`<html><head><title>PNG Hansard Part 3 - ORAL QUESTIONS</title></head><body>
<p>HON. J. USAMATE: Thank you, Madam Speaker.</p>
<p>Question put.</p>
</body></html>`),
		},
	}}

	store := newFakeDocStore()
	index := &fakeIndex{}
	svc := newIngestService(connector, store, index)

	report, err := svc.Ingest(context.Background(), "collections")
	require.NoError(t, err)

	assert.Equal(t, 1, report.DocumentsProcessed)
	assert.Empty(t, report.Failures)
	require.Greater(t, report.ChunksIndexed, 0)
	assert.Len(t, index.records, report.ChunksIndexed)

	rec := index.records[0]
	assert.Equal(t, "1_0", rec.ID)
	assert.Equal(t, int64(1), rec.DocumentID)
	assert.Equal(t, "ORAL QUESTIONS", rec.Title)
	assert.Equal(t, "Fiji", rec.Source)
	assert.Equal(t, time.Date(2023, time.December, 5, 0, 0, 0, 0, time.UTC), rec.Date)
	assert.Equal(t, "Hansard Document", rec.DocumentType)
	assert.Equal(t, 0, rec.ChunkIndex)
	assert.Contains(t, rec.Content, "Thank you, Madam Speaker.")

	// Earlier records for the document are cleared before indexing.
	assert.Equal(t, []int64{1}, index.deleted)

	docs, err := store.ListDocuments(context.Background(), "Fiji")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, domain.CanonicalDate{Year: 2023, Month: time.December, Day: 5, Category: "part3_questions"}, docs[0].Date)
}

func TestIngest_OralQuestionTitleCarriesDate(t *testing.T) {
	connector := &fakeConnector{docs: []domain.RawDocument{
		{
			URI:      filepath.Join("collections", "Papua New Guinea", "2023", "March", "15", "part3_questions", "oral_question_180.html"),
			MIMEType: "text/html",
			Content: []byte(`<html><head><title>Hansard Oral Question 180</title></head><body>
<p>Mr KONI IGUAN - I direct my question to the Minister for Works.</p>
</body></html>`),
		},
	}}

	store := newFakeDocStore()
	index := &fakeIndex{}
	svc := newIngestService(connector, store, index)

	report, err := svc.Ingest(context.Background(), "collections")
	require.NoError(t, err)
	require.Equal(t, 1, report.DocumentsProcessed)

	require.NotEmpty(t, index.records)
	assert.Equal(t, "Hansard Oral Question 180 - 2023-03-15", index.records[0].Title)
	assert.Equal(t, "Oral Question", index.records[0].DocumentType)
	assert.Equal(t, "Papua New Guinea", index.records[0].Source)
}

func TestIngest_BadPathIsIsolatedFailure(t *testing.T) {
	connector := &fakeConnector{docs: []domain.RawDocument{
		{
			URI:      filepath.Join("random", "misc", "note.html"),
			MIMEType: "text/html",
			Content:  []byte("<p>no date in this path</p>"),
		},
		{
			URI:      fijiURI("part3_questions.html"),
			MIMEType: "text/html",
			Content:  []byte("<p>HON. A. BALE: Valid document.</p>"),
		},
	}}

	store := newFakeDocStore()
	index := &fakeIndex{}
	svc := newIngestService(connector, store, index)

	report, err := svc.Ingest(context.Background(), "collections")
	require.NoError(t, err)

	assert.Equal(t, 1, report.DocumentsProcessed)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0].URI, "note.html")
	assert.Contains(t, report.Failures[0].Reason, "resolve date")
}

func TestIngest_UnsupportedTypeIsFailure(t *testing.T) {
	connector := &fakeConnector{docs: []domain.RawDocument{
		{
			URI:      fijiURI("data.bin"),
			MIMEType: "application/octet-stream",
			Content:  []byte{0x01},
		},
	}}

	store := newFakeDocStore()
	index := &fakeIndex{}
	svc := newIngestService(connector, store, index)

	report, err := svc.Ingest(context.Background(), "collections")
	require.NoError(t, err)
	assert.Equal(t, 0, report.DocumentsProcessed)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0].Reason, "normalise")
}

func TestIngest_SingleRunAtATime(t *testing.T) {
	release := make(chan struct{})
	running := make(chan struct{})
	connector := &fakeConnector{release: release, running: running}

	svc := newIngestService(connector, newFakeDocStore(), &fakeIndex{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := svc.Ingest(context.Background(), "collections")
		assert.NoError(t, err)
	}()

	// Collide with the run once it holds the slot.
	<-running
	_, err := svc.Ingest(context.Background(), "collections")
	assert.ErrorIs(t, err, domain.ErrIngestInProgress)

	close(release)
	<-done

	// The slot frees once the run finishes.
	_, err = svc.Ingest(context.Background(), "collections")
	assert.NoError(t, err)
}

func TestIngest_BoundedWorkers(t *testing.T) {
	var docs []domain.RawDocument
	for i := 0; i < 20; i++ {
		docs = append(docs, domain.RawDocument{
			URI:      fijiURI("oral_question_" + string(rune('a'+i)) + ".html"),
			MIMEType: "text/html",
			Content:  []byte("<p>HON. A. BALE: Some dialogue.</p>"),
		})
	}
	connector := &fakeConnector{docs: docs}

	store := newFakeDocStore()
	index := &fakeIndex{}
	svc := newIngestService(connector, store, index, WithWorkers(2))

	report, err := svc.Ingest(context.Background(), "collections")
	require.NoError(t, err)
	assert.Equal(t, 20, report.DocumentsProcessed)

	// Every document got a distinct sequence despite concurrency.
	seen := make(map[int64]struct{})
	for _, rec := range index.records {
		seen[rec.DocumentID] = struct{}{}
	}
	assert.Len(t, seen, 20)
}

func TestWatch_IngestsUntilCancelled(t *testing.T) {
	connector := &fakeConnector{docs: []domain.RawDocument{
		{
			URI:      fijiURI("part3_questions.html"),
			MIMEType: "text/html",
			Content:  []byte("<p>HON. A. BALE: Watched document.</p>"),
		},
	}}

	store := newFakeDocStore()
	index := &fakeIndex{}
	svc := newIngestService(connector, store, index)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- svc.Watch(ctx, "collections") }()

	require.Eventually(t, func() bool {
		index.mu.Lock()
		defer index.mu.Unlock()
		return len(index.records) > 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop on cancellation")
	}
}

func TestPathSegments(t *testing.T) {
	segments := pathSegments("/data/collections/Fiji/2023/December/5/part3_questions/a.html")
	assert.Equal(t, []string{"data", "collections", "Fiji", "2023", "December", "5", "part3_questions", "a.html"}, segments)
}
