package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jlkeet/pacific-hansard-sub001/internal/core/domain"
	"github.com/jlkeet/pacific-hansard-sub001/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// It mirrors the SQLite store's identity semantics: documents are keyed
// by URI, re-saving a URI keeps the original id, seq and created_at.
type DocumentStore struct {
	mu        sync.RWMutex
	nextSeq   int64
	documents map[string]domain.Document // keyed by id
	byURI     map[string]string          // uri -> id
	chunks    map[string][]domain.Chunk  // keyed by document id
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		byURI:     make(map[string]string),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// SaveDocument stores or updates a document, assigning seq and id on
// first save of a URI.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if doc == nil || doc.URI == "" {
		return fmt.Errorf("%w: document requires a URI", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if existingID, ok := s.byURI[doc.URI]; ok {
		existing := s.documents[existingID]
		doc.ID = existing.ID
		doc.Seq = existing.Seq
		doc.CreatedAt = existing.CreatedAt
	} else {
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		s.nextSeq++
		doc.Seq = s.nextSeq
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = now
		}
	}
	doc.UpdatedAt = now

	s.documents[doc.ID] = *doc
	s.byURI[doc.URI] = doc.ID
	return nil
}

// SaveChunks stores chunks for a document, replacing any previously
// stored set.
func (s *DocumentStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	docID := chunks[0].DocumentID
	for _, chunk := range chunks {
		if chunk.DocumentID != docID {
			return fmt.Errorf("%w: chunks span multiple documents", domain.ErrInvalidInput)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]domain.Chunk, len(chunks))
	copy(stored, chunks)
	sort.Slice(stored, func(i, j int) bool { return stored[i].Position < stored[j].Position })
	s.chunks[docID] = stored
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

// GetDocumentByURI retrieves a document by its collections URI.
func (s *DocumentStore) GetDocumentByURI(_ context.Context, uri string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byURI[uri]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc := s.documents[id]
	return &doc, nil
}

// GetChunks retrieves all chunks for a document, ordered by position.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks, ok := s.chunks[documentID]
	if !ok {
		return nil, nil
	}
	out := make([]domain.Chunk, len(chunks))
	copy(out, chunks)
	return out, nil
}

// DeleteDocument removes a document and its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	delete(s.byURI, doc.URI)
	delete(s.chunks, id)
	return nil
}

// ListDocuments returns documents for a jurisdiction; all documents
// when jurisdiction is empty. Results are ordered by seq.
func (s *DocumentStore) ListDocuments(_ context.Context, jurisdiction string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Document
	for id := range s.documents {
		doc := s.documents[id]
		if jurisdiction == "" || doc.Jurisdiction == jurisdiction {
			result = append(result, doc)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Seq < result[j].Seq })
	return result, nil
}
