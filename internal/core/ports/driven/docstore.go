package driven

import (
	"context"

	"github.com/jlkeet/pacific-hansard-sub001/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite for metadata storage.
type DocumentStore interface {
	// SaveDocument stores or updates a document. On success the
	// document's Seq field carries the store-assigned numeric id.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks for a document, replacing any
	// previously stored set.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentByURI retrieves a document by its collections URI.
	GetDocumentByURI(ctx context.Context, uri string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document, ordered by position.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns documents for a jurisdiction; all
	// documents when jurisdiction is empty.
	ListDocuments(ctx context.Context, jurisdiction string) ([]domain.Document, error)
}
