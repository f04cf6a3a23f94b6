package driven

import (
	"context"

	"github.com/jlkeet/pacific-hansard-sub001/internal/core/domain"
)

// RawHit is the wire shape of one search result as the index returns
// it: field name to a scalar or a sequence of primitive values. The
// index may wrap any field in a one-element sequence regardless of
// declared cardinality; only the field normaliser interprets this
// shape, and it must never leak past it.
type RawHit map[string]any

// SearchIndex provides full-text indexing over flattened records.
// Backed by SQLite FTS5 for BM25 keyword search.
type SearchIndex interface {
	// Index adds or replaces a record in the search index.
	// The record's Score field is ignored on write.
	Index(ctx context.Context, rec domain.IndexRecord) error

	// DeleteDocument removes all records for a document.
	DeleteDocument(ctx context.Context, documentID int64) error

	// Search performs a keyword search and returns raw hits ordered
	// by descending relevance, with a "score" field populated.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]RawHit, error)

	// Close releases resources.
	Close() error
}
