package domain

import "time"

// IndexRecord is the flattened, indexable unit: one per (document,
// chunk) pair. It is what the search index stores on write and what
// the field normaliser reconstructs on read.
type IndexRecord struct {
	// ID identifies the record, formed as "<documentID>_<chunkIndex>".
	ID string

	// DocumentID is the numeric store identifier of the parent document.
	DocumentID int64

	// Title is the parent document's derived title.
	Title string

	// Source is the jurisdiction the transcript came from.
	Source string

	// Date is the canonical sitting date.
	Date time.Time

	// DocumentType is the document category label.
	DocumentType string

	// ChunkIndex is the chunk's position within the document.
	ChunkIndex int

	// TokenCount is the estimated token count of Content.
	TokenCount int

	// Content is the chunk text.
	Content string

	// Score is the relevance score. Populated only on query results,
	// never on write.
	Score float64
}

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results.
	Limit int

	// Source filters results to one jurisdiction when non-empty.
	Source string
}
