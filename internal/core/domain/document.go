package domain

import "time"

// Document represents an ingested hansard transcript after
// normalisation. It is the canonical representation the store and the
// index are built from.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Seq is the store-assigned numeric identifier. Zero until the
	// document has been saved; the index carries it as document_id.
	Seq int64

	// URI is the original location within the collections tree.
	URI string

	// Title is the derived title, cleaned of source boilerplate.
	Title string

	// Jurisdiction is the source parliament ("Fiji", "Papua New
	// Guinea", "Cook Islands").
	Jurisdiction string

	// Date is the canonical sitting date recovered from the path.
	Date CanonicalDate

	// DocumentType is the category ("Oral Question", "Hansard
	// Document") derived from the title and path.
	DocumentType string

	// Content is the full text content after normalisation.
	// This is the complete document text before chunking.
	Content string

	// Segments is the ordered classified segment sequence the
	// content was recovered from. Ordinals are contiguous.
	Segments []Segment

	// FormatMarker records the structuring heuristic path.
	FormatMarker string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// Chunk represents a searchable unit within a document.
// Documents are split into chunks for granular search results.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk. It maps 1:1 to a
	// contiguous slice of the parent document's segments.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// TokenCount is the estimated token count of Content.
	TokenCount int

	// Speaker is the attributed speaker the chunk's content belongs
	// to; empty when the covered segments carry no attribution.
	Speaker string

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}
