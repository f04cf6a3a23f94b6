// Package hansard structures parliamentary transcript markup into
// classified, speaker-attributed segments.
package hansard

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jlkeet/pacific-hansard-sub001/internal/core/domain"
	"github.com/jlkeet/pacific-hansard-sub001/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser adapts the structuring engine to the registry's
// Normaliser interface. It handles both the HTML part files the
// scrapers emit and the plain text the PDF extractor produces.
type Normaliser struct {
	structurer *Structurer
}

// New creates a hansard normaliser around the given structurer.
func New(structurer *Structurer) *Normaliser {
	return &Normaliser{structurer: structurer}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml", "text/plain"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 90 // Domain-specific normaliser
}

// Normalise structures a raw transcript into a document with
// classified segments. Structuring never fails; unrecognised input
// degrades to Unclassified segments rather than dropping the document.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	structured := n.structurer.Structure(string(raw.Content))

	title := structured.Title
	if title == "" {
		title = titleFromURI(raw.URI)
	}

	doc := domain.Document{
		ID:           uuid.New().String(),
		URI:          raw.URI,
		Title:        title,
		DocumentType: DeriveDocumentType(title),
		Content:      contentOf(structured),
		Segments:     structured.Segments,
		FormatMarker: structured.FormatMarker,
		Metadata:     copyMetadata(raw.Metadata),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = structured.FormatMarker
	if speakers := structured.Speakers(); len(speakers) > 0 {
		doc.Metadata["speakers"] = speakers
	}

	return &driven.NormaliseResult{Document: doc}, nil
}

// contentOf flattens the segment sequence into the document's plain
// text content, one paragraph per segment.
func contentOf(structured domain.StructuredDocument) string {
	parts := make([]string, 0, len(structured.Segments))
	for _, seg := range structured.Segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, "\n")
}

// titleFromURI extracts a human-readable title from a URI.
func titleFromURI(uri string) string {
	filename := filepath.Base(uri)
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
