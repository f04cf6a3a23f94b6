package domain

// RawDocument represents opaque bytes fetched by a connector.
// It is the connector's output before normalisation.
type RawDocument struct {
	// URI is the original location (file path within the collections tree).
	URI string

	// MIMEType is the content type (e.g., "text/html").
	MIMEType string

	// Content is the raw bytes. For PDF sources this is the already
	// extracted text; extraction is the connector's concern.
	Content []byte

	// Metadata contains connector-specific key-value pairs, such as
	// the speaker list read from a companion metadata file.
	Metadata map[string]any
}
