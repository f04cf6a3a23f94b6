// Package domain defines the core business entities for the Pacific
// Hansard pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: a normalised hansard transcript with its segments
//   - Segment: one classified unit of transcript text
//   - Chunk: a searchable unit within a document
//   - CanonicalDate: the validated date recovered from a storage path
//   - IndexRecord: the flattened (document, chunk) unit held by the index
//   - RawDocument: opaque bytes from a connector
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
