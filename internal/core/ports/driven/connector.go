package driven

import (
	"context"

	"github.com/jlkeet/pacific-hansard-sub001/internal/core/domain"
)

// Connector fetches raw transcript documents from a collections tree.
type Connector interface {
	// Type returns the connector type identifier.
	Type() string

	// Validate checks the connector is ready to enumerate documents.
	// For the collections connector this checks the root path exists
	// and is readable.
	Validate(ctx context.Context) error

	// FullSync enumerates all documents under the root.
	// Returns channels for documents and errors; both close when
	// enumeration finishes.
	FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error)

	// Watch listens for newly dropped or rewritten transcript files
	// and emits them as raw documents until the context is cancelled.
	Watch(ctx context.Context) (<-chan domain.RawDocument, error)

	// Close releases resources.
	Close() error
}

// ConnectorFactory creates a connector for a collections root path.
type ConnectorFactory func(root string) (Connector, error)
