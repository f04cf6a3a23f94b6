package driving

import "context"

// DocumentFailure records one document excluded from an ingest run.
type DocumentFailure struct {
	// URI is the document's location within the collections tree.
	URI string

	// Reason is the failure description.
	Reason string
}

// IngestReport summarises one ingest run.
type IngestReport struct {
	// DocumentsProcessed is the number of documents indexed.
	DocumentsProcessed int

	// ChunksIndexed is the number of index records written.
	ChunksIndexed int

	// Failures lists documents excluded from the run, by identifier.
	// A failure in one document never aborts the batch.
	Failures []DocumentFailure
}

// IngestOrchestrator coordinates transcript ingestion.
type IngestOrchestrator interface {
	// Ingest enumerates the collections tree at root, processes every
	// document through the normalisation pipeline with bounded worker
	// concurrency, and indexes the results.
	Ingest(ctx context.Context, root string) (*IngestReport, error)

	// Watch ingests newly dropped transcript files as they appear,
	// until the context is cancelled.
	Watch(ctx context.Context, root string) error
}
