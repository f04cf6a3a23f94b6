// Package connectors provides implementations of the Connector
// interface for document sources. The collections connector reads a
// hansard collections tree from the local filesystem; further sources
// (archive mirrors, object storage) plug in behind the same interface.
//
// Connectors are handed to the ingest orchestrator as a factory bound
// to a root path.
package connectors
