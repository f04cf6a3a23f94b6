// Package sqlite provides the SQLite-backed document store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Documents carry a store-assigned
// AUTOINCREMENT sequence alongside their string id; the search index references
// documents by that sequence, so re-ingesting a URI keeps its identity stable.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.hansard/data/metadata.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
