// Package fts implements the search index port on SQLite's FTS5
// extension, ranked with BM25.
//
// Records are stored in a single virtual table, one row per chunk.
// Hits come back in the raw wire shape: every stored field wrapped in
// a one-element sequence, with the computed score as a plain scalar.
// The field normaliser is the only consumer of that shape.
//
// The index lives in its own database file alongside the metadata
// store, by default ~/.hansard/data/index.db.
package fts
