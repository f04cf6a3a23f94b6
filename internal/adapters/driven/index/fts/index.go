package fts

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jlkeet/pacific-hansard-sub001/internal/core/domain"
	"github.com/jlkeet/pacific-hansard-sub001/internal/core/ports/driven"
)

// dateLayout is the textual form dates are indexed in. It is one of
// the timestamp layouts the field normaliser accepts.
const dateLayout = "2006-01-02 15:04:05"

// Index is the SQLite FTS5 backed search index.
type Index struct {
	db   *sql.DB
	path string
}

var _ driven.SearchIndex = (*Index)(nil)

// NewIndex opens (creating if necessary) the FTS index at the
// specified data directory. If dataDir is empty, defaults to
// ~/.hansard/data/index.db.
func NewIndex(dataDir string) (*Index, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".hansard", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	_, err = db.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(
			id UNINDEXED,
			document_id UNINDEXED,
			title,
			source UNINDEXED,
			date UNINDEXED,
			document_type UNINDEXED,
			chunk_index UNINDEXED,
			token_count UNINDEXED,
			content
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating fts table: %w", err)
	}

	return &Index{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (i *Index) Close() error {
	return i.db.Close()
}

// Path returns the index database file path.
func (i *Index) Path() string {
	return i.path
}

// Index adds or replaces a record. FTS5 tables carry no uniqueness
// constraints, so replace is a delete followed by an insert.
func (i *Index) Index(ctx context.Context, rec domain.IndexRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: record requires an id", domain.ErrInvalidInput)
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks_fts WHERE id = ?", rec.ID); err != nil {
		return fmt.Errorf("replacing record %s: %w", rec.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chunks_fts (id, document_id, title, source, date, document_type, chunk_index, token_count, content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.DocumentID, rec.Title, rec.Source, rec.Date.UTC().Format(dateLayout),
		rec.DocumentType, rec.ChunkIndex, rec.TokenCount, rec.Content)
	if err != nil {
		return fmt.Errorf("indexing record %s: %w", rec.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing record %s: %w", rec.ID, err)
	}
	return nil
}

// DeleteDocument removes all records for a document.
func (i *Index) DeleteDocument(ctx context.Context, documentID int64) error {
	if _, err := i.db.ExecContext(ctx, "DELETE FROM chunks_fts WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("deleting document %d from index: %w", documentID, err)
	}
	return nil
}

// Search performs a BM25-ranked keyword search. Hits carry every
// stored field wrapped in a one-element sequence and a scalar "score";
// BM25 ranks ascending (more negative is better), so the score is
// negated to make higher mean more relevant.
func (i *Index) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]driven.RawHit, error) {
	match := matchExpression(query)
	if match == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	sqlQuery := `
		SELECT id, document_id, title, source, date, document_type, chunk_index, token_count, content,
			bm25(chunks_fts) AS rank
		FROM chunks_fts
		WHERE chunks_fts MATCH ?`
	args := []any{match}
	if opts.Source != "" {
		sqlQuery += " AND source = ?"
		args = append(args, opts.Source)
	}
	sqlQuery += " ORDER BY rank LIMIT ?"
	args = append(args, limit)

	rows, err := i.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var hits []driven.RawHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			id, title, source, date, documentType, content string
			documentID, chunkIndex, tokenCount             int64
			rank                                           float64
		)
		if err := rows.Scan(&id, &documentID, &title, &source, &date, &documentType,
			&chunkIndex, &tokenCount, &content, &rank); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}

		hits = append(hits, driven.RawHit{
			"id":            []any{id},
			"document_id":   []any{documentID},
			"title":         []any{title},
			"source":        []any{source},
			"date":          []any{date},
			"document_type": []any{documentType},
			"chunk_index":   []any{chunkIndex},
			"token_count":   []any{tokenCount},
			"content":       []any{content},
			"score":         -rank,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hits: %w", err)
	}
	return hits, nil
}

// matchExpression turns a free-form query into an FTS5 MATCH
// expression. Each whitespace-separated term is quoted so user input
// never reaches the FTS5 query parser as syntax.
func matchExpression(query string) string {
	terms := strings.Fields(query)
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		quoted = append(quoted, `"`+strings.ReplaceAll(term, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}
