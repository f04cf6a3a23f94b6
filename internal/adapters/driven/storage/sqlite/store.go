package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jlkeet/pacific-hansard-sub001/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/jlkeet/pacific-hansard-sub001/internal/core/domain"
	"github.com/jlkeet/pacific-hansard-sub001/internal/core/ports/driven"
)

// dateLayout is the textual form sitting dates are stored in.
const dateLayout = "2006-01-02"

// Store is the SQLite-backed metadata storage for documents and their
// chunks.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.hansard/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".hansard", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document. Documents are keyed by
// their collections URI: re-ingesting the same URI updates the row in
// place, keeping the original id, seq and created_at so chunks and
// index records stay attached to a stable identity. On return the
// document's ID and Seq fields carry the stored values.
func (d *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.URI == "" {
		return fmt.Errorf("%w: document requires a URI", domain.ErrInvalidInput)
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	segmentsJSON, err := json.Marshal(doc.Segments)
	if err != nil {
		return fmt.Errorf("marshalling segments: %w", err)
	}
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	_, err = d.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, uri, title, jurisdiction, date, category, document_type,
			content, segments, format_marker, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(uri) DO UPDATE SET
			title = excluded.title,
			jurisdiction = excluded.jurisdiction,
			date = excluded.date,
			category = excluded.category,
			document_type = excluded.document_type,
			content = excluded.content,
			segments = excluded.segments,
			format_marker = excluded.format_marker,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`, doc.ID, doc.URI, doc.Title, doc.Jurisdiction, doc.Date.String(), doc.Date.Category,
		doc.DocumentType, doc.Content, string(segmentsJSON), doc.FormatMarker,
		string(metadataJSON), doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	// Read the stored identity back; on an update the insert values
	// for id, seq and created_at were discarded in favour of the
	// existing row's.
	row := d.store.db.QueryRowContext(ctx,
		"SELECT seq, id, created_at FROM documents WHERE uri = ?", doc.URI)
	var createdAt sql.NullTime
	if err := row.Scan(&doc.Seq, &doc.ID, &createdAt); err != nil {
		return fmt.Errorf("reading back document identity: %w", err)
	}
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}

	return nil
}

// SaveChunks stores chunks for a document, replacing any previously
// stored set. All chunks must belong to the same document.
func (d *documentStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	documentID := chunks[0].DocumentID
	for _, chunk := range chunks {
		if chunk.DocumentID != documentID {
			return fmt.Errorf("%w: chunks span multiple documents", domain.ErrInvalidInput)
		}
	}

	tx, err := d.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("clearing existing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, content, position, token_count, speaker, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, chunk.Content,
			chunk.Position, chunk.TokenCount, chunk.Speaker, string(metadataJSON)); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}
	return nil
}

const documentColumns = `seq, id, uri, title, jurisdiction, date, category, document_type,
	content, segments, format_marker, metadata, created_at, updated_at`

// GetDocument retrieves a document by ID.
func (d *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := d.store.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = ?", id)
	return scanDocument(row.Scan)
}

// GetDocumentByURI retrieves a document by its collections URI.
func (d *documentStore) GetDocumentByURI(ctx context.Context, uri string) (*domain.Document, error) {
	row := d.store.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE uri = ?", uri)
	return scanDocument(row.Scan)
}

// GetChunks retrieves all chunks for a document, ordered by position.
func (d *documentStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := d.store.db.QueryContext(ctx, `
		SELECT id, document_id, content, position, token_count, speaker, metadata
		FROM chunks WHERE document_id = ? ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var metadataJSON string
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Content,
			&chunk.Position, &chunk.TokenCount, &chunk.Speaker, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// DeleteDocument removes a document; its chunks cascade.
func (d *documentStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := d.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListDocuments returns documents for a jurisdiction; all documents
// when jurisdiction is empty. Results are ordered by sitting date.
func (d *documentStore) ListDocuments(ctx context.Context, jurisdiction string) ([]domain.Document, error) {
	query := "SELECT " + documentColumns + " FROM documents"
	var args []any
	if jurisdiction != "" {
		query += " WHERE jurisdiction = ?"
		args = append(args, jurisdiction)
	}
	query += " ORDER BY date, seq"

	rows, err := d.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// scanDocument reads one documents row via the given scan function.
func scanDocument(scan func(dest ...any) error) (*domain.Document, error) {
	var doc domain.Document
	var dateText, category, segmentsJSON, metadataJSON string
	var createdAt, updatedAt sql.NullTime
	if err := scan(&doc.Seq, &doc.ID, &doc.URI, &doc.Title, &doc.Jurisdiction,
		&dateText, &category, &doc.DocumentType, &doc.Content, &segmentsJSON,
		&doc.FormatMarker, &metadataJSON, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	t, err := time.Parse(dateLayout, dateText)
	if err != nil {
		return nil, fmt.Errorf("parsing stored date %q: %w", dateText, err)
	}
	doc.Date = domain.CanonicalDate{
		Year:     t.Year(),
		Month:    t.Month(),
		Day:      t.Day(),
		Category: category,
	}

	if err := json.Unmarshal([]byte(segmentsJSON), &doc.Segments); err != nil {
		return nil, fmt.Errorf("unmarshaling segments: %w", err)
	}
	if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshaling metadata: %w", err)
	}
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		doc.UpdatedAt = updatedAt.Time
	}

	return &doc, nil
}
