// Package collections provides the connector that enumerates hansard
// transcript files from a collections directory tree.
//
// The tree is laid out as
//
//	collections/<jurisdiction>/<year>/<month>/<day>/<category>/<file>
//
// Part files are HTML, scanned sittings arrive as PDF, and each part
// may carry a companion "<name>_metadata.txt" with the speaker list.
package collections

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/ledongthuc/pdf"

	"github.com/jlkeet/pacific-hansard-sub001/internal/core/domain"
	"github.com/jlkeet/pacific-hansard-sub001/internal/core/ports/driven"
)

const metadataSuffix = "_metadata.txt"

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Connector walks a collections tree and emits raw transcript
// documents. Navigation pages and metadata companions are folded into
// the documents they describe rather than emitted on their own.
type Connector struct {
	rootPath string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// New creates a collections connector rooted at the given path.
func New(rootPath string) *Connector {
	return &Connector{rootPath: rootPath}
}

// Factory adapts New to the ConnectorFactory signature.
func Factory(root string) (driven.Connector, error) {
	return New(root), nil
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return "collections"
}

// Validate checks that the root path exists and is a directory.
func (c *Connector) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(c.rootPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("root path does not exist: %s", c.rootPath)
	}
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path is not a directory: %s", c.rootPath)
	}
	return nil
}

// FullSync walks the collections tree and emits every transcript file.
// Both channels close when the walk finishes or the context is
// cancelled.
func (c *Connector) FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument)
	errs := make(chan error, 1)

	go func() {
		defer close(docs)
		defer close(errs)

		if err := c.Validate(ctx); err != nil {
			errs <- err
			return
		}

		err := filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() {
				if isHidden(d.Name()) && path != c.rootPath {
					return filepath.SkipDir
				}
				return nil
			}
			if !eligible(path) {
				return nil
			}

			doc, err := c.load(path)
			if err != nil {
				// One unreadable file must not abort the walk.
				select {
				case errs <- fmt.Errorf("read %s: %w", path, err):
				default:
				}
				return nil
			}

			select {
			case docs <- doc:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
		if err != nil && err != ctx.Err() {
			select {
			case errs <- err:
			default:
			}
		}
	}()

	return docs, errs
}

// Watch emits a raw document whenever a transcript file is created or
// rewritten anywhere under the root. The channel closes when the
// context is cancelled.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.RawDocument, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("connector is closed")
	}
	if err := c.Validate(ctx); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// fsnotify does not recurse; register every existing directory.
	err = filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if isHidden(d.Name()) && path != c.rootPath {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", c.rootPath, err)
	}

	c.watcher = watcher
	docs := make(chan domain.RawDocument)

	go func() {
		defer close(docs)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if doc, ok := c.handleFsEvent(watcher, event); ok {
					select {
					case docs <- doc:
					case <-ctx.Done():
						return
					}
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return docs, nil
}

// handleFsEvent turns a filesystem event into a raw document, or
// reports false for events the pipeline does not care about.
func (c *Connector) handleFsEvent(watcher *fsnotify.Watcher, event fsnotify.Event) (domain.RawDocument, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return domain.RawDocument{}, false
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return domain.RawDocument{}, false
	}
	if info.IsDir() {
		// New sitting directories appear as the scraper runs.
		if event.Has(fsnotify.Create) && !isHidden(filepath.Base(event.Name)) {
			_ = watcher.Add(event.Name)
		}
		return domain.RawDocument{}, false
	}
	if !eligible(event.Name) {
		return domain.RawDocument{}, false
	}

	doc, err := c.load(event.Name)
	if err != nil {
		return domain.RawDocument{}, false
	}
	return doc, true
}

// Close releases watcher resources. It is idempotent.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.watcher != nil {
		err := c.watcher.Close()
		c.watcher = nil
		return err
	}
	return nil
}

// load reads one transcript file into a raw document, extracting text
// from PDFs and attaching any companion metadata.
func (c *Connector) load(path string) (domain.RawDocument, error) {
	metadata := loadCompanionMetadata(path)
	metadata["filename"] = filepath.Base(path)

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := extractPDFText(path)
		if err != nil {
			return domain.RawDocument{}, err
		}
		metadata["source_format"] = "pdf"
		return domain.RawDocument{
			URI:      path,
			MIMEType: "text/plain",
			Content:  []byte(text),
			Metadata: metadata,
		}, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return domain.RawDocument{}, err
	}

	return domain.RawDocument{
		URI:      path,
		MIMEType: detectMIMEType(path),
		Content:  content,
		Metadata: metadata,
	}, nil
}

// eligible reports whether the file is a transcript the pipeline
// ingests. Navigation pages, metadata companions and hidden files are
// not documents.
func eligible(path string) bool {
	name := filepath.Base(path)
	if isHidden(name) {
		return false
	}
	if strings.EqualFold(name, "contents.html") {
		return false
	}
	if strings.HasSuffix(name, metadataSuffix) {
		return false
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".txt", ".pdf":
		return true
	default:
		return false
	}
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func detectMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return "text/html"
	default:
		return "text/plain"
	}
}

// extractPDFText pulls the plain text out of a scanned sitting PDF.
func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}
