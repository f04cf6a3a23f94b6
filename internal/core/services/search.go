package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jlkeet/pacific-hansard-sub001/internal/core/domain"
	"github.com/jlkeet/pacific-hansard-sub001/internal/core/ports/driven"
	"github.com/jlkeet/pacific-hansard-sub001/internal/core/ports/driving"
	"github.com/jlkeet/pacific-hansard-sub001/internal/fields"
	"github.com/jlkeet/pacific-hansard-sub001/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService answers keyword queries over the indexed corpus. The
// index returns hits in its multi-valued wire shape; this service
// normalizes every hit against the record schema before anything else
// sees it. A hit that fails normalization is logged and dropped, never
// surfaced half-typed.
type SearchService struct {
	index  driven.SearchIndex
	schema fields.Schema
}

// NewSearchService creates a new search service.
func NewSearchService(index driven.SearchIndex) *SearchService {
	return &SearchService{
		index:  index,
		schema: fields.DefaultSchema(),
	}
}

// Search runs a keyword query and returns typed records ordered by
// descending relevance.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.IndexRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if opts.Limit <= 0 {
		opts.Limit = 10
	}

	logger.Section("Search")
	logger.Debug("Query: %q limit=%d source=%q", query, opts.Limit, opts.Source)

	hits, err := s.index.Search(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	records := make([]domain.IndexRecord, 0, len(hits))
	for _, hit := range hits {
		normalized, err := fields.Normalize(hit, s.schema)
		if err != nil {
			logger.Warn("Dropping malformed hit: %v", err)
			continue
		}
		records = append(records, fields.Record(normalized))
	}

	logger.Debug("Returning %d of %d hits", len(records), len(hits))
	return records, nil
}
