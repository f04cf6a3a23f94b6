package driving

import (
	"context"

	"github.com/jlkeet/pacific-hansard-sub001/internal/core/domain"
)

// SearchService answers queries over the indexed corpus. Results are
// fully typed records; the index's sequence-wrapped field
// representation never reaches callers.
type SearchService interface {
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.IndexRecord, error)
}
