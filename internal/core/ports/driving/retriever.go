package driving

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// Retriever serves filtered top-k retrieval to downstream consumers.
type Retriever interface {
	// Search performs plain similarity search with no scope filtering.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// Retrieve performs scope-filtered retrieval. Phase filtering prefers
	// phase-exact matches and degrades gracefully to fallback results;
	// project filtering is a hard exclusion.
	Retrieve(ctx context.Context, query string, opts domain.RetrieveOptions) ([]domain.SearchResult, error)

	// RetrieveTable performs table-aware retrieval: the query is augmented
	// with table and column hints and results are restricted to tabular
	// chunks matching the filter.
	RetrieveTable(ctx context.Context, query string, filter domain.TableFilter, opts domain.RetrieveOptions) ([]domain.SearchResult, error)
}
