package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
	"github.com/quarry-labs/quarry-cli/internal/logger"
	"github.com/quarry-labs/quarry-cli/internal/vectorstore"
)

// Ensure RetrieverService implements the interface.
var _ driving.Retriever = (*RetrieverService)(nil)

// overFetchFactor widens the candidate pool when post-filters apply.
// Filters run after the nearest-neighbour pass, so the pool must be wide
// enough that k survivors usually remain.
const overFetchFactor = 3

// RetrieverService answers queries against the vector store, applying
// project scoping, phase preference and table filters on top of raw
// similarity search.
type RetrieverService struct {
	store *vectorstore.Store
}

// NewRetrieverService creates a new retriever service.
func NewRetrieverService(store *vectorstore.Store) *RetrieverService {
	return &RetrieverService{store: store}
}

// Search performs an unfiltered similarity search.
func (s *RetrieverService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.SearchResult{}, nil
	}
	return s.store.Search(ctx, query, opts)
}

// Retrieve performs a scoped search. A project ID is a hard filter:
// chunks tagged with a different project never appear, while untagged
// chunks remain visible. A phase is a soft preference: exact-phase
// matches rank first and the remainder pads the result up to k.
func (s *RetrieverService) Retrieve(ctx context.Context, query string, opts domain.RetrieveOptions) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.SearchResult{}, nil
	}
	defer logger.Timing("retrieval", time.Now())

	k := opts.K
	if k <= 0 {
		k = vectorstore.DefaultK
	}

	fetchK := k
	if opts.ProjectID != "" || opts.Phase != "" {
		fetchK = k * overFetchFactor
	}

	candidates, err := s.store.Search(ctx, query, domain.SearchOptions{K: fetchK})
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	if opts.ProjectID != "" {
		candidates = filterProject(candidates, opts.ProjectID)
	}
	if opts.Phase != "" {
		candidates = preferPhase(candidates, opts.Phase)
	}

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}

// RetrieveTable searches tabular chunks only, optionally narrowed to a
// sheet or a set of columns. The query is augmented with the filter's
// table vocabulary so the embedding lands near tabular content.
func (s *RetrieverService) RetrieveTable(ctx context.Context, query string, filter domain.TableFilter, opts domain.RetrieveOptions) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.SearchResult{}, nil
	}
	defer logger.Timing("table retrieval", time.Now())

	k := opts.K
	if k <= 0 {
		k = vectorstore.DefaultK
	}

	augmented := augmentTableQuery(query, filter)
	logger.Debug("Table retrieval query: %q", augmented)

	candidates, err := s.store.Search(ctx, augmented, domain.SearchOptions{K: k * overFetchFactor})
	if err != nil {
		return nil, fmt.Errorf("retrieve table: %w", err)
	}

	if opts.ProjectID != "" {
		candidates = filterProject(candidates, opts.ProjectID)
	}

	results := make([]domain.SearchResult, 0, k)
	for _, cand := range candidates {
		if cand.Chunk.Metadata.ContentType != domain.ContentTypeTable {
			continue
		}
		if !matchesTableFilter(cand.Chunk.Metadata, filter) {
			continue
		}
		results = append(results, cand)
		if len(results) == k {
			break
		}
	}

	if opts.Phase != "" {
		results = preferPhase(results, opts.Phase)
	}
	return results, nil
}

// filterProject drops chunks tagged with a different project. Chunks
// without a project tag are shared material and pass through.
func filterProject(results []domain.SearchResult, projectID string) []domain.SearchResult {
	kept := results[:0]
	for _, r := range results {
		tag := r.Chunk.Metadata.ProjectID
		if tag != "" && tag != projectID {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// preferPhase reorders results so exact-phase matches come first, each
// group keeping its original similarity order. Off-phase results are
// retained as fallback rather than dropped.
func preferPhase(results []domain.SearchResult, phase string) []domain.SearchResult {
	exact := make([]domain.SearchResult, 0, len(results))
	fallback := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		if r.Chunk.Metadata.Phase == phase {
			exact = append(exact, r)
		} else {
			fallback = append(fallback, r)
		}
	}
	return append(exact, fallback...)
}

// augmentTableQuery appends the filter's sheet name and column names to
// the query text.
func augmentTableQuery(query string, filter domain.TableFilter) string {
	var sb strings.Builder
	sb.WriteString(query)
	if filter.SheetName != "" {
		sb.WriteString(" [table: ")
		sb.WriteString(filter.SheetName)
		sb.WriteString("]")
	}
	if len(filter.Columns) > 0 {
		sb.WriteString(" [columns: ")
		sb.WriteString(strings.Join(filter.Columns, ", "))
		sb.WriteString("]")
	}
	return sb.String()
}

// matchesTableFilter checks a tabular chunk against the filter. Sheet
// names compare case-insensitively; a column filter requires every named
// column to be present in the chunk's table.
func matchesTableFilter(meta domain.ChunkMetadata, filter domain.TableFilter) bool {
	if filter.SheetName != "" && !strings.EqualFold(meta.SheetName, filter.SheetName) {
		return false
	}
	if len(filter.Columns) > 0 {
		have := make(map[string]bool, len(meta.Columns))
		for _, c := range meta.Columns {
			have[strings.ToLower(c)] = true
		}
		for _, want := range filter.Columns {
			if !have[strings.ToLower(want)] {
				return false
			}
		}
	}
	return true
}
