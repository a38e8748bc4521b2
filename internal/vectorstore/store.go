// Package vectorstore composes the embedding service, vector index and
// chunk store into the engine's central component.
//
// The store maintains one invariant above all others: the vector index and
// the chunk store are positionally aligned ordered sequences, so position i
// in the index always resolves to chunk i. Every public operation leaves
// the store in an aligned state.
//
// The store is designed for a single logical writer. Mutating operations
// (AddDocuments, DeleteBySource, Save) must be externally serialised; the
// internal RWMutex exists so concurrent readers never observe the
// mid-rebuild state of a delete. The replacement index and chunk arrays
// are built off to the side and swapped in under the write lock.
package vectorstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/index/flat"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// DefaultBatchSize is the embedding batch size.
// Batching exists purely for provider throughput; it never changes result
// ordering.
const DefaultBatchSize = 32

// DefaultK is the default number of search results.
const DefaultK = 5

// Store is the vector store: embedding provider + vector index + chunk
// store, persisted as a unit.
type Store struct {
	mu sync.RWMutex

	embedder  driven.EmbeddingService
	newIndex  driven.IndexFactory
	index     driven.VectorIndex
	batchSize int
	basePath  string

	// chunks and metaCache are positionally aligned with the index.
	// metaCache[i] is a shallow copy of chunks[i].Metadata kept for
	// filter evaluation without touching chunk payloads.
	chunks    []domain.Chunk
	metaCache []domain.ChunkMetadata

	// chunkIDs guards the chunk ID uniqueness invariant.
	chunkIDs map[string]struct{}
}

// Option configures the store.
type Option func(*Store)

// WithBatchSize sets the embedding batch size.
func WithBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithIndexFactory replaces the default flat index factory.
// The factory is also used for delete rebuilds, so an index with native
// tombstoning can be swapped in without touching the store contract.
func WithIndexFactory(f driven.IndexFactory) Option {
	return func(s *Store) {
		if f != nil {
			s.newIndex = f
		}
	}
}

// New creates a vector store persisting to basePath (two co-located
// artifacts: basePath+".index" and basePath+".chunks.json"). An empty
// basePath disables persistence.
func New(basePath string, embedder driven.EmbeddingService, opts ...Option) (*Store, error) {
	if embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	dims := embedder.Dimensions()
	if dims <= 0 {
		return nil, fmt.Errorf("%w: embedding service reports dimension %d", domain.ErrDimensionMismatch, dims)
	}

	s := &Store{
		embedder:  embedder,
		newIndex:  flat.Factory,
		batchSize: DefaultBatchSize,
		basePath:  basePath,
		chunkIDs:  make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.index = s.newIndex(dims)
	if s.index.Dimension() != dims {
		return nil, fmt.Errorf("%w: index dimension %d, embedding dimension %d",
			domain.ErrDimensionMismatch, s.index.Dimension(), dims)
	}

	return s, nil
}

// AddDocuments embeds all chunk contents in batches and appends the
// vectors and chunks in input order.
//
// The operation is atomic with respect to the store: every embedding is
// generated before anything is appended, so an embedding failure leaves
// the store untouched and no batch is ever silently dropped.
func (s *Store) AddDocuments(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	if err := s.validateNewChunks(chunks); err != nil {
		return err
	}

	vectors, err := s.embedAll(ctx, chunkContents(chunks))
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Add(vectors); err != nil {
		return fmt.Errorf("add vectors: %w", err)
	}
	for i := range chunks {
		s.chunks = append(s.chunks, chunks[i])
		s.metaCache = append(s.metaCache, chunks[i].Metadata)
		s.chunkIDs[chunks[i].ID] = struct{}{}
	}

	logger.Debug("Added %d chunks (store now holds %d)", len(chunks), len(s.chunks))
	return nil
}

// Search embeds the query, finds the k nearest chunks by squared Euclidean
// distance and maps index positions back through the chunk store. Results
// whose score exceeds opts.ScoreThreshold are dropped. An empty store
// returns an empty sequence, not an error.
func (s *Store) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	k := opts.K
	if k <= 0 {
		k = DefaultK
	}

	if s.Len() == 0 {
		return []domain.SearchResult{}, nil
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits, err := s.index.Search(queryVec, k)
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		// Defensive: never surface malformed positions as results.
		if hit.Position < 0 || hit.Position >= len(s.chunks) {
			logger.Warn("Index returned out-of-range position %d (store holds %d chunks)", hit.Position, len(s.chunks))
			continue
		}
		if opts.ScoreThreshold != nil && hit.Distance > *opts.ScoreThreshold {
			continue
		}
		results = append(results, domain.SearchResult{
			Chunk: s.chunks[hit.Position],
			Score: hit.Distance,
		})
	}

	return results, nil
}

// DeleteBySource removes every chunk whose source metadata equals, or ends
// with, the identifier, then rebuilds the index from the retained chunks.
//
// The underlying index has no native delete, so removal re-embeds and
// re-adds every retained chunk into a fresh index built off to the side;
// readers only ever see the old state or the fully swapped new state.
// Zero matches is a structured failure (Success=false), not an error.
func (s *Store) DeleteBySource(ctx context.Context, identifier string) (*domain.DeleteResult, error) {
	return s.deleteWhere(ctx, func(m domain.ChunkMetadata) bool {
		return m.MatchesSource(identifier)
	})
}

// DeleteByDocumentID removes every chunk stamped with the exact
// ingestion-assigned document ID and rebuilds the index.
func (s *Store) DeleteByDocumentID(ctx context.Context, documentID string) (*domain.DeleteResult, error) {
	if documentID == "" {
		return nil, fmt.Errorf("%w: empty document ID", domain.ErrInvalidInput)
	}
	return s.deleteWhere(ctx, func(m domain.ChunkMetadata) bool {
		return m.DocumentID == documentID
	})
}

// deleteWhere removes chunks matched by the predicate via full rebuild.
func (s *Store) deleteWhere(ctx context.Context, match func(domain.ChunkMetadata) bool) (*domain.DeleteResult, error) {
	s.mu.RLock()
	retained := make([]domain.Chunk, 0, len(s.chunks))
	removed := 0
	for i := range s.chunks {
		if match(s.metaCache[i]) {
			removed++
			continue
		}
		retained = append(retained, s.chunks[i])
	}
	s.mu.RUnlock()

	if removed == 0 {
		logger.Info("Delete matched no chunks")
		return &domain.DeleteResult{
			Success:        false,
			RemovedCount:   0,
			RemainingCount: len(retained),
		}, nil
	}

	logger.Info("Deleting %d chunks, rebuilding index from %d retained", removed, len(retained))

	// Build the replacement index and chunk arrays fully off to the side.
	newIndex := s.newIndex(s.index.Dimension())
	if len(retained) > 0 {
		vectors, err := s.embedAll(ctx, chunkContents(retained))
		if err != nil {
			return nil, fmt.Errorf("re-embed retained chunks: %w", err)
		}
		if err := newIndex.Add(vectors); err != nil {
			return nil, fmt.Errorf("rebuild index: %w", err)
		}
	}

	newMeta := make([]domain.ChunkMetadata, len(retained))
	newIDs := make(map[string]struct{}, len(retained))
	for i := range retained {
		newMeta[i] = retained[i].Metadata
		newIDs[retained[i].ID] = struct{}{}
	}

	// Single atomic swap visible to subsequent reads.
	s.mu.Lock()
	s.index = newIndex
	s.chunks = retained
	s.metaCache = newMeta
	s.chunkIDs = newIDs
	s.mu.Unlock()

	// Persist only after the in-memory swap is complete.
	if s.basePath != "" {
		if err := s.Save(); err != nil {
			return nil, fmt.Errorf("persist after delete: %w", err)
		}
	}

	return &domain.DeleteResult{
		Success:        true,
		RemovedCount:   removed,
		RemainingCount: len(retained),
	}, nil
}

// Stats reports the store's current state.
func (s *Store) Stats() domain.StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.StoreStats{
		TotalChunks:        len(s.chunks),
		EmbeddingDimension: s.index.Dimension(),
	}
}

// Persistent reports whether the store was constructed with a base path.
func (s *Store) Persistent() bool {
	return s.basePath != ""
}

// Len returns the number of indexed chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// validateNewChunks enforces non-empty content and chunk ID uniqueness,
// both within the input and against the store. Collisions are fatal to the
// whole add.
func (s *Store) validateNewChunks(chunks []domain.Chunk) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(chunks))
	for i := range chunks {
		id := chunks[i].ID
		if id == "" {
			return fmt.Errorf("%w: chunk %d has no ID", domain.ErrInvalidInput, i)
		}
		if chunks[i].Content == "" {
			return fmt.Errorf("%w: chunk %q has empty content", domain.ErrInvalidInput, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate chunk ID %q in input", domain.ErrAlreadyExists, id)
		}
		if _, dup := s.chunkIDs[id]; dup {
			return fmt.Errorf("%w: chunk ID %q already indexed", domain.ErrAlreadyExists, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// embedAll embeds texts in batches, preserving input order.
func (s *Store) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	dims := s.embedder.Dimensions()
	vectors := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += s.batchSize {
		end := start + s.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := s.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed batch %d-%d: %w", start, end-1, err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("embed batch %d-%d: got %d vectors for %d texts", start, end-1, len(batch), end-start)
		}
		for i, v := range batch {
			if len(v) != dims {
				return nil, fmt.Errorf("%w: batch vector %d has dimension %d, expected %d",
					domain.ErrDimensionMismatch, start+i, len(v), dims)
			}
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

func chunkContents(chunks []domain.Chunk) []string {
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}
	return texts
}
