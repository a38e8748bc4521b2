package cli

import (
	"context"
	"errors"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
)

// setupTestServices installs mock services and returns a cleanup func.
func setupTestServices() func() {
	oldIngest := ingestService
	oldRetriever := retrieverService
	oldRegistry := documentRegistry

	ingestService = &mockIngestor{
		result: &domain.IngestResult{
			DocumentID: "doc-1",
			Source:     "sample.txt",
			ChunkIDs:   []string{"c1", "c2"},
		},
		deleteResult: &domain.DeleteResult{Success: true, RemovedCount: 2, RemainingCount: 3},
		stats:        &domain.StoreStats{TotalChunks: 5, TotalDocuments: 2, EmbeddingDimension: 768},
	}
	retrieverService = &mockRetriever{
		results: []domain.SearchResult{
			{
				Chunk: domain.Chunk{
					ID:         "chunk-1",
					DocumentID: "doc-1",
					Content:    "sample chunk content",
					Metadata: domain.ChunkMetadata{
						Source: "sample.txt",
						Phase:  "solicitation",
					},
				},
				Score: 0.25,
			},
		},
	}
	documentRegistry = &mockRegistry{}

	return func() {
		ingestService = oldIngest
		retrieverService = oldRetriever
		documentRegistry = oldRegistry
	}
}

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	results []domain.SearchResult
	err     error

	lastOpts    domain.RetrieveOptions
	lastFilter  domain.TableFilter
	tableCalled bool
}

func (m *mockRetriever) Search(_ context.Context, _ string, _ domain.SearchOptions) ([]domain.SearchResult, error) {
	return m.results, m.err
}

func (m *mockRetriever) Retrieve(_ context.Context, _ string, opts domain.RetrieveOptions) ([]domain.SearchResult, error) {
	m.lastOpts = opts
	return m.results, m.err
}

func (m *mockRetriever) RetrieveTable(_ context.Context, _ string, filter domain.TableFilter, opts domain.RetrieveOptions) ([]domain.SearchResult, error) {
	m.lastFilter = filter
	m.lastOpts = opts
	m.tableCalled = true
	return m.results, m.err
}

// mockIngestor is a mock implementation of driving.Ingestor.
type mockIngestor struct {
	result       *domain.IngestResult
	deleteResult *domain.DeleteResult
	stats        *domain.StoreStats
	err          error
}

func (m *mockIngestor) ProcessFile(_ context.Context, _ string, _ driving.IngestScope) (*domain.IngestResult, error) {
	return m.result, m.err
}

func (m *mockIngestor) ProcessDirectory(_ context.Context, _ string, _ driving.IngestScope) ([]domain.IngestResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []domain.IngestResult{*m.result}, nil
}

func (m *mockIngestor) ProcessText(_ context.Context, _, _ string, _ driving.IngestScope) (*domain.IngestResult, error) {
	return m.result, m.err
}

func (m *mockIngestor) ProcessTable(_ context.Context, _ string, _ domain.Table, _ driving.IngestScope) (*domain.IngestResult, error) {
	return m.result, m.err
}

func (m *mockIngestor) DeleteBySource(_ context.Context, _ string) (*domain.DeleteResult, error) {
	return m.deleteResult, m.err
}

func (m *mockIngestor) DeleteDocument(_ context.Context, _ string) (*domain.DeleteResult, error) {
	return m.deleteResult, m.err
}

func (m *mockIngestor) Stats(_ context.Context) (*domain.StoreStats, error) {
	return m.stats, m.err
}

// mockRegistry is a mock implementation of driven.DocumentRegistry.
type mockRegistry struct {
	records []domain.DocumentRecord
	err     error
}

func (m *mockRegistry) Save(_ context.Context, _ domain.DocumentRecord) error { return m.err }

func (m *mockRegistry) Get(_ context.Context, _ string) (*domain.DocumentRecord, error) {
	return nil, errors.New("not implemented")
}

func (m *mockRegistry) List(_ context.Context) ([]domain.DocumentRecord, error) {
	return m.records, m.err
}

func (m *mockRegistry) Delete(_ context.Context, _ string) error { return m.err }

func (m *mockRegistry) Count(_ context.Context) (int, error) { return len(m.records), m.err }

func (m *mockRegistry) Close() error { return nil }
