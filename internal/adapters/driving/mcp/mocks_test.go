package mcp

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
)

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	results  []domain.SearchResult
	err      error
	lastOpts domain.RetrieveOptions
	lastTF   domain.TableFilter
}

func (m *mockRetriever) Search(
	_ context.Context,
	_ string,
	_ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return m.results, m.err
}

func (m *mockRetriever) Retrieve(
	_ context.Context,
	_ string,
	opts domain.RetrieveOptions,
) ([]domain.SearchResult, error) {
	m.lastOpts = opts
	return m.results, m.err
}

func (m *mockRetriever) RetrieveTable(
	_ context.Context,
	_ string,
	filter domain.TableFilter,
	opts domain.RetrieveOptions,
) ([]domain.SearchResult, error) {
	m.lastTF = filter
	m.lastOpts = opts
	return m.results, m.err
}

// mockIngestor is a mock implementation of driving.Ingestor.
type mockIngestor struct {
	stats *domain.StoreStats
	err   error
}

func (m *mockIngestor) ProcessFile(_ context.Context, _ string, _ driving.IngestScope) (*domain.IngestResult, error) {
	return nil, m.err
}

func (m *mockIngestor) ProcessDirectory(_ context.Context, _ string, _ driving.IngestScope) ([]domain.IngestResult, error) {
	return nil, m.err
}

func (m *mockIngestor) ProcessText(_ context.Context, _, _ string, _ driving.IngestScope) (*domain.IngestResult, error) {
	return nil, m.err
}

func (m *mockIngestor) ProcessTable(_ context.Context, _ string, _ domain.Table, _ driving.IngestScope) (*domain.IngestResult, error) {
	return nil, m.err
}

func (m *mockIngestor) DeleteBySource(_ context.Context, _ string) (*domain.DeleteResult, error) {
	return nil, m.err
}

func (m *mockIngestor) DeleteDocument(_ context.Context, _ string) (*domain.DeleteResult, error) {
	return nil, m.err
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
	return nil, m.err
}

func (m *mockRegistry) List(_ context.Context) ([]domain.DocumentRecord, error) {
	return m.records, m.err
}

func (m *mockRegistry) Delete(_ context.Context, _ string) error { return m.err }

func (m *mockRegistry) Count(_ context.Context) (int, error) {
	return len(m.records), m.err
}

func (m *mockRegistry) Close() error { return nil }
