package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

func sampleResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			Chunk: domain.Chunk{
				ID:         "chunk-1",
				DocumentID: "doc-1",
				Content:    "This is the content",
				Metadata: domain.ChunkMetadata{
					Source:    "report.txt",
					ProjectID: "proj-1",
					Phase:     "solicitation",
				},
			},
			Score: 0.12,
		},
	}
}

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		retriever := &mockRetriever{results: sampleResults()}
		server, err := NewServer(&Ports{Retriever: retriever})
		require.NoError(t, err)

		input := SearchInput{Query: "test", Limit: 10}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "chunk-1", output.Results[0].ChunkID)
		assert.Equal(t, "doc-1", output.Results[0].DocumentID)
		assert.Equal(t, "report.txt", output.Results[0].Source)
		assert.Equal(t, 0.12, output.Results[0].Score)
		assert.Equal(t, "This is the content", output.Results[0].Content)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		retriever := &mockRetriever{err: errors.New("search failed")}
		server, err := NewServer(&Ports{Retriever: retriever})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleRetrieve(t *testing.T) {
	ctx := context.Background()

	retriever := &mockRetriever{results: sampleResults()}
	server, err := NewServer(&Ports{Retriever: retriever})
	require.NoError(t, err)

	input := RetrieveInput{Query: "test", Limit: 3, ProjectID: "proj-1", Phase: "solicitation"}
	_, output, err := server.handleRetrieve(ctx, nil, input)

	require.NoError(t, err)
	assert.Equal(t, 1, output.Count)
	assert.Equal(t, "proj-1", output.Results[0].ProjectID)
	assert.Equal(t, "solicitation", output.Results[0].Phase)

	// Scope options pass through to the retriever.
	assert.Equal(t, 3, retriever.lastOpts.K)
	assert.Equal(t, "proj-1", retriever.lastOpts.ProjectID)
	assert.Equal(t, "solicitation", retriever.lastOpts.Phase)
}

func TestServer_handleRetrieveTable(t *testing.T) {
	ctx := context.Background()

	retriever := &mockRetriever{}
	server, err := NewServer(&Ports{Retriever: retriever})
	require.NoError(t, err)

	input := RetrieveTableInput{
		Query:     "roof cost",
		SheetName: "Budget",
		Columns:   []string{"item", "cost"},
	}
	_, output, err := server.handleRetrieveTable(ctx, nil, input)

	require.NoError(t, err)
	assert.Equal(t, 0, output.Count)
	assert.Equal(t, "Budget", retriever.lastTF.SheetName)
	assert.Equal(t, []string{"item", "cost"}, retriever.lastTF.Columns)
}

func TestServer_handleStats(t *testing.T) {
	ctx := context.Background()

	ingestor := &mockIngestor{stats: &domain.StoreStats{
		TotalChunks:        42,
		TotalDocuments:     7,
		EmbeddingDimension: 768,
	}}
	server, err := NewServer(&Ports{Retriever: &mockRetriever{}, Ingestor: ingestor})
	require.NoError(t, err)

	_, output, err := server.handleStats(ctx, nil, StatsInput{})
	require.NoError(t, err)
	assert.Equal(t, 42, output.TotalChunks)
	assert.Equal(t, 7, output.TotalDocuments)
	assert.Equal(t, 768, output.EmbeddingDimension)
}
