package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query     string `json:"query" jsonschema:"the search query"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	ProjectID string `json:"project_id,omitempty" jsonschema:"restrict results to this project; chunks from other projects are excluded"`
	Phase     string `json:"phase,omitempty" jsonschema:"prefer chunks from this workflow phase; other phases fill remaining slots"`
}

// RetrieveTableInput is the input schema for the retrieve_table tool.
type RetrieveTableInput struct {
	Query     string   `json:"query" jsonschema:"the search query"`
	Limit     int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	SheetName string   `json:"sheet_name,omitempty" jsonschema:"restrict results to this sheet or table name"`
	Columns   []string `json:"columns,omitempty" jsonschema:"restrict results to tables containing all of these columns"`
	ProjectID string   `json:"project_id,omitempty" jsonschema:"restrict results to this project"`
}

// SearchOutput is the output schema for the query tools.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Source     string  `json:"source"`
	Score      float64 `json:"score"`
	Phase      string  `json:"phase,omitempty"`
	ProjectID  string  `json:"project_id,omitempty"`
	SheetName  string  `json:"sheet_name,omitempty"`
	Content    string  `json:"content"`
}

// StatsInput is the (empty) input schema for the stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the stats tool.
type StatsOutput struct {
	TotalChunks        int `json:"total_chunks"`
	TotalDocuments     int `json:"total_documents"`
	EmbeddingDimension int `json:"embedding_dimension"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search across all indexed chunks by similarity",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Search with project scoping and phase preference",
	}, s.handleRetrieve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve_table",
		Description: "Search tabular chunks, optionally narrowed by sheet or columns",
	}, s.handleRetrieveTable)

	if s.ports.Ingestor != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "stats",
			Description: "Report the number of indexed chunks and documents",
		}, s.handleStats)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	results, err := s.ports.Retriever.Search(ctx, input.Query, domain.SearchOptions{K: input.Limit})
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, toSearchOutput(results), nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.RetrieveOptions{
		K:         input.Limit,
		ProjectID: input.ProjectID,
		Phase:     input.Phase,
	}
	results, err := s.ports.Retriever.Retrieve(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, toSearchOutput(results), nil
}

// handleRetrieveTable handles the retrieve_table tool invocation.
func (s *Server) handleRetrieveTable(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveTableInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	filter := domain.TableFilter{
		SheetName: input.SheetName,
		Columns:   input.Columns,
	}
	opts := domain.RetrieveOptions{
		K:         input.Limit,
		ProjectID: input.ProjectID,
	}
	results, err := s.ports.Retriever.RetrieveTable(ctx, input.Query, filter, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, toSearchOutput(results), nil
}

// handleStats handles the stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	if s.ports.Ingestor == nil {
		return nil, StatsOutput{}, errors.New("stats unavailable")
	}
	stats, err := s.ports.Ingestor.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}
	return nil, StatsOutput{
		TotalChunks:        stats.TotalChunks,
		TotalDocuments:     stats.TotalDocuments,
		EmbeddingDimension: stats.EmbeddingDimension,
	}, nil
}

// toSearchOutput maps domain results to the wire schema.
func toSearchOutput(results []domain.SearchResult) SearchOutput {
	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		meta := results[i].Chunk.Metadata
		output.Results[i] = SearchResultOutput{
			ChunkID:    results[i].Chunk.ID,
			DocumentID: results[i].Chunk.DocumentID,
			Source:     meta.Source,
			Score:      results[i].Score,
			Phase:      meta.Phase,
			ProjectID:  meta.ProjectID,
			SheetName:  meta.SheetName,
			Content:    results[i].Chunk.Content,
		}
	}
	return output
}
