package mcp

import (
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retriever serves search and retrieval queries.
	Retriever driving.Retriever

	// Ingestor reports engine statistics.
	Ingestor driving.Ingestor

	// Registry lists the document ledger. Optional; without it the
	// documents resource returns an empty list.
	Registry driven.DocumentRegistry
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	// Ingestor and Registry are optional
	return nil
}
