package driven

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// DocumentRegistry is the ledger of ingested documents.
// It gives every ingestion an explicit document ID so deletion can be exact
// instead of inferred from path substrings.
type DocumentRegistry interface {
	// Save stores or updates a document record.
	Save(ctx context.Context, record domain.DocumentRecord) error

	// Get retrieves a record by document ID.
	// Returns domain.ErrNotFound if the record does not exist.
	Get(ctx context.Context, id string) (*domain.DocumentRecord, error)

	// List returns all records in ingestion order.
	List(ctx context.Context) ([]domain.DocumentRecord, error)

	// Delete removes a record by document ID.
	Delete(ctx context.Context, id string) error

	// Count returns the number of records.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
