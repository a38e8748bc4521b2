package driving

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// IngestScope carries the scope tags applied to every chunk of an ingestion.
type IngestScope struct {
	// ProjectID scopes the document to a project.
	ProjectID string

	// Phase scopes the document to a workflow phase.
	Phase string

	// Purpose is a free-form tag describing why the document was ingested.
	Purpose string

	// UploadedBy identifies who submitted the document.
	UploadedBy string
}

// Ingestor submits documents to the retrieval engine.
type Ingestor interface {
	// ProcessFile ingests a single file. CSV files are parsed into a
	// table and chunked tabularly; rich formats are reduced to plain
	// text first; text files are chunked as-is.
	ProcessFile(ctx context.Context, path string, scope IngestScope) (*domain.IngestResult, error)

	// ProcessDirectory ingests every supported file under dir. Unreadable
	// or unsupported files are logged and skipped, never abort the batch.
	ProcessDirectory(ctx context.Context, dir string, scope IngestScope) ([]domain.IngestResult, error)

	// ProcessText ingests already-extracted text under the given source
	// identifier.
	ProcessText(ctx context.Context, source, text string, scope IngestScope) (*domain.IngestResult, error)

	// ProcessTable ingests an extracted tabular dataset.
	ProcessTable(ctx context.Context, source string, table domain.Table, scope IngestScope) (*domain.IngestResult, error)

	// DeleteBySource removes every chunk whose source matches the
	// identifier and rebuilds the index. Zero matches is a structured
	// failure, not an error.
	DeleteBySource(ctx context.Context, identifier string) (*domain.DeleteResult, error)

	// DeleteDocument removes a document by its exact ingestion-assigned ID.
	DeleteDocument(ctx context.Context, documentID string) (*domain.DeleteResult, error)

	// Stats reports the current engine state.
	Stats(ctx context.Context) (*domain.StoreStats, error)
}
