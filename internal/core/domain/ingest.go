package domain

import "time"

// IngestResult reports the outcome of ingesting one document.
// The DocumentID is the handle callers must keep for exact deletion.
type IngestResult struct {
	// DocumentID is the ingestion-assigned document identifier.
	DocumentID string `json:"document_id"`

	// Source is the origin document identifier.
	Source string `json:"source"`

	// ChunkIDs lists the identifiers of the chunks produced, in order.
	ChunkIDs []string `json:"chunk_ids"`
}

// DeleteResult reports the outcome of a deletion.
// Zero matches is a structured failure, not an error, because it usually
// indicates a benign caller mistake (wrong identifier).
type DeleteResult struct {
	// Success is false when no chunks matched the identifier.
	Success bool `json:"success"`

	// RemovedCount is the number of chunks removed.
	RemovedCount int `json:"removed_count"`

	// RemainingCount is the number of chunks left in the store.
	RemainingCount int `json:"remaining_count"`
}

// DocumentRecord is a ledger entry for an ingested document.
// The registry keeps one record per ingestion so document identity is an
// explicit foreign key rather than inferred from path substrings.
type DocumentRecord struct {
	// ID is the document identifier stamped into every chunk.
	ID string

	// Source is the origin document identifier.
	Source string

	// FileType is the origin file type.
	FileType string

	// ProjectID and Phase are the scope tags applied at ingestion.
	ProjectID string
	Phase     string

	// ChunkCount is the number of chunks produced.
	ChunkCount int

	// IngestedAt is when the document was ingested.
	IngestedAt time.Time
}
