package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	// Raised on chunk ID collisions, which are fatal to the add.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch indicates an embedding vector does not match
	// the index's fixed dimension. Never silently coerced.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrCorruptState indicates the persisted index and chunk sidecar
	// disagree (length mismatch, or one artifact missing). The store
	// refuses to become usable.
	ErrCorruptState = errors.New("persisted store state is corrupt")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingestion and similarity search are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrUnsupportedType indicates a file type the engine cannot ingest.
	ErrUnsupportedType = errors.New("unsupported type")
)
