package domain

// SearchOptions configures a similarity search against the vector store.
type SearchOptions struct {
	// K is the maximum number of results (default 5).
	K int

	// ScoreThreshold drops results whose score exceeds it.
	// Scores are squared Euclidean distances, so lower is more similar.
	// Nil disables threshold filtering.
	ScoreThreshold *float64
}

// RetrieveOptions configures scope-filtered retrieval.
type RetrieveOptions struct {
	// K is the maximum number of results (default 5).
	K int

	// ProjectID restricts results to a single project. Chunks tagged with
	// a different project are dropped entirely, never used as fallback.
	ProjectID string

	// Phase prefers chunks tagged with this phase. Exact matches are
	// returned first; other chunks only pad the result when exact matches
	// are fewer than K.
	Phase string
}

// TableFilter restricts table-aware retrieval to particular sheets/columns.
type TableFilter struct {
	// SheetName restricts results to chunks from this sheet or table.
	SheetName string

	// Columns restricts results to chunks whose column metadata
	// intersects this list.
	Columns []string
}

// SearchResult is a single ranked retrieval hit.
type SearchResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the squared Euclidean distance between the query and the
	// chunk embedding. Lower is more similar.
	Score float64
}

// StoreStats summarises the state of a vector store.
type StoreStats struct {
	// TotalChunks is the number of indexed chunks.
	TotalChunks int `json:"total_chunks"`

	// EmbeddingDimension is the fixed vector dimension of the index.
	EmbeddingDimension int `json:"embedding_dimension"`

	// TotalDocuments is the number of documents in the registry ledger.
	TotalDocuments int `json:"total_documents"`
}
