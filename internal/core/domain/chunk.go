package domain

import (
	"strings"
	"time"
)

// ContentType classifies what a chunk holds.
type ContentType string

const (
	// ContentTypeText is plain narrative text.
	ContentTypeText ContentType = "text"

	// ContentTypeTable is a formatted tabular rendering.
	ContentTypeTable ContentType = "table"
)

// ChunkMetadata carries provenance and scope tags for a chunk.
// The required core (Source, FileType, ContentType, ChunkIndex) is always
// populated by the chunker; the remaining fields are optional.
type ChunkMetadata struct {
	// Source is the origin document identifier (usually a file path or name).
	Source string `json:"source"`

	// FilePath is the full path of the origin file, when known.
	FilePath string `json:"file_path,omitempty"`

	// OriginalFilename is the caller-supplied name of the origin file.
	OriginalFilename string `json:"original_filename,omitempty"`

	// FileType is the origin file type (e.g. "txt", "md", "csv").
	FileType string `json:"file_type"`

	// ChunkIndex is the ordinal position of this chunk within its document.
	ChunkIndex int `json:"chunk_index"`

	// ContentType is "text" or "table".
	ContentType ContentType `json:"content_type"`

	// DocumentID is the ingestion-assigned document identifier.
	// It is stamped into every chunk so deletion can be exact.
	DocumentID string `json:"document_id,omitempty"`

	// SheetName is the originating sheet or table name (tabular chunks).
	SheetName string `json:"sheet_name,omitempty"`

	// Columns is the column header list (tabular chunks).
	Columns []string `json:"columns,omitempty"`

	// RowStart and RowEnd delimit the inclusive row range of a row-group
	// chunk. Nil for whole-table and text chunks.
	RowStart *int `json:"row_start,omitempty"`
	RowEnd   *int `json:"row_end,omitempty"`

	// ProjectID scopes the chunk to a project. Retrieval never crosses
	// project boundaries.
	ProjectID string `json:"project_id,omitempty"`

	// Phase scopes the chunk to a workflow phase (e.g. "solicitation").
	Phase string `json:"phase,omitempty"`

	// Purpose is a free-form tag describing why the document was ingested.
	Purpose string `json:"purpose,omitempty"`

	// UploadedBy identifies who submitted the document.
	UploadedBy string `json:"uploaded_by,omitempty"`

	// UploadedAt is when the document was submitted.
	UploadedAt time.Time `json:"upload_timestamp,omitempty"`

	// Extra holds ad hoc scope tags that have no typed field.
	Extra map[string]string `json:"extra,omitempty"`
}

// MatchesSource reports whether this chunk belongs to the given source
// identifier. A chunk matches when its Source, FilePath or OriginalFilename
// equals, or ends with, the identifier. Matching is case-sensitive.
func (m ChunkMetadata) MatchesSource(identifier string) bool {
	if identifier == "" {
		return false
	}
	for _, candidate := range []string{m.Source, m.FilePath, m.OriginalFilename} {
		if candidate == "" {
			continue
		}
		if candidate == identifier || strings.HasSuffix(candidate, identifier) {
			return true
		}
	}
	return false
}

// Chunk represents a retrievable unit of content.
// Chunks are positionally aligned with their embedding vectors in the
// vector index; the alignment is the store's core invariant.
type Chunk struct {
	// ID is the globally unique identifier for the chunk.
	ID string `json:"chunk_id"`

	// DocumentID links to the ingested document that produced this chunk.
	DocumentID string `json:"document_id"`

	// Content is the non-empty text content of this chunk.
	Content string `json:"content"`

	// Position is the ordinal position within the document.
	Position int `json:"position"`

	// Metadata carries provenance and scope tags.
	Metadata ChunkMetadata `json:"metadata"`
}
