package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
	"github.com/quarry-labs/quarry-cli/internal/extract"
	"github.com/quarry-labs/quarry-cli/internal/logger"
	"github.com/quarry-labs/quarry-cli/internal/postprocessors/chunker"
	"github.com/quarry-labs/quarry-cli/internal/vectorstore"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// textExtensions are the file types ingested as already-extracted text.
var textExtensions = map[string]bool{
	".txt":  true,
	".text": true,
	".log":  true,
}

// IngestService submits documents to the retrieval engine: chunk, embed,
// index, persist, and record in the document ledger.
type IngestService struct {
	store      *vectorstore.Store
	registry   driven.DocumentRegistry
	chunker    *chunker.Processor
	extractors *extract.Registry
}

// NewIngestService creates a new ingest service.
// The registry is optional (can be nil); without it the document ledger
// and exact-ID deletion are disabled.
func NewIngestService(store *vectorstore.Store, registry driven.DocumentRegistry, chunkProc *chunker.Processor) *IngestService {
	if chunkProc == nil {
		chunkProc = chunker.New()
	}
	return &IngestService{
		store:      store,
		registry:   registry,
		chunker:    chunkProc,
		extractors: extract.Defaults(),
	}
}

// ProcessFile ingests a single file. CSV files are parsed into a table
// and chunked tabularly; rich formats (markdown, HTML, DOCX, EML) are
// reduced to plain text first; plain text files are chunked as-is.
func (s *IngestService) ProcessFile(ctx context.Context, path string, scope driving.IngestScope) (*domain.IngestResult, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".csv" {
		table, err := readCSVTable(path)
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", path, err)
		}
		return s.ingestTable(ctx, sourceMeta(path, ext), table, scope)
	}

	if extractor, ok := s.extractors.ForExtension(ext); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file %s: %w", path, err)
		}
		text, err := extractor.Extract(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", path, err)
		}
		return s.ingestText(ctx, sourceMeta(path, ext), text, scope)
	}

	if textExtensions[ext] {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file %s: %w", path, err)
		}
		return s.ingestText(ctx, sourceMeta(path, ext), string(data), scope)
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, ext)
}

// ProcessDirectory ingests every supported file under dir. Unreadable or
// unsupported files are logged and skipped; they never abort the batch.
func (s *IngestService) ProcessDirectory(ctx context.Context, dir string, scope driving.IngestScope) ([]domain.IngestResult, error) {
	logger.Section("Directory Ingestion")
	logger.Info("Walking %s", dir)

	var results []domain.IngestResult
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			logger.Warn("Skipping %s: %v", path, walkErr)
			return nil
		}
		if entry.IsDir() {
			return nil
		}

		res, err := s.ProcessFile(ctx, path, scope)
		if err != nil {
			if errors.Is(err, domain.ErrUnsupportedType) {
				logger.Debug("Skipping %s: unsupported type", path)
			} else {
				logger.Warn("Failed to ingest %s: %v", path, err)
			}
			return nil
		}
		results = append(results, *res)
		return nil
	})
	if err != nil {
		return results, fmt.Errorf("walk %s: %w", dir, err)
	}

	logger.Info("Directory ingestion complete: %d documents", len(results))
	return results, nil
}

// ProcessText ingests already-extracted text under the given source
// identifier.
func (s *IngestService) ProcessText(ctx context.Context, source, text string, scope driving.IngestScope) (*domain.IngestResult, error) {
	meta := sourceMeta(source, filepath.Ext(source))
	meta.FilePath = ""
	return s.ingestText(ctx, meta, text, scope)
}

// ProcessTable ingests an extracted tabular dataset.
func (s *IngestService) ProcessTable(ctx context.Context, source string, table domain.Table, scope driving.IngestScope) (*domain.IngestResult, error) {
	meta := sourceMeta(source, filepath.Ext(source))
	meta.FilePath = ""
	return s.ingestTable(ctx, meta, table, scope)
}

// DeleteBySource removes every chunk whose source matches the identifier.
func (s *IngestService) DeleteBySource(ctx context.Context, identifier string) (*domain.DeleteResult, error) {
	res, err := s.store.DeleteBySource(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if res.Success && s.registry != nil {
		s.pruneRegistry(ctx, identifier)
	}
	return res, nil
}

// DeleteDocument removes a document by its exact ingestion-assigned ID.
func (s *IngestService) DeleteDocument(ctx context.Context, documentID string) (*domain.DeleteResult, error) {
	res, err := s.store.DeleteByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if res.Success && s.registry != nil {
		if err := s.registry.Delete(ctx, documentID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Failed to remove ledger record %s: %v", documentID, err)
		}
	}
	return res, nil
}

// Stats reports the current engine state.
func (s *IngestService) Stats(ctx context.Context) (*domain.StoreStats, error) {
	stats := s.store.Stats()
	if s.registry != nil {
		count, err := s.registry.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count documents: %w", err)
		}
		stats.TotalDocuments = count
	}
	return &stats, nil
}

// ingestText chunks text and commits the resulting chunks.
func (s *IngestService) ingestText(ctx context.Context, meta domain.ChunkMetadata, text string, scope driving.IngestScope) (*domain.IngestResult, error) {
	docID := uuid.New().String()
	pieces := s.chunker.ChunkText(text)

	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, content := range pieces {
		m := meta
		m.ChunkIndex = i
		m.ContentType = domain.ContentTypeText
		chunks = append(chunks, newChunk(docID, i, content, m, scope))
	}

	return s.commit(ctx, docID, meta, chunks)
}

// ingestTable chunks a table and commits the resulting chunks.
func (s *IngestService) ingestTable(ctx context.Context, meta domain.ChunkMetadata, table domain.Table, scope driving.IngestScope) (*domain.IngestResult, error) {
	docID := uuid.New().String()
	pieces := s.chunker.ChunkTable(table)

	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, tc := range pieces {
		m := meta
		m.ChunkIndex = i
		m.ContentType = domain.ContentTypeTable
		m.SheetName = table.Name
		m.Columns = table.Columns
		if tc.Grouped {
			rowStart, rowEnd := tc.RowStart, tc.RowEnd
			m.RowStart = &rowStart
			m.RowEnd = &rowEnd
		}
		chunks = append(chunks, newChunk(docID, i, tc.Content, m, scope))
	}

	return s.commit(ctx, docID, meta, chunks)
}

// commit appends chunks to the store, persists, and records the document
// in the ledger.
func (s *IngestService) commit(ctx context.Context, docID string, meta domain.ChunkMetadata, chunks []domain.Chunk) (*domain.IngestResult, error) {
	result := &domain.IngestResult{
		DocumentID: docID,
		Source:     meta.Source,
	}

	if len(chunks) == 0 {
		logger.Info("No chunks produced for %s", meta.Source)
		return result, nil
	}

	if err := s.store.AddDocuments(ctx, chunks); err != nil {
		return nil, fmt.Errorf("add documents: %w", err)
	}
	if s.store.Persistent() {
		if err := s.store.Save(); err != nil {
			return nil, fmt.Errorf("persist store: %w", err)
		}
	}

	for i := range chunks {
		result.ChunkIDs = append(result.ChunkIDs, chunks[i].ID)
	}

	if s.registry != nil {
		record := domain.DocumentRecord{
			ID:         docID,
			Source:     meta.Source,
			FileType:   meta.FileType,
			ProjectID:  chunks[0].Metadata.ProjectID,
			Phase:      chunks[0].Metadata.Phase,
			ChunkCount: len(chunks),
			IngestedAt: time.Now().UTC(),
		}
		if err := s.registry.Save(ctx, record); err != nil {
			logger.Warn("Failed to record document %s in ledger: %v", docID, err)
		}
	}

	logger.Info("Ingested %s: %d chunks (document %s)", meta.Source, len(chunks), docID)
	return result, nil
}

// pruneRegistry drops ledger records whose source matches the identifier,
// mirroring the store's suffix matching rule.
func (s *IngestService) pruneRegistry(ctx context.Context, identifier string) {
	records, err := s.registry.List(ctx)
	if err != nil {
		logger.Warn("Failed to list ledger records: %v", err)
		return
	}
	for _, rec := range records {
		m := domain.ChunkMetadata{Source: rec.Source}
		if !m.MatchesSource(identifier) {
			continue
		}
		if err := s.registry.Delete(ctx, rec.ID); err != nil {
			logger.Warn("Failed to remove ledger record %s: %v", rec.ID, err)
		}
	}
}

// newChunk builds one chunk with scope tags applied.
func newChunk(docID string, position int, content string, meta domain.ChunkMetadata, scope driving.IngestScope) domain.Chunk {
	meta.DocumentID = docID
	meta.ProjectID = scope.ProjectID
	meta.Phase = scope.Phase
	meta.Purpose = scope.Purpose
	meta.UploadedBy = scope.UploadedBy
	if meta.UploadedAt.IsZero() {
		meta.UploadedAt = time.Now().UTC()
	}

	return domain.Chunk{
		ID:         uuid.New().String(),
		DocumentID: docID,
		Content:    content,
		Position:   position,
		Metadata:   meta,
	}
}

// sourceMeta seeds chunk metadata from a source path.
func sourceMeta(path, ext string) domain.ChunkMetadata {
	return domain.ChunkMetadata{
		Source:           path,
		FilePath:         path,
		OriginalFilename: filepath.Base(path),
		FileType:         strings.TrimPrefix(strings.ToLower(ext), "."),
	}
}

// readCSVTable parses a CSV file into a Table. The first record is the
// column header.
func readCSVTable(path string) (domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Table{}, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged extractions

	records, err := reader.ReadAll()
	if err != nil {
		return domain.Table{}, err
	}
	if len(records) == 0 {
		return domain.Table{}, nil
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return domain.Table{
		Name:    name,
		Columns: records[0],
		Rows:    records[1:],
	}, nil
}
