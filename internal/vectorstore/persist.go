package vectorstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// Persisted artifact suffixes. The two artifacts share a base path and are
// only ever written and read together; their positional alignment is the
// store's core invariant.
const (
	indexSuffix   = ".index"
	sidecarSuffix = ".chunks.json"
)

// sidecar is the serialised chunk store, positionally aligned with the
// index artifact by insertion order.
type sidecar struct {
	Chunks        []domain.Chunk         `json:"chunks"`
	MetadataCache []domain.ChunkMetadata `json:"metadata_cache"`
}

// Save persists the vector index and chunk sidecar as a unit.
//
// Both artifacts are written to temporary files and renamed into place, so
// a crash mid-save never leaves a partially written artifact behind. Save
// is idempotent: with no intervening mutation it produces byte-identical
// artifacts.
func (s *Store) Save() error {
	if s.basePath == "" {
		return errors.New("vectorstore: persistence disabled (no base path)")
	}

	s.mu.RLock()
	if len(s.chunks) != s.index.Len() || len(s.chunks) != len(s.metaCache) {
		s.mu.RUnlock()
		return fmt.Errorf("%w: %d chunks, %d vectors, %d cached metadata",
			domain.ErrCorruptState, len(s.chunks), s.index.Len(), len(s.metaCache))
	}

	var indexBuf bytes.Buffer
	if _, err := s.index.WriteTo(&indexBuf); err != nil {
		s.mu.RUnlock()
		return fmt.Errorf("serialise index: %w", err)
	}

	sidecarBytes, err := json.Marshal(sidecar{
		Chunks:        s.chunks,
		MetadataCache: s.metaCache,
	})
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("serialise chunk sidecar: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.basePath), 0o700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := writeFileAtomic(s.basePath+indexSuffix, indexBuf.Bytes()); err != nil {
		return fmt.Errorf("write index artifact: %w", err)
	}
	if err := writeFileAtomic(s.basePath+sidecarSuffix, sidecarBytes); err != nil {
		return fmt.Errorf("write chunk sidecar: %w", err)
	}

	logger.Debug("Saved store: %d chunks to %s{%s,%s}", s.Len(), s.basePath, indexSuffix, sidecarSuffix)
	return nil
}

// Load restores the vector index and chunk sidecar as a unit.
//
// Returns false (not an error) when no persisted state exists. Finding
// only one of the two artifacts, or artifacts whose lengths disagree, is a
// consistency error: the store refuses to become usable rather than serve
// misaligned results.
func (s *Store) Load() (bool, error) {
	if s.basePath == "" {
		return false, nil
	}

	indexPath := s.basePath + indexSuffix
	sidecarPath := s.basePath + sidecarSuffix

	indexExists := fileExists(indexPath)
	sidecarExists := fileExists(sidecarPath)

	if !indexExists && !sidecarExists {
		return false, nil
	}
	if indexExists != sidecarExists {
		return false, fmt.Errorf("%w: found %s=%t %s=%t; the artifacts must exist together",
			domain.ErrCorruptState, indexSuffix, indexExists, sidecarSuffix, sidecarExists)
	}

	newIndex := s.newIndex(s.embedder.Dimensions())
	indexFile, err := os.Open(indexPath)
	if err != nil {
		return false, fmt.Errorf("open index artifact: %w", err)
	}
	defer indexFile.Close()
	if _, err := newIndex.ReadFrom(indexFile); err != nil {
		return false, fmt.Errorf("%w: restore index: %v", domain.ErrCorruptState, err)
	}

	sidecarBytes, err := os.ReadFile(sidecarPath)
	if err != nil {
		return false, fmt.Errorf("read chunk sidecar: %w", err)
	}
	var sc sidecar
	if err := json.Unmarshal(sidecarBytes, &sc); err != nil {
		return false, fmt.Errorf("%w: decode chunk sidecar: %v", domain.ErrCorruptState, err)
	}

	if len(sc.Chunks) != newIndex.Len() || len(sc.Chunks) != len(sc.MetadataCache) {
		return false, fmt.Errorf("%w: sidecar holds %d chunks and %d cached metadata, index holds %d vectors",
			domain.ErrCorruptState, len(sc.Chunks), len(sc.MetadataCache), newIndex.Len())
	}

	ids := make(map[string]struct{}, len(sc.Chunks))
	for i := range sc.Chunks {
		id := sc.Chunks[i].ID
		if id == "" {
			return false, fmt.Errorf("%w: chunk %d has no ID", domain.ErrCorruptState, i)
		}
		if _, dup := ids[id]; dup {
			return false, fmt.Errorf("%w: duplicate chunk ID %q", domain.ErrCorruptState, id)
		}
		ids[id] = struct{}{}
	}

	s.mu.Lock()
	s.index = newIndex
	s.chunks = sc.Chunks
	s.metaCache = sc.MetadataCache
	s.chunkIDs = ids
	s.mu.Unlock()

	logger.Info("Loaded store: %d chunks from %s", len(sc.Chunks), s.basePath)
	return true, nil
}

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
