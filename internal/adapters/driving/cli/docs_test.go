package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

func TestDocsCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("docs")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents ingested.")
}

func TestDocsCmd_List(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	documentRegistry = &mockRegistry{
		records: []domain.DocumentRecord{
			{
				ID:         "doc-1",
				Source:     "specs/sow.md",
				ProjectID:  "proj-1",
				Phase:      "solicitation",
				ChunkCount: 4,
				IngestedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			},
		},
	}

	out, err := executeCommand("docs")
	require.NoError(t, err)
	assert.Contains(t, out, "doc-1")
	assert.Contains(t, out, "specs/sow.md")
	assert.Contains(t, out, "chunks: 4")
	assert.Contains(t, out, "project: proj-1")
	assert.Contains(t, out, "phase: solicitation")
	assert.Contains(t, out, "2026-03-14 09:30")
}

func TestDocsCmd_NotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	documentRegistry = nil

	err := runDocs(docsCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document registry not configured")
}
