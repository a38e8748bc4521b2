package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

func TestDeleteCmd_Use(t *testing.T) {
	assert.Equal(t, "delete [source]", deleteCmd.Use)
	assert.NotNil(t, deleteCmd.Flags().Lookup("id"))
}

func TestDeleteCmd_BySource(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("delete", "notes.md")
	require.NoError(t, err)
	assert.Contains(t, out, `Removed 2 chunks for "notes.md" (3 remaining).`)
}

func TestDeleteCmd_ByID(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { deleteByID = false }()

	out, err := executeCommand("delete", "doc-1", "--id")
	require.NoError(t, err)
	assert.Contains(t, out, `Removed 2 chunks for "doc-1"`)
}

func TestDeleteCmd_NoMatch(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	ingestService.(*mockIngestor).deleteResult = &domain.DeleteResult{Success: false}

	out, err := executeCommand("delete", "ghost.txt")
	require.NoError(t, err)
	assert.Contains(t, out, `No chunks matched "ghost.txt".`)
}

func TestDeleteCmd_NotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	ingestService = nil

	err := runDelete(deleteCmd, []string{"notes.md"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured")
}
