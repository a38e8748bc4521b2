package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieveCmd_Use(t *testing.T) {
	assert.Equal(t, "retrieve [query]", retrieveCmd.Use)
	assert.NotNil(t, retrieveCmd.RunE)
}

func TestRetrieveCmd_Flags(t *testing.T) {
	for _, name := range []string{"limit", "project", "phase", "sheet", "columns", "json"} {
		assert.NotNil(t, retrieveCmd.Flags().Lookup(name), "missing flag %s", name)
	}
	assert.Equal(t, "5", retrieveCmd.Flags().Lookup("limit").DefValue)
}

func TestRetrieveCmd_Execute(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { retrieveProject, retrievePhase = "", "" }()

	mock := retrieverService.(*mockRetriever)

	out, err := executeCommand("retrieve", "budget summary", "--project", "proj-1", "--phase", "solicitation")
	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "sample.txt")
	assert.Equal(t, "proj-1", mock.lastOpts.ProjectID)
	assert.Equal(t, "solicitation", mock.lastOpts.Phase)
	assert.False(t, mock.tableCalled)
}

func TestRetrieveCmd_TableRoute(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { retrieveSheet, retrieveColumns = "", nil }()

	mock := &mockRetriever{}
	retrieverService = mock

	out, err := executeCommand("retrieve", "weekly costs", "--sheet", "budget")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
	assert.True(t, mock.tableCalled)
	assert.Equal(t, "budget", mock.lastFilter.SheetName)
}

func TestRetrieveCmd_NotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	retrieverService = nil

	err := runRetrieve(retrieveCmd, []string{"query"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retriever not configured")
}
