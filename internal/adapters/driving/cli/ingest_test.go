package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [path]", ingestCmd.Use)
	assert.NotNil(t, ingestCmd.RunE)
}

func TestIngestCmd_Flags(t *testing.T) {
	for _, name := range []string{"project", "phase", "purpose", "uploaded-by", "text"} {
		assert.NotNil(t, ingestCmd.Flags().Lookup(name), "missing flag %s", name)
	}
}

func TestIngestCmd_File(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	out, err := executeCommand("ingest", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Ingested sample.txt: 2 chunks")
	assert.Contains(t, out, "doc-1")
}

func TestIngestCmd_Directory(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	out, err := executeCommand("ingest", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Ingested 1 documents (2 chunks)")
}

func TestIngestCmd_Text(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { ingestAsText = false }()

	rootCmd.SetIn(strings.NewReader("some extracted text"))
	out, err := executeCommand("ingest", "pasted-notes", "--text")
	require.NoError(t, err)
	assert.Contains(t, out, "Ingested sample.txt: 2 chunks")
}

func TestIngestCmd_MissingPath(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("ingest", filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stat")
}

func TestIngestCmd_NotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	ingestService = nil

	err := runIngest(ingestCmd, []string{"anything"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured")
}
