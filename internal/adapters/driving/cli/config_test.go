package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withTempDataDir points the CLI at a throwaway data directory.
func withTempDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prev := flagDataDir
	flagDataDir = dir
	t.Cleanup(func() { flagDataDir = prev })
	return dir
}

func TestConfigSetAndGet(t *testing.T) {
	withTempDataDir(t)

	out, err := executeCommand("config", "set", "embedding.provider", "ollama")
	require.NoError(t, err)
	assert.Contains(t, out, "Set embedding.provider")

	out, err = executeCommand("config", "get", "embedding.provider")
	require.NoError(t, err)
	assert.Contains(t, out, "ollama")
}

func TestConfigGet_Unset(t *testing.T) {
	withTempDataDir(t)

	out, err := executeCommand("config", "get", "embedding.model")
	require.NoError(t, err)
	assert.Contains(t, out, "embedding.model is not set")
}

func TestConfigPath(t *testing.T) {
	dir := withTempDataDir(t)

	out, err := executeCommand("config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "config.toml"))
}

func TestParseConfigValue(t *testing.T) {
	assert.Equal(t, 800, parseConfigValue("800"))
	assert.Equal(t, 2.5, parseConfigValue("2.5"))
	assert.Equal(t, true, parseConfigValue("true"))
	assert.Equal(t, "nomic-embed-text", parseConfigValue("nomic-embed-text"))
}
