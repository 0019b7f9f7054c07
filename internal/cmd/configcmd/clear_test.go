package configcmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/folio/internal/config"
)

func TestRunClear_WithExistingConfig(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg := &config.Config{
		URL:      "https://folio.example.com",
		APIToken: "test-token",
	}
	configPath := filepath.Join(tmpDir, "folio", "config.yml")
	require.NoError(t, cfg.Save(configPath))

	opts, out := testOptions()
	require.NoError(t, runClear(opts))

	_, err := os.Stat(configPath)
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, out.String(), "Configuration cleared")
}

func TestRunClear_ExplicitPath(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, (&config.Config{URL: "https://folio.example.com"}).Save(configPath))

	opts, _ := testOptions()
	opts.configPath = configPath
	require.NoError(t, runClear(opts))

	_, err := os.Stat(configPath)
	assert.True(t, os.IsNotExist(err))
}

func TestRunClear_NoConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	opts, out := testOptions()
	require.NoError(t, runClear(opts))
	assert.Contains(t, out.String(), "No config file to remove")
}

func TestRunClear_NotesEnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FOLIO_API_TOKEN", "still-here")

	opts, out := testOptions()
	require.NoError(t, runClear(opts))
	assert.Contains(t, out.String(), "FOLIO_API_TOKEN")
}

func TestRunClear_Idempotent(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	opts, _ := testOptions()
	require.NoError(t, runClear(opts))
	require.NoError(t, runClear(opts))
}
