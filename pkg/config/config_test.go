package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultProvider, cfg.SelectedProvider)
	assert.Equal(t, DefaultModel, cfg.SelectedModel)
	assert.Equal(t, DefaultCatalogueDir, cfg.CatalogueDir)
	assert.Equal(t, DefaultProviderTimeout, cfg.ProviderTimeout)
	assert.NotNil(t, cfg.Providers)
}

func TestSaveAndLoadConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	cfg.SelectedProvider = "anthropic"
	cfg.SelectedModel = "claude-haiku-4-5"
	cfg.ProviderTimeout = 30 * time.Second
	cfg.SetAPIKey("anthropic", "sk-test")
	require.NoError(t, SaveConfig(cfg))

	info, err := os.Stat(filepath.Join(home, ".regnav", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", loaded.SelectedProvider)
	assert.Equal(t, "claude-haiku-4-5", loaded.SelectedModel)
	assert.Equal(t, 30*time.Second, loaded.ProviderTimeout)
	assert.Equal(t, "sk-test", loaded.GetAPIKey("anthropic"))
}

func TestLoadFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("selected_model: gpt-4o-mini\nlog_level: debug\n"), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultProvider, cfg.SelectedProvider)
	assert.Equal(t, "gpt-4o-mini", cfg.SelectedModel)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultCatalogueDir, cfg.CatalogueDir)
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("providers: [unclosed"), 0600))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestGetAPIKeyFallsBackToEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	cfg := Default()
	assert.Equal(t, "env-key", cfg.GetAPIKey("openai"))

	cfg.SetAPIKey("openai", "file-key")
	assert.Equal(t, "file-key", cfg.GetAPIKey("openai"))
	assert.Empty(t, cfg.GetAPIKey("unknown"))
}
