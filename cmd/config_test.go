package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/regnav/pkg/config"
)

func TestProviderName(t *testing.T) {
	name, err := providerName(" OpenAI ")
	require.NoError(t, err)
	assert.Equal(t, "openai", name)

	_, err = providerName("cohere")
	assert.ErrorContains(t, err, "unknown provider")
}

func TestUpdateConfigSavesChange(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	err := updateConfig(&out, func(cfg *config.Config) (string, error) {
		cfg.SetAPIKey("anthropic", "sk-test")
		cfg.SelectedProvider = "anthropic"
		return "saved", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "saved\n", out.String())

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.SelectedProvider)
	assert.Equal(t, "sk-test", cfg.GetAPIKey("anthropic"))
}

func TestUpdateConfigSkipsSaveOnError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	err := updateConfig(&out, func(cfg *config.Config) (string, error) {
		cfg.SelectedModel = "changed"
		return "", errors.New("rejected")
	})
	assert.EqualError(t, err, "rejected")
	assert.Empty(t, out.String())

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultModel, cfg.SelectedModel)
}
