package model_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hstiawan/visit-tracker/internal/model"
)

func TestLoadConfigMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := model.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.API.TimeoutSec)
	assert.Equal(t, 2, cfg.API.ReadRetries)
	assert.Equal(t, 300, cfg.Cache.FreshForSec)
	assert.Equal(t, "static", cfg.Geo.Provider)
	assert.Equal(t, 5000, cfg.Geo.TimeoutMS)
	assert.Equal(t, 5, cfg.Display.PageSize)
	assert.Empty(t, cfg.API.BaseURL)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("VISIT_TRACKER_API_BASE_URL", "https://api.example.com/v1")
	t.Setenv("VISIT_TRACKER_CACHE_FRESH_FOR_SEC", "60")

	cfg, err := model.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v1", cfg.API.BaseURL)
	assert.Equal(t, 60, cfg.Cache.FreshForSec)
}

func TestSaveAndReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := model.LoadConfig(path)
	require.NoError(t, err)
	cfg.API.BaseURL = "https://visits.example.com"
	cfg.Display.PageSize = 10

	require.NoError(t, model.SaveConfig(path, cfg))

	loaded, err := model.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://visits.example.com", loaded.API.BaseURL)
	assert.Equal(t, 10, loaded.Display.PageSize)
	assert.Equal(t, 30, loaded.API.TimeoutSec)
}
