package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokgrab/pkg/models"
)

func TestNewManagerCreatesDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	manager, err := NewManager(configPath)
	require.NoError(t, err)

	// Config file was created on disk
	_, err = os.Stat(configPath)
	require.NoError(t, err)

	cfg := manager.Get()
	defaults := models.DefaultConfig()
	assert.Equal(t, defaults.Port, cfg.Port)
	assert.Equal(t, defaults.Provider, cfg.Provider)
	assert.Equal(t, defaults.APIBaseURL, cfg.APIBaseURL)
}

func TestNewManagerLoadsExistingConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	stored := models.DefaultConfig()
	stored.Port = 9090
	stored.Provider = models.ProviderYtdlp
	data, err := json.Marshal(stored)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(configPath, data, 0644))

	manager, err := NewManager(configPath)
	require.NoError(t, err)

	cfg := manager.Get()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, models.ProviderYtdlp, cfg.Provider)
}

func TestNewManagerMergesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	// Partial config with only the port set
	require.NoError(t, os.WriteFile(configPath, []byte(`{"port": 9191}`), 0644))

	manager, err := NewManager(configPath)
	require.NoError(t, err)

	cfg := manager.Get()
	defaults := models.DefaultConfig()
	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, defaults.BindAddr, cfg.BindAddr)
	assert.Equal(t, defaults.Provider, cfg.Provider)
	assert.Equal(t, defaults.RequestTimeoutSeconds, cfg.RequestTimeoutSeconds)
}

func TestNewManagerRejectsMalformedJSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{broken`), 0644))

	_, err := NewManager(configPath)
	assert.Error(t, err)
}

func TestGetReturnsCopy(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	manager, err := NewManager(configPath)
	require.NoError(t, err)

	cfg := manager.Get()
	cfg.Port = 1

	assert.NotEqual(t, 1, manager.Get().Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Config)
		wantErr error
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *models.Config) {},
		},
		{
			name:    "port too low",
			mutate:  func(c *models.Config) { c.Port = 0 },
			wantErr: ErrInvalidPort,
		},
		{
			name:    "port too high",
			mutate:  func(c *models.Config) { c.Port = 70000 },
			wantErr: ErrInvalidPort,
		},
		{
			name:    "unknown provider",
			mutate:  func(c *models.Config) { c.Provider = "magic" },
			wantErr: ErrInvalidProvider,
		},
		{
			name:    "non-positive timeout",
			mutate:  func(c *models.Config) { c.RequestTimeoutSeconds = 0 },
			wantErr: ErrInvalidTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := models.DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
