package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostlabs/gpupricer-go/internal/infrastructure/config"
)

func defaultConfig() *config.Config {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	return cfg
}

func TestSetDefaults(t *testing.T) {
	cfg := defaultConfig()

	assert.Equal(t, 0.50, cfg.Pricing.BasePrice)
	assert.Equal(t, 2.00, cfg.Pricing.MaxPrice)
	assert.Equal(t, 10.0, cfg.Pricing.PriceStepPercent)
	assert.Equal(t, 80.0, cfg.Pricing.HighDemandThreshold)
	assert.Equal(t, 30.0, cfg.Pricing.LowDemandThreshold)
	assert.Equal(t, 0.95, cfg.Pricing.MinReliability)
	assert.Equal(t, "https://console.vast.ai/api/v0", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Minute, cfg.Daemon.Interval)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestValidateConfig_DefaultsAreValid(t *testing.T) {
	assert.NoError(t, config.ValidateConfig(defaultConfig()))
}

func TestValidateConfig_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(cfg *config.Config)
		wantText string
	}{
		{
			name:     "max price below base price",
			mutate:   func(cfg *config.Config) { cfg.Pricing.BasePrice = 1.00; cfg.Pricing.MaxPrice = 0.50 },
			wantText: "MaxPrice",
		},
		{
			name:     "negative base price",
			mutate:   func(cfg *config.Config) { cfg.Pricing.BasePrice = -0.10 },
			wantText: "BasePrice",
		},
		{
			name: "low threshold above high threshold",
			mutate: func(cfg *config.Config) {
				cfg.Pricing.HighDemandThreshold = 30
				cfg.Pricing.LowDemandThreshold = 80
			},
			wantText: "LowDemandThreshold",
		},
		{
			name: "thresholds equal",
			mutate: func(cfg *config.Config) {
				cfg.Pricing.HighDemandThreshold = 50
				cfg.Pricing.LowDemandThreshold = 50
			},
			wantText: "LowDemandThreshold",
		},
		{
			name:     "price step above 100 percent",
			mutate:   func(cfg *config.Config) { cfg.Pricing.PriceStepPercent = 150 },
			wantText: "PriceStepPercent",
		},
		{
			name:     "min reliability above 1",
			mutate:   func(cfg *config.Config) { cfg.Pricing.MinReliability = 1.5 },
			wantText: "MinReliability",
		},
		{
			name:     "malformed API base URL",
			mutate:   func(cfg *config.Config) { cfg.API.BaseURL = "not a url" },
			wantText: "BaseURL",
		},
		{
			name:     "negative cycle interval",
			mutate:   func(cfg *config.Config) { cfg.Daemon.Interval = -time.Minute },
			wantText: "Interval",
		},
		{
			name:     "unknown database type",
			mutate:   func(cfg *config.Config) { cfg.Database.Type = "mysql" },
			wantText: "Type",
		},
		{
			name:     "unknown log level",
			mutate:   func(cfg *config.Config) { cfg.Logging.Level = "verbose" },
			wantText: "Level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := config.ValidateConfig(cfg)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantText)
		})
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
pricing:
  base_price: 0.40
  max_price: 1.50
  target_gpu_name: "RTX 4090"
  target_num_gpus: 4
daemon:
  interval: 5m
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 0.40, cfg.Pricing.BasePrice)
	assert.Equal(t, 1.50, cfg.Pricing.MaxPrice)
	assert.Equal(t, "RTX 4090", cfg.Pricing.TargetGPUName)
	assert.Equal(t, 4, cfg.Pricing.TargetNumGPUs)
	assert.Equal(t, 5*time.Minute, cfg.Daemon.Interval)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset fields fall back to defaults
	assert.Equal(t, 80.0, cfg.Pricing.HighDemandThreshold)
	assert.Equal(t, 0.95, cfg.Pricing.MinReliability)
}

func TestLoadConfig_APIKeyFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
	t.Setenv("VAST_API_KEY", "secret-token")

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "secret-token", cfg.API.Key)
}

func TestLoadConfig_RejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
pricing:
  base_price: 1.00
  max_price: 0.50
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	_, err := config.LoadConfig(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
