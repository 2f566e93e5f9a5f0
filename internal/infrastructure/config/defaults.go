package config

import "time"

// SetDefaults sets default values for all configuration fields.
func SetDefaults(cfg *Config) {
	// Pricing defaults
	if cfg.Pricing.BasePrice == 0 {
		cfg.Pricing.BasePrice = 0.50
	}
	if cfg.Pricing.MaxPrice == 0 {
		cfg.Pricing.MaxPrice = 2.00
	}
	if cfg.Pricing.PriceStepPercent == 0 {
		cfg.Pricing.PriceStepPercent = 10
	}
	if cfg.Pricing.HighDemandThreshold == 0 {
		cfg.Pricing.HighDemandThreshold = 80
	}
	if cfg.Pricing.LowDemandThreshold == 0 {
		cfg.Pricing.LowDemandThreshold = 30
	}
	if cfg.Pricing.MinReliability == 0 {
		cfg.Pricing.MinReliability = 0.95
	}

	// API defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://console.vast.ai/api/v0"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 30 * time.Second
	}
	if cfg.API.RateLimit.RequestsPerSecond == 0 {
		cfg.API.RateLimit.RequestsPerSecond = 2
	}
	if cfg.API.RateLimit.Burst == 0 {
		cfg.API.RateLimit.Burst = 2
	}
	if cfg.API.Retry.MaxAttempts == 0 {
		cfg.API.Retry.MaxAttempts = 3
	}
	if cfg.API.Retry.BackoffBase == 0 {
		cfg.API.Retry.BackoffBase = time.Second
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "gpupricer.db"
	}
	if cfg.Database.Type == "postgres" {
		if cfg.Database.Host == "" {
			cfg.Database.Host = "localhost"
		}
		if cfg.Database.Port == 0 {
			cfg.Database.Port = 5432
		}
		if cfg.Database.SSLMode == "" {
			cfg.Database.SSLMode = "disable"
		}
		if cfg.Database.Pool.MaxOpen == 0 {
			cfg.Database.Pool.MaxOpen = 10
		}
		if cfg.Database.Pool.MaxIdle == 0 {
			cfg.Database.Pool.MaxIdle = 2
		}
		if cfg.Database.Pool.MaxLifetime == 0 {
			cfg.Database.Pool.MaxLifetime = 5 * time.Minute
		}
	}

	// Daemon defaults
	if cfg.Daemon.Interval == 0 {
		cfg.Daemon.Interval = 10 * time.Minute
	}
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/gpupricer.pid"
	}
	if cfg.Daemon.MetricsAddr == "" {
		cfg.Daemon.MetricsAddr = "localhost:9815"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = "gpupricer_pricing_log.txt"
	}
}
