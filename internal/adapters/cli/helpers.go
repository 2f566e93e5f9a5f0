package cli

import (
	"fmt"

	"github.com/hostlabs/gpupricer-go/internal/adapters/api"
	"github.com/hostlabs/gpupricer-go/internal/adapters/logging"
	"github.com/hostlabs/gpupricer-go/internal/application/common"
	"github.com/hostlabs/gpupricer-go/internal/application/repricing"
	"github.com/hostlabs/gpupricer-go/internal/domain/pricing"
	"github.com/hostlabs/gpupricer-go/internal/infrastructure/config"
)

// newEventLogger builds the plain-text event logger from config. When
// logToFile is false (one-shot commands) lines go to stdout only.
func newEventLogger(cfg *config.Config, logToFile bool) (*logging.FileLogger, error) {
	path := ""
	if logToFile {
		path = cfg.Logging.FilePath
	}
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.NewFileLogger(path, level)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	return logger, nil
}

// newMarketplaceClient builds the API client from config.
func newMarketplaceClient(cfg *config.Config) (*api.VastClient, error) {
	if cfg.API.Key == "" {
		return nil, fmt.Errorf("no API key configured (set VAST_API_KEY or api.key)")
	}
	return api.NewVastClientWithConfig(
		cfg.API.BaseURL,
		cfg.API.Key,
		cfg.API.Timeout,
		cfg.API.RateLimit.RequestsPerSecond,
		cfg.API.RateLimit.Burst,
		cfg.API.Retry.MaxAttempts,
		cfg.API.Retry.BackoffBase,
		nil,
	), nil
}

// newPolicy builds the pricing policy from config.
func newPolicy(cfg *config.Config) *pricing.Policy {
	return pricing.NewPolicy(pricing.Params{
		BasePrice:   cfg.Pricing.BasePrice,
		MaxPrice:    cfg.Pricing.MaxPrice,
		StepPercent: cfg.Pricing.PriceStepPercent,
		HighDemand:  cfg.Pricing.HighDemandThreshold,
		LowDemand:   cfg.Pricing.LowDemandThreshold,
	})
}

// serviceOptions maps pricing config onto repricing options.
func serviceOptions(cfg *config.Config, testMode bool) repricing.Options {
	return repricing.Options{
		TargetGPUName:  cfg.Pricing.TargetGPUName,
		TargetNumGPUs:  cfg.Pricing.TargetNumGPUs,
		MinReliability: cfg.Pricing.MinReliability,
		TestMode:       testMode,
	}
}

// logStartupBanner writes the effective configuration to the event log.
func logStartupBanner(logger common.EventLogger, cfg *config.Config, testMode bool) {
	logger.Log(common.LevelInfo, "=== GPU Autopricer started ===")
	if testMode {
		logger.Log(common.LevelInfo, "*** RUNNING IN TEST MODE - NO ACTUAL PRICE CHANGES WILL BE MADE ***")
	}
	if cfg.Pricing.TargetGPUName != "" {
		logger.Logf(common.LevelInfo, "Target GPU: %s x%d", cfg.Pricing.TargetGPUName, cfg.Pricing.TargetNumGPUs)
	} else {
		logger.Log(common.LevelInfo, "Target GPU: all machines")
	}
	logger.Logf(common.LevelInfo, "Check interval: %s", cfg.Daemon.Interval)
	logger.Logf(common.LevelInfo, "Price range: $%.2f - $%.2f", cfg.Pricing.BasePrice, cfg.Pricing.MaxPrice)
	logger.Logf(common.LevelInfo, "Demand thresholds: High=%.0f%%, Low=%.0f%%",
		cfg.Pricing.HighDemandThreshold, cfg.Pricing.LowDemandThreshold)
}
