package config

import "time"

// DaemonConfig holds the repricing loop configuration.
type DaemonConfig struct {
	// Interval between repricing cycles. A cycle that overruns the
	// interval is followed by the next one immediately, never concurrently.
	Interval time.Duration `mapstructure:"interval" validate:"gt=0"`

	// PIDFile enforces a single running instance
	PIDFile string `mapstructure:"pid_file"`

	// MetricsEnabled exposes Prometheus metrics on MetricsAddr
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	MetricsAddr    string `mapstructure:"metrics_addr"`
}
