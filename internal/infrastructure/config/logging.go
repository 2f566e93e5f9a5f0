package config

// LoggingConfig holds logging configuration. The pricer writes timestamped
// plain-text lines, appended to FilePath and mirrored to stdout.
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// FilePath of the append-only event log; empty logs to stdout only
	FilePath string `mapstructure:"file_path"`
}
