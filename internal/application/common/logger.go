package common

import "context"

// Log levels used across the pricing loop.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// EventLogger records human-readable pricing events. The production
// implementation appends timestamped plain-text lines to a log file.
type EventLogger interface {
	Log(level, message string)
	Logf(level, format string, args ...interface{})
}

type contextKey int

const loggerKey contextKey = iota

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger EventLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op
// logger if none was attached.
func LoggerFromContext(ctx context.Context) EventLogger {
	if logger, ok := ctx.Value(loggerKey).(EventLogger); ok {
		return logger
	}
	return NopLogger{}
}

// NopLogger discards everything (fallback when no logger is configured).
type NopLogger struct{}

func (NopLogger) Log(level, message string)                      {}
func (NopLogger) Logf(level, format string, args ...interface{}) {}
