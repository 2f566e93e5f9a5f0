package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/hostlabs/gpupricer-go/internal/application/common"
)

// FileLogger implements common.EventLogger by appending timestamped
// plain-text lines to a log file and mirroring them to stdout. The format
// is deliberately human-readable: this log is observability only, never
// parsed back by the pricer.
//
//	[2026-08-26 14:03:07] INFO Action: HOLD | ...
type FileLogger struct {
	mu       sync.Mutex
	out      io.Writer
	file     *os.File
	minLevel int
}

var levelRank = map[string]int{
	common.LevelDebug: 0,
	common.LevelInfo:  1,
	common.LevelWarn:  2,
	common.LevelError: 3,
}

// NewFileLogger opens (or creates) the log file in append mode. An empty
// path logs to stdout only. minLevel is one of debug, info, warn, error.
func NewFileLogger(path string, minLevel string) (*FileLogger, error) {
	rank, ok := levelRank[normalizeLevel(minLevel)]
	if !ok {
		return nil, fmt.Errorf("unknown log level: %s", minLevel)
	}

	l := &FileLogger{out: os.Stdout, minLevel: rank}
	if path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = file
		l.out = io.MultiWriter(os.Stdout, file)
	}
	return l, nil
}

// Log writes one line if level clears the configured threshold.
func (l *FileLogger) Log(level, message string) {
	rank, ok := levelRank[level]
	if !ok {
		rank = levelRank[common.LevelInfo]
	}
	if rank < l.minLevel {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "[%s] %s %s\n", time.Now().Format("2006-01-02 15:04:05"), level, message)
}

// Logf formats and writes one line.
func (l *FileLogger) Logf(level, format string, args ...interface{}) {
	l.Log(level, fmt.Sprintf(format, args...))
}

// Close closes the underlying log file, if any.
func (l *FileLogger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func normalizeLevel(level string) string {
	switch level {
	case "debug", common.LevelDebug:
		return common.LevelDebug
	case "info", common.LevelInfo, "":
		return common.LevelInfo
	case "warn", common.LevelWarn:
		return common.LevelWarn
	case "error", common.LevelError:
		return common.LevelError
	default:
		return level
	}
}
