/*
Package logger builds the charmbracelet/log loggers used across catalog-search.

All loggers write to stderr so that the stdio MCP transport keeps stdout
reserved for protocol frames.
*/
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.Mutex
	loggers []*log.Logger
)

// New creates a prefixed logger that follows the global log level.
func New(prefix string) *log.Logger {
	return NewWithWriter(os.Stderr, prefix)
}

// NewWithWriter creates a prefixed logger writing to w.
func NewWithWriter(w io.Writer, prefix string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()

	l := log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
	loggers = append(loggers, l)
	return l
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// SetLevel parses and applies the log level ("debug", "info", "warn", "error")
// to the default logger and every logger created by New.
func SetLevel(level string) error {
	if level == "" {
		return nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	mu.Lock()
	defer mu.Unlock()

	log.SetLevel(lvl)
	for _, l := range loggers {
		l.SetLevel(lvl)
	}
	return nil
}
