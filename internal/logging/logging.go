// Package logging constructs the zerolog logger shared by long-running
// components (session, poller, watcher).
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/soverby/tempo/internal/config"
)

// New creates a logger from the log configuration. Logging goes to
// stderr with pretty console output unless a file is configured.
func New(cfg config.LogConfig) zerolog.Logger {
	level := parseLevel(cfg.Level)

	var output io.Writer = os.Stderr
	toFile := false
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		} else {
			output = f
			toFile = true
		}
	}

	logger := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	if !toFile {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	return logger
}

// Disabled returns a logger that discards everything. Useful as a
// default for components constructed without a configured logger.
func Disabled() zerolog.Logger {
	return zerolog.Nop()
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
