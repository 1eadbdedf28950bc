// Package observability holds the logger and Prometheus metrics shared by
// the CLI, the TUI and the engine packages.
package observability

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger writing to w (stderr when nil).
// APP_ENV=dev (or development) uses a human-friendly console writer.
func NewLogger(env string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := zerolog.New(w).With().Timestamp().Logger()
	if env == "dev" || env == "development" {
		l = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: w != os.Stderr}).
			With().Timestamp().Logger()
	}
	return l
}

// WithLevel applies a level name ("debug", "info", ...). Unknown names keep
// the logger unchanged.
func WithLevel(l zerolog.Logger, level string) zerolog.Logger {
	if level == "" {
		return l
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return l
	}
	return l.Level(lvl)
}

// OpenLogFile opens (appending) the log file used while the TUI owns the
// terminal.
func OpenLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
