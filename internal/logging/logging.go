// Package logging builds the zerolog logger shared by every front end.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/julianshen/ratiocalc/internal/config"
)

// New returns a logger writing to w at the configured level. Each process
// gets its own session id so interleaved log files can be told apart.
func New(cfg config.LogConfig, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parsing log level: %w", err)
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("session", uuid.NewString()).
		Logger(), nil
}

// Console returns a human-readable logger on stderr for CLI and server use.
func Console(cfg config.LogConfig) (zerolog.Logger, error) {
	return New(cfg, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
}

// ForTUI returns a logger that never writes to the terminal. Output goes to
// cfg.File when set and is discarded otherwise. The returned closer must be
// called on exit.
func ForTUI(cfg config.LogConfig) (zerolog.Logger, io.Closer, error) {
	if cfg.File == "" {
		l, err := New(cfg, io.Discard)
		return l, nopCloser{}, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
	}
	l, err := New(cfg, f)
	if err != nil {
		f.Close()
		return zerolog.Nop(), nil, err
	}
	return l, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
