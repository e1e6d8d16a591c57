// Package log wires up the application's structured logger. Output is
// JSON to a log file; the TUI owns stdout, so nothing may log there.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmcdole/fotofindr/internal/config"
)

// SetupLogger opens the configured log file and returns a JSON logger
// scoped with the application name.
func SetupLogger(cfg *config.LoggingConfig) (*slog.Logger, error) {
	path, err := expandHome(cfg.File)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return newLogger(f, Level(cfg.Level)), nil
}

// NullLogger returns a logger that discards all output. Used when file
// logging is unavailable, so call sites never need nil checks.
func NullLogger() *slog.Logger {
	return newLogger(io.Discard, slog.LevelError)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("app", "fotofindr")
}

// Level maps a config string to a slog level, defaulting to info.
func Level(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// expandHome resolves a leading ~ to the user's home directory.
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
