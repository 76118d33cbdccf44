// Package logger sets up structured logging for velos-iam.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Initialize sets up the global slog logger writing to stderr
func Initialize(level slog.Level, noColor bool) *slog.Logger {
	return InitializeWriter(os.Stderr, level, noColor)
}

// InitializeWriter sets up the global slog logger writing to w
func InitializeWriter(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)
	logger.Debug("logger initialized", "level", level)

	return logger
}

// ParseLevel converts a level name (debug, info, warn, error) to slog.Level
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", name)
	}
}
