package util

import (
	"log/slog"
	"os"
	"strings"
)

// InitSlog configures slog based on LOG_LEVEL and LOG_FORMAT environment variables.
// Supported levels: debug, info, warn, error. Supported formats: text (default), json.
func InitSlog() {
	logLevel, hasLevel := os.LookupEnv("LOG_LEVEL")
	logFormat, hasFormat := os.LookupEnv("LOG_FORMAT")
	if !hasLevel && !hasFormat {
		return
	}

	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	var handler slog.Handler
	if strings.ToLower(logFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
