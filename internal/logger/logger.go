package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

var Log *slog.Logger

func init() {
	// Auto-initialize with safe defaults for tests and development
	// Production code can override by calling Initialize() explicitly
	Initialize("info", false)
}

// Initialize sets up the global logger with the specified level and format
func Initialize(level string, useJSON bool) {
	logLevel := parseLevel(level)

	var handler slog.Handler
	if useJSON {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
	} else {
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:     logLevel,
			AddSource: true,
		})
	}

	Log = slog.New(handler)
	slog.SetDefault(Log) // Make it the default for entire program
}

// parseLevel converts string log level to slog.Level
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
