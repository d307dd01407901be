package telemetry

import (
	"io"
	"log/slog"
	"os"
)

// InitLogger configures the default slog logger. Log lines go to stderr so
// stdout stays clean for command output; an optional file receives a copy.
func InitLogger(debug bool, logFile string) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	out := io.Writer(os.Stderr)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			out = io.MultiWriter(os.Stderr, f)
		} else {
			slog.Error("Failed to open log file", "path", logFile, "error", err)
		}
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: level,
	})))
}
