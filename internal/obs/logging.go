// Package obs holds the process-wide structured logger.
package obs

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the global structured logger used by the service.
// It discards output until InitLogger is called so packages and tests can log freely.
var Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// InitLogger installs a JSON logger on stdout at the given level ("debug", "info", "warn", "error").
func InitLogger(level string) {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: ParseLevel(level)})
	Logger = slog.New(h)
}

func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
