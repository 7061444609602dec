package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	once   sync.Once
	logger *slog.Logger
)

// Logger returns the process-wide slog.Logger. Output goes to stdout and, when
// PRICECOMPARE_LOG_FILE is set, is also appended to that file.
// PRICECOMPARE_LOG_LEVEL=debug lowers the threshold.
func Logger() *slog.Logger {
	once.Do(func() {
		opts := &slog.HandlerOptions{Level: levelFromEnv()}

		file, err := openLogFile(os.Getenv("PRICECOMPARE_LOG_FILE"))
		if err != nil || file == nil {
			logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
			return
		}

		multi := io.MultiWriter(os.Stdout, file)
		logger = slog.New(slog.NewTextHandler(multi, opts))
	})

	return logger
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("PRICECOMPARE_LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
