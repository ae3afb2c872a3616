package logging

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger is the global slog instance for the application
var Logger *slog.Logger

// Options selects the log level and destination
type Options struct {
	Level string // debug, info, warn, error
	File  string // "" = ~/.pasoboard/logs/pasoboard.log, "stderr" = standard error
}

// DefaultLogPath returns ~/.pasoboard/logs/pasoboard.log
func DefaultLogPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".pasoboard", "logs", "pasoboard.log"), nil
}

// ParseLevel maps a level name to a slog.Level. Unknown names are info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// Init initializes the logging system.
// Uses text format for human readability. The returned closer releases the log file.
func Init(opts Options) (io.Closer, error) {
	var (
		out    io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)

	if opts.File != "stderr" {
		path := opts.File
		if path == "" {
			var err error
			if path, err = DefaultLogPath(); err != nil {
				return nil, err
			}
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		// Open log file in append mode
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = file, file
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: ParseLevel(opts.Level),
	})

	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	// Redirect standard log package output to the same destination
	log.SetOutput(out)
	log.SetFlags(log.LstdFlags)

	return closer, nil
}

// Audit returns the logger for structural changes made to boards
func Audit() *slog.Logger {
	return slog.Default().With("component", "audit")
}
