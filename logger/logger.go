// Package logger configures the process-wide slog logger with optional file rotation.
package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level    string // debug, info, warn, error
	Format   string // json or text
	FilePath string // empty means stdout only
}

// Init installs the configured handler as slog's default and routes the
// standard library logger through it.
func Init(cfg Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var output io.Writer = os.Stdout
	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			log.Printf("Warning: failed to create log directory: %v", err)
		} else {
			output = io.MultiWriter(os.Stdout, &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    50,
				MaxBackups: 7,
				MaxAge:     30,
				Compress:   true,
			})
		}
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}
