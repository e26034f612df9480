package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/google/wire"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
)

var LoggingSet = wire.NewSet(
	NewLogger,
)

// ParseLevel maps DETDEPLOY_LOG_LEVEL values to slog levels
func ParseLevel(val string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// NewLogger creates a new logger based on runtime configuration
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	level := slog.LevelInfo
	if l, ok := ParseLevel(os.Getenv("DETDEPLOY_LOG_LEVEL")); ok {
		level = l
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = shortPath(source.File)
				}
			}
			return a
		},
	}

	if cfg != nil && cfg.Debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// shortPath trims source paths to the repository-relative part
func shortPath(file string) string {
	if idx := strings.Index(file, "detdeploy/"); idx != -1 {
		return file[idx+len("detdeploy/"):]
	}
	parts := strings.Split(file, "/")
	return parts[len(parts)-1]
}
