// Package logger configures the process-wide slog logger: colored text on
// stderr for interactive use, or a rotating file when one is configured.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults, lumberjack semantics.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 7
)

// Config describes application logging.
type Config struct {
	Level      string `mapstructure:"level"`        // debug, info, warn, error (default info)
	File       string `mapstructure:"file"`         // rotate to this path instead of stderr
	MaxSizeMB  int    `mapstructure:"max_size_mb"`  // megabytes before rotation
	MaxBackups int    `mapstructure:"max_backups"`  // rotated files to keep
	MaxAgeDays int    `mapstructure:"max_age_days"` // days to keep
	Compress   bool   `mapstructure:"compress"`     // gzip rotated files
	NoColor    bool   `mapstructure:"no_color"`     // plain text even on stderr
}

// Setup builds a slog.Logger per c and installs it as the default.
func Setup(c Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(c.Level)}

	var h slog.Handler
	if c.File != "" {
		var w io.Writer = &lj.Logger{
			Filename:   c.File,
			MaxSize:    valOr(c.MaxSizeMB, DefaultMaxSizeMB),
			MaxBackups: valOr(c.MaxBackups, DefaultMaxBackups),
			MaxAge:     valOr(c.MaxAgeDays, DefaultMaxAgeDays),
			Compress:   c.Compress,
		}
		h = slog.NewTextHandler(w, opts)
	} else if c.NoColor {
		h = slog.NewTextHandler(os.Stderr, opts)
	} else {
		h = NewColorTextHandler(os.Stderr, opts)
	}

	l := slog.New(h)
	slog.SetDefault(l)
	return l
}

// ParseLevel maps a config string to a slog level; unknown values mean info.
func ParseLevel(s string) slog.Level {
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

func valOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
