// Package logging builds the slog loggers used by the tvdip command.
//
// Records go to stderr by default so that solver output on stdout stays
// machine-readable:
//
//	logger, err := logging.New(logging.Config{Level: "debug", Format: "json"})
//	logger.Info("solving", "traces", n)
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrInvalid reports an unknown level or format.
var ErrInvalid = errors.New("logging: invalid setting")

// Config selects level, format and destination. The zero value logs Info
// and above as text to stderr.
type Config struct {
	Level  string    // debug, info, warn or error
	Format string    // text or json
	Output io.Writer // nil means os.Stderr
	// Service, when set, is attached to every record.
	Service string
}

// ParseLevel converts a level name to its slog level. Matching ignores
// case; the empty string is Info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: level %q", ErrInvalid, s)
	}
}

// New returns a logger for cfg.
func New(cfg Config) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", FormatText:
		h = slog.NewTextHandler(out, opts)
	case FormatJSON:
		h = slog.NewJSONHandler(out, opts)
	default:
		return nil, fmt.Errorf("%w: format %q", ErrInvalid, cfg.Format)
	}

	logger := slog.New(h)
	if cfg.Service != "" {
		logger = logger.With("service", cfg.Service)
	}
	return logger, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
