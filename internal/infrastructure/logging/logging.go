// Package logging builds the process logger from configuration and adapts
// it to the application's context logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/andrescamacho/anac-utility-go/internal/infrastructure/config"
)

// LevelTrace sits below debug and is reached with numeric levels of 3 or more
const LevelTrace = slog.LevelDebug - 4

// Setup is a configured slog logger together with its adjustable level
type Setup struct {
	Logger *slog.Logger
	Level  *slog.LevelVar
	closer io.Closer
}

// New opens the configured output and builds a logger writing to it
func New(cfg config.LoggingConfig) (*Setup, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var (
		out    io.Writer
		closer io.Closer
	)
	switch cfg.Output {
	case "stderr":
		out = os.Stderr
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = f, f
	default:
		out = os.Stdout
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	return &Setup{
		Logger: slog.New(NewHandler(out, cfg.Format, levelVar, cfg.IncludeCaller)),
		Level:  levelVar,
		closer: closer,
	}, nil
}

// Close releases the log file, if one was opened
func (s *Setup) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// NewHandler builds a JSON or text handler
func NewHandler(w io.Writer, format string, level slog.Leveler, addSource bool) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && len(groups) == 0 {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl <= LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	if format == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// ParseLevel accepts a level name (debug, info, warn, warning, error, trace)
// or a verbosity number: 0 is errors only, 1 info, 2 debug and 3 or more trace.
func ParseLevel(s string) (slog.Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))

	if n, err := strconv.Atoi(name); err == nil {
		switch {
		case n <= 0:
			return slog.LevelError, nil
		case n == 1:
			return slog.LevelInfo, nil
		case n == 2:
			return slog.LevelDebug, nil
		default:
			return LevelTrace, nil
		}
	}

	switch name {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
