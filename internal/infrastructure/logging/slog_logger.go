package logging

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/andrescamacho/anac-utility-go/internal/application/common"
	"github.com/andrescamacho/anac-utility-go/internal/application/mediator"
)

// SlogLogger adapts a slog logger to common.Logger
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps a slog logger. A nil logger uses slog.Default().
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger}
}

// With returns a logger that adds the given attributes to every record
func (l *SlogLogger) With(args ...any) *SlogLogger {
	return &SlogLogger{logger: l.logger.With(args...)}
}

// Log writes one record. Metadata keys are emitted in sorted order.
func (l *SlogLogger) Log(level, message string, metadata map[string]interface{}) {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, metadata[k]))
	}

	l.logger.LogAttrs(context.Background(), levelFor(level), message, attrs...)
}

func levelFor(level string) slog.Level {
	switch level {
	case "DEBUG":
		return slog.LevelDebug
	case "WARNING", "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Middleware puts the logger into the request context unless one is already
// there, and logs each request's outcome and duration.
func Middleware(logger common.Logger) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if !common.HasLogger(ctx) {
			ctx = common.WithLogger(ctx, logger)
		}

		name := mediator.RequestName(request)
		start := time.Now()
		response, err := next(ctx, request)
		elapsed := time.Since(start)

		log := common.LoggerFromContext(ctx)
		if err != nil {
			log.Log("ERROR", name+" failed", map[string]interface{}{
				"request":     name,
				"duration_ms": elapsed.Milliseconds(),
				"error":       err.Error(),
			})
			return response, err
		}

		log.Log("DEBUG", name+" completed", map[string]interface{}{
			"request":     name,
			"duration_ms": elapsed.Milliseconds(),
		})
		return response, nil
	}
}
