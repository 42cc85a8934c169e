// Package logger builds the process slog.Logger and carries request IDs on contexts.
package logger

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
)

type ctxKey string

const requestIDKey ctxKey = "requestID"

// New builds a logger writing to w. Text output goes through tint; stdout is
// reserved for the tool protocol, so callers normally pass os.Stderr.
func New(cfg Config, w io.Writer) *slog.Logger {
	var h slog.Handler
	if cfg.IsJSON() {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     cfg.LogLevel(),
			AddSource: cfg.AddSource,
		})
	} else {
		h = tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel(),
			AddSource:  cfg.AddSource,
			TimeFormat: time.Kitchen,
		})
	}
	return slog.New(h.WithAttrs(cfg.BaseAttributes()))
}

// Init builds a logger with New and installs it as the slog default.
func Init(cfg Config, w io.Writer) *slog.Logger {
	l := New(cfg, w)
	slog.SetDefault(l)
	return l
}

// GenerateRequestID creates a new ID for tracing one request.
func GenerateRequestID() string {
	return uuid.NewString()
}

// WithRequestID returns a new context containing the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID from the context, if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}

// FromContext returns base with the request_id attribute when ctx carries one.
// A nil base means slog.Default().
func FromContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	if id, ok := RequestIDFromContext(ctx); ok {
		return base.With("request_id", id)
	}
	return base
}
