// Package logger provides a standardized, environment-aware logger for all Go services.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type traceIDKey struct{}

// New initializes and configures a new zerolog.Logger.
//
// In "development" environment, or when format is "console", it returns a
// human-friendly, colored console logger. Otherwise it returns a structured
// JSON logger.
func New(serviceName, version, env, level, format string) zerolog.Logger {
	return NewWithWriter(os.Stderr, serviceName, version, env, level, format)
}

// NewWithWriter is New writing to w.
func NewWithWriter(w io.Writer, serviceName, version, env, level, format string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if env == "development" || strings.EqualFold(format, "console") {
		// Geliştirme ortamı için renkli, okunabilir konsol logları
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	ctx := zerolog.New(out).Level(lvl).With().Timestamp().Str("service", serviceName)
	if version != "" {
		ctx = ctx.Str("version", version)
	}
	if env != "" {
		ctx = ctx.Str("env", env)
	}
	return ctx.Logger()
}

// WithTraceID returns a context carrying the given trace id.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		return ctx
	}
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceID returns the trace id stored in ctx, if any.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// ContextLogger enriches base with the trace id carried by ctx.
func ContextLogger(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	if id := TraceID(ctx); id != "" {
		return base.With().Str("trace_id", id).Logger()
	}
	return base
}
