// Package logging configures the zerolog-based structured logging used
// across ledgerkit. Loggers travel through context.Context; components
// attach a stable "component" field so log lines can be filtered per
// subsystem (cache, api, pipeline, cli).
package logging

import (
	"context"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Config controls how the root logger is built.
type Config struct {
	// Level is a zerolog level name ("debug", "info", "warn", "error").
	Level string

	// Format selects "console" (human readable) or "json" output.
	Format string

	// Output selects "stderr" or "file".
	Output string

	// File is the log file path when Output is "file".
	File string

	// Caller adds file:line information to every event.
	Caller bool
}

// Format and output selector values.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	OutputStderr  = "stderr"
	OutputFile    = "file"
)

type traceIDKey struct{}

// New builds the root logger from cfg. Unknown levels fall back to info;
// a file output that cannot be opened falls back to stderr so logging
// never aborts the command.
func New(cfg Config) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if cfg.Output == OutputFile && cfg.File != "" {
		if f, openErr := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600); openErr == nil {
			out = f
		}
	}

	if cfg.Format == FormatConsole {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	builder := zerolog.New(out).Level(lvl).With().Timestamp()
	if cfg.Caller {
		builder = builder.Caller()
	}
	return builder.Logger()
}

// ComponentLogger returns a child logger tagged with a component name.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// FromContext returns the logger stored in ctx, or a disabled logger if
// none was attached. Use logger.WithContext(ctx) to attach one.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// ContextWithTraceID stores a trace ID in ctx and stamps it onto the
// context logger so every subsequent event carries it.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	ctx = context.WithValue(ctx, traceIDKey{}, traceID)
	logger := zerolog.Ctx(ctx).With().Str("trace_id", traceID).Logger()
	return logger.WithContext(ctx)
}

// TraceIDFromContext returns the trace ID stored in ctx, or "".
func TraceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GetOrGenerateTraceID returns the trace ID already present in ctx, or a
// fresh ULID when the context has none.
func GetOrGenerateTraceID(ctx context.Context) string {
	if id := TraceIDFromContext(ctx); id != "" {
		return id
	}
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0) //nolint:gosec // trace IDs are not security sensitive
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
