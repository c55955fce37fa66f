package logging

import (
	"context"

	"go.uber.org/zap"

	"github.com/tracelinehq/traceline/internal/infrastructure/tracing"
	"github.com/tracelinehq/traceline/internal/shared/id"
)

// TraceField is the structured field carrying the trace correlation
// pair on every log line.
const TraceField = "trace"

// RequestField carries the per-request ID minted at the boundary.
const RequestField = "request_id"

// Correlation returns the bracketed correlation prefix for plain-text
// sinks: "[traceId-spanId]" with an installed context, "[-]" without.
// The marker is never an empty string.
func Correlation(ctx context.Context) string {
	return "[" + tracing.Current(ctx).Format() + "]"
}

// For returns a logger scoped to the calling unit of work: the trace
// correlation pair (or the absent marker) rides on every line the
// returned logger emits, alongside the request ID when one was minted
// at the boundary.
func (l *Logger) For(ctx context.Context) *Logger {
	fields := []zap.Field{
		zap.String(TraceField, tracing.Current(ctx).Format()),
	}
	if rid := id.RequestIDFromContext(ctx); rid != "" {
		fields = append(fields, zap.String(RequestField, string(rid)))
	}
	return &Logger{Logger: l.Logger.With(fields...)}
}

// Line renders a message in the canonical correlated form
// "[traceId-spanId] message" for collaborating sinks that interpolate
// a single text field rather than structured output.
func Line(ctx context.Context, msg string) string {
	return Correlation(ctx) + " " + msg
}
