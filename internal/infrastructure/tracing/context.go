package tracing

import (
	"github.com/tracelinehq/traceline/internal/shared/id"
)

// TraceID uniquely identifies one end-to-end request flow.
// Serialized as 32 hex characters (128 bits).
type TraceID string

// SpanID identifies one unit of work within a trace.
// Serialized as 16 hex characters (64 bits).
type SpanID string

// Absent is rendered in log correlation fields when no span context
// is installed. Never an empty string or null token.
const Absent = "-"

// SpanContext is an immutable correlation value for one unit of work.
// The zero value is the absent sentinel.
type SpanContext struct {
	TraceID  TraceID
	SpanID   SpanID
	ParentID SpanID
}

// New creates a fresh span context with no parent.
func New() SpanContext {
	return SpanContext{
		TraceID: TraceID(id.NewTraceID()),
		SpanID:  SpanID(id.NewSpanID()),
	}
}

// Child derives a new span context within the same trace: the trace ID
// is preserved, a fresh span ID is minted, and the parent is set to the
// receiver's span ID. The receiver is not modified.
func (sc SpanContext) Child() SpanContext {
	return SpanContext{
		TraceID:  sc.TraceID,
		SpanID:   SpanID(id.NewSpanID()),
		ParentID: sc.SpanID,
	}
}

// Valid reports whether both identifiers carry their full wire width.
func (sc SpanContext) Valid() bool {
	return sc.TraceID.Valid() && sc.SpanID.Valid()
}

// Format returns the canonical display form "traceId-spanId" used in
// log correlation, or the absent marker for the zero value.
func (sc SpanContext) Format() string {
	if !sc.Valid() {
		return Absent
	}
	return string(sc.TraceID) + "-" + string(sc.SpanID)
}

// Valid reports whether the trace ID is exactly 32 hex characters.
func (t TraceID) Valid() bool {
	return id.IsHex(string(t), 32)
}

// Valid reports whether the span ID is exactly 16 hex characters.
func (s SpanID) Valid() bool {
	return id.IsHex(string(s), 16)
}
