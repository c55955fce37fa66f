// Package id provides centralized identifier generation for the service.
//
// Two identifier families are produced:
//   - Trace identifiers: fixed-width hex (128-bit trace, 64-bit span),
//     wire-compatible with the X-Trace-ID/X-Span-ID propagation headers
//   - Request identifiers: prefixed ULIDs (req_*) for log readability
//     and lexicographic sortability
//
// Generation is collision-resistant pseudorandomness, not a global
// uniqueness guarantee; that matches common tracing-library practice.
package id

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RequestID identifies one inbound API request in logs.
type RequestID string

// RequestPrefix marks request IDs in log output.
const RequestPrefix = "req"

const (
	traceIDBytes = 16
	spanIDBytes  = 8
)

// Generator produces identifiers from a single entropy source.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{
		entropy: rand.Reader,
	}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source.
// Useful for testing with deterministic entropy.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// TraceID returns 128 bits of randomness as 32 lowercase hex characters.
func (g *Generator) TraceID() string {
	return g.hexN(traceIDBytes)
}

// SpanID returns 64 bits of randomness as 16 lowercase hex characters.
func (g *Generator) SpanID() string {
	return g.hexN(spanIDBytes)
}

func (g *Generator) hexN(n int) string {
	buf := make([]byte, n)

	g.entropyMu.Lock()
	_, err := io.ReadFull(g.entropy, buf)
	g.entropyMu.Unlock()

	if err != nil {
		// crypto/rand never fails on supported platforms; a custom
		// entropy source might. Fall back so ID generation cannot
		// take down request handling.
		fallback := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader)
		copy(buf, fallback[:])
	}

	return hex.EncodeToString(buf)
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string.
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewRequestID generates a new request ID.
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// Context key for request ID propagation
type requestIDKey struct{}

// WithRequestID associates rid with the request's context.
func WithRequestID(ctx context.Context, rid RequestID) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestIDFromContext returns the request ID for ctx, or "" when none
// was minted for this unit of work.
func RequestIDFromContext(ctx context.Context) RequestID {
	if ctx == nil {
		return ""
	}
	rid, _ := ctx.Value(requestIDKey{}).(RequestID)
	return rid
}

// NewTraceID generates a new 32-hex trace identifier.
func NewTraceID() string {
	return Default().TraceID()
}

// NewSpanID generates a new 16-hex span identifier.
func NewSpanID() string {
	return Default().SpanID()
}

// IsHex reports whether s is exactly n hex characters.
func IsHex(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
