package tracing

import (
	"context"
	"errors"
)

// ErrAlreadyInstalled indicates a second Install on a unit of work that
// already carries a span context. This is a bug in boundary bracketing
// (a missing Clear on a prior exit path), never a runtime condition to
// retry.
var ErrAlreadyInstalled = errors.New("tracing: span context already installed for this unit of work")

// Context key for span context propagation
type contextKey struct{}

// Install associates sc with the unit of work represented by ctx and
// returns the derived context. Each unit of work holds at most one
// active span context; installing over an existing one fails with
// ErrAlreadyInstalled rather than silently overwriting it.
func Install(ctx context.Context, sc SpanContext) (context.Context, error) {
	if Current(ctx).Valid() {
		return ctx, ErrAlreadyInstalled
	}
	return context.WithValue(ctx, contextKey{}, sc), nil
}

// Current returns the span context installed for the calling unit of
// work, or the zero-value sentinel if none is installed. Never blocks.
func Current(ctx context.Context) SpanContext {
	if ctx == nil {
		return SpanContext{}
	}
	sc, _ := ctx.Value(contextKey{}).(SpanContext)
	return sc
}

// Clear removes the association for the unit of work and returns the
// resulting context. Idempotent: clearing when nothing is installed is
// a no-op.
func Clear(ctx context.Context) context.Context {
	if !Current(ctx).Valid() {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, SpanContext{})
}

// With installs sc, runs body with the derived context, and guarantees
// the association does not outlive body on any exit path: normal
// return, error, or panic. The installed value lives only on the
// derived context handed to body, so the caller's ctx observes the
// absent sentinel afterwards by construction. Errors from body pass
// through unchanged.
func With(ctx context.Context, sc SpanContext, body func(context.Context) error) error {
	inner, err := Install(ctx, sc)
	if err != nil {
		return err
	}
	return body(inner)
}
