/*
Package tracing provides request-scoped trace correlation.

# Overview

This package implements the minimal propagation contract needed to
correlate every log line of one request with a single trace: an
immutable span context (trace ID, span ID, optional parent), a
propagator that scopes exactly one context to each unit of work, and
boundary middleware that brackets inbound requests with installation
and teardown.

It follows OpenTelemetry concepts (128-bit trace IDs, 64-bit span IDs,
parent-child derivation) without a span exporter or sampling layer.

# Features

- Span context propagation via HTTP headers and gRPC metadata
- Parent-child derivation within one trace
- Per-request isolation through context.Context, never global state
- HTTP and gRPC middleware for automatic bracketing
- Outbound propagation for resty, retryablehttp, and gRPC clients
- Graceful degradation: malformed inbound metadata yields a fresh trace

# Usage

	// HTTP middleware
	router.Use(tracing.HTTPMiddleware(logger))

	// gRPC server interceptors
	server := grpc.NewServer(
		grpc.UnaryInterceptor(tracing.GRPCUnaryInterceptor(logger)),
		grpc.StreamInterceptor(tracing.GRPCStreamInterceptor(logger)),
	)

	// Inside a handler: read the ambient context
	sc := tracing.Current(ctx)
	logger.Info("handling", zap.String("trace", sc.Format()))

	// Scoped manual bracketing
	err := tracing.With(ctx, tracing.New(), func(ctx context.Context) error {
		return doWork(ctx)
	})

	// Outbound HTTP with propagation
	client := tracing.NewClient()
	client.R().SetContext(ctx).Get(url)

# Propagation Format

Identifiers travel in two headers (gRPC metadata uses the same names):
- X-Trace-ID: 32 hex characters, constant across the whole request flow
- X-Span-ID: 16 hex characters, the sender's unit of work

A receiver derives a child context from them: same trace ID, fresh span
ID, parent set to the sender's span ID.

# Correctness

Each unit of work sees exactly one span context, installed before its
handler runs and torn down on every exit path. Installing a second
context without clearing the first fails with ErrAlreadyInstalled;
concurrent requests can never observe each other's identifiers because
the association lives on the per-request context.
*/
package tracing
