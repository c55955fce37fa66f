// Package logging provides structured logging using uber/zap.
//
// This package offers production-ready logging with two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Every line can carry trace correlation: For(ctx) returns a logger
// whose output includes the trace/span identifier pair of the calling
// unit of work, rendered as "traceId-spanId" or "-" when no context is
// installed, plus the req_* request ID when the boundary minted one.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.For(ctx).Info("request accepted")
//	logger.Error("failed to connect", zap.Error(err))
package logging
