package tracing

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Propagation headers. The same names are used for HTTP headers and
// (lowercased) gRPC metadata keys.
const (
	HeaderTraceID = "X-Trace-ID"
	HeaderSpanID  = "X-Span-ID"
)

// Extract builds the span context for a new unit of work from inbound
// propagation values. A well-formed trace ID yields a child of the
// caller's context; anything absent or malformed degrades to a fresh
// context and is never fatal.
func Extract(traceID, parentSpanID string) SpanContext {
	if !TraceID(traceID).Valid() {
		return New()
	}

	parent := SpanContext{
		TraceID: TraceID(traceID),
	}
	if SpanID(parentSpanID).Valid() {
		parent.SpanID = SpanID(parentSpanID)
	}
	return parent.Child()
}

// Inject copies the installed span context into carrier headers for an
// outbound call. The current span ID becomes the next hop's parent.
// No-op when nothing is installed.
func Inject(ctx context.Context, set func(key, value string)) {
	sc := Current(ctx)
	if !sc.Valid() {
		return
	}
	set(HeaderTraceID, string(sc.TraceID))
	set(HeaderSpanID, string(sc.SpanID))
}

// HTTPMiddleware creates Gin middleware bracketing every request with
// span context installation and teardown. The context is installed on
// the request context before the handler chain runs and dies with the
// request; response headers echo the identifiers so callers can
// correlate.
func HTTPMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := Extract(c.GetHeader(HeaderTraceID), c.GetHeader(HeaderSpanID))

		ctx, err := Install(c.Request.Context(), sc)
		if err != nil {
			// Double bracketing is a wiring bug. Keep the existing
			// context rather than failing the request.
			logger.Error("span context already installed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			c.Next()
			return
		}
		c.Request = c.Request.WithContext(ctx)

		c.Header(HeaderTraceID, string(sc.TraceID))
		c.Header(HeaderSpanID, string(sc.SpanID))

		defer func() {
			c.Request = c.Request.WithContext(Clear(c.Request.Context()))
		}()

		c.Next()
	}
}

// GRPCUnaryInterceptor brackets unary RPCs the same way HTTPMiddleware
// brackets HTTP requests, reading propagation values from incoming
// metadata. Handler errors pass through unchanged.
func GRPCUnaryInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		sc := Extract(fromIncomingMetadata(ctx))

		ctx, err := Install(ctx, sc)
		if err != nil {
			logger.Error("span context already installed",
				zap.Error(err),
				zap.String("method", info.FullMethod),
			)
			return handler(ctx, req)
		}

		return handler(ctx, req)
	}
}

// GRPCStreamInterceptor brackets streaming RPCs; the installed context
// is visible to the handler through the wrapped stream.
func GRPCStreamInterceptor(logger *zap.Logger) grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		sc := Extract(fromIncomingMetadata(ss.Context()))

		ctx, err := Install(ss.Context(), sc)
		if err != nil {
			logger.Error("span context already installed",
				zap.Error(err),
				zap.String("method", info.FullMethod),
			)
			return handler(srv, ss)
		}

		return handler(srv, &correlatedServerStream{
			ServerStream: ss,
			ctx:          ctx,
		})
	}
}

// correlatedServerStream carries the installed span context to the handler
type correlatedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *correlatedServerStream) Context() context.Context {
	return s.ctx
}

// GRPCClientInterceptor attaches the installed span context to outgoing
// metadata on unary client calls. Pure pass-through: no new context is
// created and call errors are returned unchanged.
func GRPCClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		pairs := make([]string, 0, 4)
		Inject(ctx, func(key, value string) {
			pairs = append(pairs, key, value)
		})
		if len(pairs) > 0 {
			ctx = metadata.AppendToOutgoingContext(ctx, pairs...)
		}

		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

func fromIncomingMetadata(ctx context.Context) (traceID, parentSpanID string) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", ""
	}
	if vals := md.Get(HeaderTraceID); len(vals) > 0 {
		traceID = vals[0]
	}
	if vals := md.Get(HeaderSpanID); len(vals) > 0 {
		parentSpanID = vals[0]
	}
	return traceID, parentSpanID
}
