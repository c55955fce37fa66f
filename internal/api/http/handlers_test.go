package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tracelinehq/traceline/internal/api/middleware"
	"github.com/tracelinehq/traceline/internal/infrastructure/logging"
	"github.com/tracelinehq/traceline/internal/infrastructure/monitoring"
	"github.com/tracelinehq/traceline/internal/infrastructure/tracing"
	"github.com/tracelinehq/traceline/internal/shared/id"
)

func setupRouter(downstreamURL string) (*gin.Engine, *observer.ObservedLogs) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zap.InfoLevel)
	logger := &logging.Logger{Logger: zap.New(core)}
	handlers := NewHandlers(logger, monitoring.NewMetrics(), tracing.NewClient(), downstreamURL)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(tracing.HTTPMiddleware(zap.NewNop()))
	router.GET("/hello", handlers.Hello)
	router.GET("/chain", handlers.Chain)
	router.GET("/health", handlers.Health)

	return router, logs
}

func TestHello(t *testing.T) {
	router, logs := setupRouter("")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/hello", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())

	entries := logs.All()
	require.Len(t, entries, 1)

	correlation, ok := entries[0].ContextMap()[logging.TraceField].(string)
	require.True(t, ok)
	assert.NotEqual(t, "-", correlation, "handler log lines must carry the request's trace pair")
	assert.Equal(t, w.Header().Get(tracing.HeaderTraceID)+"-"+w.Header().Get(tracing.HeaderSpanID), correlation)

	rid, ok := entries[0].ContextMap()[logging.RequestField].(string)
	require.True(t, ok, "handler log lines must carry the minted request ID")
	assert.True(t, strings.HasPrefix(rid, id.RequestPrefix+"_"), "request ID is prefixed, got: %s", rid)
	assert.Equal(t, w.Header().Get(middleware.HeaderRequestID), rid)
}

func TestChainPropagatesDownstream(t *testing.T) {
	var gotTrace, gotSpan string
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTrace = r.Header.Get(tracing.HeaderTraceID)
		gotSpan = r.Header.Get(tracing.HeaderSpanID)
		w.WriteHeader(http.StatusOK)
	}))
	defer downstream.Close()

	router, _ := setupRouter(downstream.URL)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/chain", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, w.Header().Get(tracing.HeaderTraceID), gotTrace,
		"downstream must see this request's trace ID")
	assert.Equal(t, w.Header().Get(tracing.HeaderSpanID), gotSpan,
		"this request's span becomes the downstream parent")
}

func TestChainNoDownstream(t *testing.T) {
	router, _ := setupRouter("")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/chain", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestChainDownstreamUnreachable(t *testing.T) {
	router, _ := setupRouter("http://127.0.0.1:1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/chain", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHealth(t *testing.T) {
	router, _ := setupRouter("")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
