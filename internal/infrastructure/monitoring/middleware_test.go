package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRecordsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := NewMetrics()

	router := gin.New()
	router.Use(Middleware(metrics))
	router.GET("/hello", func(c *gin.Context) {
		c.String(http.StatusOK, "hello")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/hello", nil))
	require.Equal(t, http.StatusOK, w.Code)

	count := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("GET", "/hello", "200"))
	assert.Equal(t, 1.0, count)
}

func TestRecordTraceOrigin(t *testing.T) {
	metrics := NewMetrics()

	metrics.RecordTraceOrigin(false)
	metrics.RecordTraceOrigin(false)
	metrics.RecordTraceOrigin(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.TracesStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TracesContinued))
}

func TestTimer(t *testing.T) {
	metrics := NewMetrics()

	timer := NewTimer(metrics)
	time.Sleep(time.Millisecond)
	timer.Stop("200")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DownstreamCalls.WithLabelValues("200")))
}

func TestHandlerExposition(t *testing.T) {
	metrics := NewMetrics()
	metrics.RecordTraceOrigin(false)

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "traces_started_total"))
}
