package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Trace correlation metrics
	TracesStarted   prometheus.Counter
	TracesContinued prometheus.Counter

	// Downstream call metrics
	DownstreamCalls    *prometheus.CounterVec
	DownstreamDuration *prometheus.HistogramVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector with its own registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		startTime: time.Now(),
		registry:  registry,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_size_bytes",
				Help:    "HTTP request size",
				Buckets: prometheus.ExponentialBuckets(64, 4, 8),
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size",
				Buckets: prometheus.ExponentialBuckets(64, 4, 8),
			},
			[]string{"method", "path"},
		),

		TracesStarted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "traces_started_total",
				Help: "Requests that arrived without propagation metadata and started a fresh trace",
			},
		),
		TracesContinued: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "traces_continued_total",
				Help: "Requests that continued an inbound trace",
			},
		),

		DownstreamCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "downstream_calls_total",
				Help: "Outbound calls to downstream services",
			},
			[]string{"status"},
		),
		DownstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "downstream_call_duration_seconds",
				Help:    "Outbound call latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}
}

// Handler returns the Prometheus exposition handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records metrics for one handled request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}

// RecordTraceOrigin records whether a request started or continued a trace
func (m *Metrics) RecordTraceOrigin(continued bool) {
	if continued {
		m.TracesContinued.Inc()
	} else {
		m.TracesStarted.Inc()
	}
}

// RecordDownstreamCall records metrics for one outbound call
func (m *Metrics) RecordDownstreamCall(status string, duration time.Duration) {
	m.DownstreamCalls.WithLabelValues(status).Inc()
	m.DownstreamDuration.WithLabelValues(status).Observe(duration.Seconds())
}
