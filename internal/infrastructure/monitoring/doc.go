/*
Package monitoring provides Prometheus metrics collection.

# Overview

This package tracks HTTP request metrics, trace-origin counters
(fresh vs. continued traces), and outbound downstream call latency.

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Exposition endpoint
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Time a downstream call
	timer := monitoring.NewTimer(metrics)
	resp, err := client.R().Get(url)
	timer.Stop(strconv.Itoa(resp.StatusCode()))

# Metrics

- http_requests_total{method, path, status}
- http_request_duration_seconds{method, path}
- http_request_size_bytes / http_response_size_bytes
- traces_started_total / traces_continued_total
- downstream_calls_total{status} / downstream_call_duration_seconds{status}
- uptime_seconds
*/
package monitoring
