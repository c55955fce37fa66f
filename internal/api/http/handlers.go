// Package http contains the service's HTTP handlers.
package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/tracelinehq/traceline/internal/infrastructure/logging"
	"github.com/tracelinehq/traceline/internal/infrastructure/monitoring"
	"github.com/tracelinehq/traceline/internal/infrastructure/tracing"
)

// Handlers holds handler dependencies
type Handlers struct {
	logger        *logging.Logger
	metrics       *monitoring.Metrics
	client        *resty.Client
	downstreamURL string
}

// NewHandlers creates the handler set
func NewHandlers(logger *logging.Logger, metrics *monitoring.Metrics, client *resty.Client, downstreamURL string) *Handlers {
	return &Handlers{
		logger:        logger,
		metrics:       metrics,
		client:        client,
		downstreamURL: downstreamURL,
	}
}

// Hello handles GET /hello: one correlated log line, one constant body.
func (h *Handlers) Hello(c *gin.Context) {
	ctx := c.Request.Context()

	h.logger.For(ctx).Info("hello requested")
	c.String(http.StatusOK, "hello")
}

// Chain handles GET /chain: calls the configured downstream service
// through the propagating client, so the next hop can derive a child
// of this request's trace.
func (h *Handlers) Chain(c *gin.Context) {
	ctx := c.Request.Context()
	log := h.logger.For(ctx)

	if h.downstreamURL == "" {
		log.Warn("chain requested but no downstream configured")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "no downstream configured",
		})
		return
	}

	log.Info("calling downstream", zap.String("url", h.downstreamURL))

	timer := monitoring.NewTimer(h.metrics)
	resp, err := h.client.R().SetContext(ctx).Get(h.downstreamURL)
	if err != nil {
		timer.Stop("error")
		log.Error("downstream call failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "downstream call failed",
		})
		return
	}
	timer.Stop(strconv.Itoa(resp.StatusCode()))

	log.Info("downstream responded", zap.Int("status", resp.StatusCode()))
	c.JSON(http.StatusOK, gin.H{
		"downstream_status": resp.StatusCode(),
		"trace":             tracing.Current(ctx).Format(),
	})
}

// Health handles GET /health.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
