// Package server wires the HTTP surface together.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/tracelinehq/traceline/internal/api/http"
	"github.com/tracelinehq/traceline/internal/api/middleware"
	"github.com/tracelinehq/traceline/internal/infrastructure/config"
	"github.com/tracelinehq/traceline/internal/infrastructure/logging"
	"github.com/tracelinehq/traceline/internal/infrastructure/monitoring"
	"github.com/tracelinehq/traceline/internal/infrastructure/tracing"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	http    *http.Server
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		var err error
		logger, err = logging.New(logging.Config{
			Level: cfg.Logging.Level,
		})
		if err != nil {
			return nil, err
		}
	}

	logger.Info("initializing server",
		zap.String("service", cfg.Tracing.ServiceName),
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
	)

	metrics := monitoring.NewMetrics()

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		rlCfg := middleware.DefaultRateLimitConfig()
		if cfg.RateLimit.RequestsPerSecond > 0 {
			rlCfg.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		}
		if cfg.RateLimit.Burst > 0 {
			rlCfg.Burst = cfg.RateLimit.Burst
		}
		router.Use(middleware.RateLimit(rlCfg))
	}
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.RequestID())
	router.Use(traceOrigin(metrics))
	router.Use(tracing.HTTPMiddleware(logger.Logger))

	handlers := apihttp.NewHandlers(logger, metrics, tracing.NewClient(), cfg.Downstream.URL)

	router.GET("/hello", handlers.Hello)
	router.GET("/chain", handlers.Chain)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return &Server{
		router:  router,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// traceOrigin counts whether each request starts or continues a trace.
// Runs before the tracing middleware consumes the inbound headers.
func traceOrigin(metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		continued := tracing.TraceID(c.GetHeader(tracing.HeaderTraceID)).Valid()
		metrics.RecordTraceOrigin(continued)
		c.Next()
	}
}

// Run starts the server and blocks until it stops
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("server listening", zap.String("addr", addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	defer func() {
		_ = s.logger.Sync()
	}()

	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}
