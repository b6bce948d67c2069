package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/fulfillment-service/pkg/errors"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/metrics"
)

// Probe paths are excluded from access logs, tracing and HTTP metrics
const (
	PathHealth  = "/health"
	PathReady   = "/ready"
	PathMetrics = "/metrics"
)

// DefaultReadinessTimeout bounds a single readiness check
const DefaultReadinessTimeout = 2 * time.Second

func isProbe(path string) bool {
	return path == PathHealth || path == PathReady || path == PathMetrics
}

// Config holds middleware configuration
type Config struct {
	Logger         *logging.Logger
	Metrics        *metrics.Metrics
	ServiceName    string
	TrustedProxies []string
	EnableTracing  bool
}

// DefaultConfig returns a middleware configuration without tracing
func DefaultConfig(serviceName string, logger *logging.Logger, m *metrics.Metrics) *Config {
	return &Config{
		Logger:      logger,
		Metrics:     m,
		ServiceName: serviceName,
	}
}

// Setup installs the request chain: recovery, request context, tracing, metrics, access log,
// content type check and error rendering, plus JSON 404 and 405 bodies
func Setup(router *gin.Engine, config *Config) {
	InitValidator()

	if len(config.TrustedProxies) > 0 {
		_ = router.SetTrustedProxies(config.TrustedProxies)
	}

	router.Use(Recovery(config.Logger), RequestContext())
	if config.EnableTracing {
		router.Use(TracingMiddleware(DefaultTracingConfig(config.ServiceName)))
	}
	router.Use(
		MetricsMiddleware(config.Metrics),
		AccessLog(config.Logger),
		ContentType(),
		ErrorHandler(config.Logger),
	)

	router.HandleMethodNotAllowed = true
	router.NoRoute(fixedError(errors.New("ROUTE_NOT_FOUND", "The requested resource was not found"), http.StatusNotFound))
	router.NoMethod(fixedError(errors.New("METHOD_NOT_ALLOWED", "The request method is not supported for this resource"), http.StatusMethodNotAllowed))
}

// RegisterProbes adds liveness, readiness and prometheus endpoints. A nil ready func is always ready.
func RegisterProbes(router *gin.Engine, serviceName string, ready func(ctx context.Context) error, m *metrics.Metrics) {
	router.GET(PathHealth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName})
	})

	router.GET(PathReady, func(c *gin.Context) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultReadinessTimeout)
			defer cancel()
			if err := ready(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "service": serviceName, "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": serviceName})
	})

	if m != nil {
		router.GET(PathMetrics, gin.WrapH(m.Handler()))
	}
}

func fixedError(appErr *errors.AppError, status int) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := newAPIErrorResponse(c, appErr)
		c.JSON(status, body)
	}
}
