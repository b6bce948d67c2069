package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/fulfillment-service/internal/application"
	"github.com/wms-platform/fulfillment-service/internal/bootstrap"
	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/metrics"
	"github.com/wms-platform/fulfillment-service/pkg/middleware"
	"github.com/wms-platform/fulfillment-service/pkg/resilience"
)

type fulfillmentDecider interface {
	DecideFulfillment(ctx context.Context, cmd application.DecideFulfillmentCommand) (*application.FulfillmentDecisionDTO, error)
}

type api struct {
	service  fulfillmentDecider
	weights  func() domain.Weights
	breakers *resilience.CircuitBreakerRegistry
	ready    func(ctx context.Context) error
	metrics  *metrics.Metrics
	logger   *logging.Logger
	tracing  bool
}

func newRouter(a *api) *gin.Engine {
	router := gin.New()

	middlewareConfig := middleware.DefaultConfig(bootstrap.ServiceName, a.logger, a.metrics)
	middlewareConfig.EnableTracing = a.tracing
	middleware.Setup(router, middlewareConfig)
	middleware.RegisterProbes(router, bootstrap.ServiceName, a.ready, a.metrics)

	v1 := router.Group("/api/v1/fulfillment")
	{
		v1.POST("/decisions", decideHandler(a.service, a.logger))
		v1.GET("/weights", weightsHandler(a.weights))
		v1.GET("/collaborators", collaboratorsHandler(a.breakers))
	}

	return router
}

func decideHandler(service fulfillmentDecider, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		var cmd application.DecideFulfillmentCommand
		if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		middleware.AddSpanAttributes(c, map[string]any{
			"order.id":         cmd.OrderID,
			"order.item_count": len(cmd.Items),
		})

		decision, err := service.DecideFulfillment(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, decision)
	}
}

func weightsHandler(weights func() domain.Weights) gin.HandlerFunc {
	return func(c *gin.Context) {
		w := weights()
		body := gin.H{"weights": w.AsMap(), "valid": true}
		if err := w.Validate(); err != nil {
			body["valid"] = false
			body["error"] = err.Error()
		}
		c.JSON(http.StatusOK, body)
	}
}

func collaboratorsHandler(breakers *resilience.CircuitBreakerRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := map[string]resilience.CircuitBreakerStatus{}
		if breakers != nil {
			status = breakers.Status()
		}
		c.JSON(http.StatusOK, gin.H{"circuitBreakers": status})
	}
}
