package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wms-platform/fulfillment-service/internal/bootstrap"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/metrics"
	"github.com/wms-platform/fulfillment-service/pkg/tracing"
)

func main() {
	config, err := bootstrap.LoadConfig()
	if err != nil {
		logging.New(logging.DefaultConfig(bootstrap.ServiceName)).Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logConfig := logging.DefaultConfig(bootstrap.ServiceName)
	logConfig.Level = logging.LogLevel(config.LogLevel)
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting fulfillment-service API")
	ctx := context.Background()

	tracerProvider, err := tracing.Initialize(ctx, config.Tracing)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		if config.Tracing.Enabled {
			logger.Info("Tracing initialized", "endpoint", config.Tracing.OTLPEndpoint)
		}
	}

	m := metrics.New(metrics.DefaultConfig(bootstrap.ServiceName))
	logger.Info("Metrics initialized")

	svc, err := bootstrap.Build(ctx, config, logger, m)
	if err != nil {
		logger.WithError(err).Error("Failed to build decision engine")
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := svc.Close(closeCtx); err != nil {
			logger.WithError(err).Error("Failed to release resources")
		}
	}()

	router := newRouter(&api{
		service:  svc.Application,
		weights:  svc.Engine.Weights,
		breakers: svc.Breakers,
		ready:    svc.Ready,
		metrics:  m,
		logger:   logger,
		tracing:  config.Tracing.Enabled,
	})

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}
