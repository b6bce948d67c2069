package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.temporal.io/sdk/activity"

	"github.com/wms-platform/fulfillment-service/internal/activities"
	"github.com/wms-platform/fulfillment-service/internal/bootstrap"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/metrics"
	"github.com/wms-platform/fulfillment-service/pkg/temporal"
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
	logger := logging.New(logConfig).WithComponent("worker")
	logger.SetDefault()

	logger.Info("Starting fulfillment-service worker")
	ctx := context.Background()

	tracerProvider, err := tracing.Initialize(ctx, config.Tracing)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tracerProvider.Shutdown(shutdownCtx)
		}()
	}

	m := metrics.New(metrics.DefaultConfig(bootstrap.ServiceName))

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

	temporalClient, err := temporal.NewClient(ctx, config.Temporal, logger.Logger)
	if err != nil {
		logger.WithError(err).Error("Failed to create Temporal client")
		os.Exit(1)
	}
	defer temporalClient.Close()
	logger.Info("Connected to Temporal", "hostPort", config.Temporal.HostPort, "namespace", config.Temporal.Namespace)

	fulfillmentActivities := activities.NewFulfillmentActivities(svc.Application, m)

	w := temporalClient.NewWorker(temporal.DefaultWorkerOptions(temporal.TaskQueues.Fulfillment))
	w.RegisterActivityWithOptions(fulfillmentActivities.DecideFulfillment, activity.RegisterOptions{
		Name: temporal.ActivityNames.DecideFulfillment,
	})
	logger.Info("Registered activities", "activity", temporal.ActivityNames.DecideFulfillment)

	if err := w.Start(); err != nil {
		logger.WithError(err).Error("Worker failed to start")
		os.Exit(1)
	}
	logger.Info("Worker started", "taskQueue", temporal.TaskQueues.Fulfillment)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down worker...")

	w.Stop()
	logger.Info("Worker stopped")
}
