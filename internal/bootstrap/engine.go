package bootstrap

import (
	"context"
	"fmt"

	"github.com/wms-platform/fulfillment-service/internal/application"
	"github.com/wms-platform/fulfillment-service/internal/infrastructure/directory"
	mongoRepo "github.com/wms-platform/fulfillment-service/internal/infrastructure/mongodb"
	"github.com/wms-platform/fulfillment-service/internal/infrastructure/rates"
	"github.com/wms-platform/fulfillment-service/pkg/cloudevents"
	"github.com/wms-platform/fulfillment-service/pkg/contracts/asyncapi"
	"github.com/wms-platform/fulfillment-service/pkg/kafka"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/metrics"
	"github.com/wms-platform/fulfillment-service/pkg/mongodb"
	"github.com/wms-platform/fulfillment-service/pkg/resilience"
)

// Service is the wired fulfillment application with the resources it owns
type Service struct {
	Engine      *application.DecisionEngine
	Application *application.FulfillmentApplicationService
	Breakers    *resilience.CircuitBreakerRegistry

	ready   func(ctx context.Context) error
	closers []func(ctx context.Context) error
}

// Ready reports whether the collaborator store is reachable
func (s *Service) Ready(ctx context.Context) error {
	if s.ready == nil {
		return nil
	}
	return s.ready(ctx)
}

// Close releases every resource in reverse order of creation
func (s *Service) Close(ctx context.Context) error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Build wires the collaborators, the decision engine and the application service
func Build(ctx context.Context, cfg *Config, logger *logging.Logger, m *metrics.Metrics) (*Service, error) {
	svc := &Service{
		Breakers: resilience.NewCircuitBreakerRegistry(logger.Logger, resilience.MetricsObserver(m)),
	}

	deps, err := svc.dependencies(ctx, cfg, logger, m)
	if err != nil {
		_ = svc.Close(ctx)
		return nil, err
	}

	engine, err := application.NewDecisionEngine(deps,
		application.WithWeights(cfg.Weights),
		application.WithLogger(logger),
		application.WithMetrics(m),
		application.WithCircuitBreakers(svc.Breakers),
		application.WithCallTimeout(cfg.CallTimeout),
		application.WithDecisionTimeout(cfg.DecisionTimeout),
		application.WithMaxConcurrency(cfg.MaxConcurrency),
	)
	if err != nil {
		_ = svc.Close(ctx)
		return nil, err
	}
	svc.Engine = engine

	if err := engine.Weights().Validate(); err != nil {
		logger.Warn("Configured weights are misconfigured, decisions will carry a warning", "error", err)
	}

	var publisher kafka.EventPublisher
	if cfg.EventsEnabled {
		producer := kafka.NewProducer(cfg.Kafka)
		svc.closers = append(svc.closers, func(context.Context) error { return producer.Close() })
		publisher = kafka.NewInstrumentedProducer(producer, m, logger)
		if cfg.ContractValidation {
			validator, err := asyncapi.NewFulfillmentValidator()
			if err != nil {
				_ = svc.Close(ctx)
				return nil, err
			}
			publisher = kafka.NewValidatingPublisher(publisher, validator)
		}
		logger.Info("Kafka producer initialized", "brokers", cfg.Kafka.Brokers, "contractValidation", cfg.ContractValidation)
	}

	svc.Application = application.NewFulfillmentApplicationService(
		engine,
		publisher,
		cloudevents.NewEventFactory(cloudevents.SourceFulfillment),
		logger,
	)

	logger.Info("Decision engine ready",
		"directory", cfg.DirectorySource,
		"weights", engine.Weights().AsMap(),
		"callTimeout", cfg.CallTimeout.String(),
		"decisionTimeout", cfg.DecisionTimeout.String(),
		"maxConcurrency", cfg.MaxConcurrency,
	)
	return svc, nil
}

func (s *Service) dependencies(ctx context.Context, cfg *Config, logger *logging.Logger, m *metrics.Metrics) (application.Dependencies, error) {
	switch cfg.DirectorySource {
	case DirectoryFile:
		dir, err := directory.LoadFile(cfg.DirectoryFile)
		if err != nil {
			return application.Dependencies{}, err
		}
		logger.Info("Loaded directory file", "path", cfg.DirectoryFile)
		return application.Dependencies{
			Inventory:  dir,
			Warehouses: dir,
			Suppliers:  dir,
			Carriers:   dir,
			Rates:      rates.NewCalculator(dir),
			Catalog:    dir,
		}, nil

	case DirectoryMongoDB:
		client, err := mongodb.NewClient(ctx, cfg.MongoDB)
		if err != nil {
			return application.Dependencies{}, err
		}
		instrumented := mongodb.NewInstrumentedClient(client, m, logger)
		s.closers = append(s.closers, instrumented.Close)
		s.ready = instrumented.HealthCheck
		logger.Info("Connected to MongoDB", "database", cfg.MongoDB.Database)

		repos := mongoRepo.NewRepositories(instrumented)
		if err := repos.EnsureIndexes(ctx); err != nil {
			logger.WithError(err).Warn("Failed to create directory indexes")
		}
		return application.Dependencies{
			Inventory:  repos.Inventory,
			Warehouses: repos.Warehouses,
			Suppliers:  repos.Suppliers,
			Carriers:   repos.Carriers,
			Rates:      rates.NewCalculator(repos.Tariffs),
			Catalog:    repos.Products,
		}, nil

	default:
		return application.Dependencies{}, fmt.Errorf("unknown directory source %q", cfg.DirectorySource)
	}
}
