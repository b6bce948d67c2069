package application

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/metrics"
	"github.com/wms-platform/fulfillment-service/pkg/resilience"
)

// Engine defaults
const (
	DefaultCallTimeout     = 2 * time.Second
	DefaultDecisionTimeout = 10 * time.Second
	DefaultMaxConcurrency  = 8
)

// Option configures a DecisionEngine
type Option func(*DecisionEngine)

// WithWeights merges a partial weight override over the defaults. The result is fixed for the engine's lifetime.
func WithWeights(w domain.PartialWeights) Option {
	return func(e *DecisionEngine) {
		e.weights = domain.DefaultWeights().Merge(&w)
	}
}

// WithLogger sets the engine logger
func WithLogger(logger *logging.Logger) Option {
	return func(e *DecisionEngine) {
		if logger != nil {
			e.logger = logger.WithComponent("decision-engine")
		}
	}
}

// WithMetrics enables prometheus instrumentation
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *DecisionEngine) {
		e.metrics = m
	}
}

// WithTracer overrides the tracer used for engine spans
func WithTracer(tracer trace.Tracer) Option {
	return func(e *DecisionEngine) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// WithCircuitBreakers routes collaborator calls through one breaker per collaborator
func WithCircuitBreakers(registry *resilience.CircuitBreakerRegistry) Option {
	return func(e *DecisionEngine) {
		e.breakers = registry
	}
}

// WithCallTimeout bounds every single collaborator call
func WithCallTimeout(d time.Duration) Option {
	return func(e *DecisionEngine) {
		if d > 0 {
			e.callTimeout = d
		}
	}
}

// WithDecisionTimeout bounds a whole Decide call
func WithDecisionTimeout(d time.Duration) Option {
	return func(e *DecisionEngine) {
		if d > 0 {
			e.decisionTimeout = d
		}
	}
}

// WithMaxConcurrency bounds how many collaborator calls run at once per decision
func WithMaxConcurrency(n int) Option {
	return func(e *DecisionEngine) {
		if n > 0 {
			e.maxConcurrency = n
		}
	}
}

// WithClock replaces time.Now, used for deadline checks
func WithClock(now func() time.Time) Option {
	return func(e *DecisionEngine) {
		if now != nil {
			e.now = now
		}
	}
}
