package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/metrics"
	"github.com/wms-platform/fulfillment-service/pkg/resilience"
	"github.com/wms-platform/fulfillment-service/pkg/tracing"
)

// Collaborator names, used as breaker names and metric labels
const (
	CollaboratorInventory  = "inventory"
	CollaboratorWarehouses = "warehouses"
	CollaboratorSuppliers  = "suppliers"
	CollaboratorCarriers   = "carriers"
	CollaboratorRates      = "rates"
	CollaboratorCatalog    = "catalog"
)

// Decision outcomes recorded in metrics
const (
	OutcomeRecommended = "recommended"
	OutcomeNoOption    = "no_option"
	OutcomeAllFailed   = "all_failed"
	OutcomeTimeout     = "timeout"
	OutcomeInvalid     = "invalid"
)

// Dependencies are the read-only collaborators the engine consults
type Dependencies struct {
	Inventory  domain.InventoryLookup
	Warehouses domain.WarehouseDirectory
	Suppliers  domain.SupplierDirectory
	Carriers   domain.CarrierDirectory
	Rates      domain.RateCalculator
	Catalog    domain.ProductCatalog
}

func (d Dependencies) validate() error {
	missing := []struct {
		name string
		ok   bool
	}{
		{CollaboratorInventory, d.Inventory != nil},
		{CollaboratorWarehouses, d.Warehouses != nil},
		{CollaboratorSuppliers, d.Suppliers != nil},
		{CollaboratorCarriers, d.Carriers != nil},
		{CollaboratorRates, d.Rates != nil},
		{CollaboratorCatalog, d.Catalog != nil},
	}
	for _, m := range missing {
		if !m.ok {
			return fmt.Errorf("decision engine: %s collaborator is required", m.name)
		}
	}
	return nil
}

// DecisionEngine turns a fulfillment request into a ranked, explained recommendation.
// It only reads from its collaborators. Weights are bound at construction and never change.
type DecisionEngine struct {
	deps            Dependencies
	weights         domain.Weights
	logger          *logging.Logger
	metrics         *metrics.Metrics
	tracer          trace.Tracer
	breakers        *resilience.CircuitBreakerRegistry
	callTimeout     time.Duration
	decisionTimeout time.Duration
	maxConcurrency  int
	now             func() time.Time
}

// NewDecisionEngine creates a DecisionEngine
func NewDecisionEngine(deps Dependencies, opts ...Option) (*DecisionEngine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	e := &DecisionEngine{
		deps:            deps,
		weights:         domain.DefaultWeights(),
		logger:          logging.NewNop(),
		tracer:          otel.Tracer("fulfillment-engine"),
		callTimeout:     DefaultCallTimeout,
		decisionTimeout: DefaultDecisionTimeout,
		maxConcurrency:  DefaultMaxConcurrency,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Weights returns the engine's bound weight vector
func (e *DecisionEngine) Weights() domain.Weights {
	return e.weights
}

// Decide runs generate, cost, score and select for one request.
// It fails only when no option survives; every other problem drops a single candidate.
func (e *DecisionEngine) Decide(ctx context.Context, req domain.FulfillmentRequest) (*domain.FulfillmentDecision, error) {
	start := e.now()
	if err := req.Validate(); err != nil {
		e.metrics.RecordDecision(OutcomeInvalid, 0)
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.decisionTimeout)
	defer cancel()

	ctx, span := e.tracer.Start(ctx, tracing.SpanDecide,
		trace.WithAttributes(tracing.DecisionSpanAttributes(req.OrderID, len(req.Items), string(req.EffectiveServiceLevel()))...),
	)
	defer span.End()

	logger := e.logger.WithContext(ctx).WithOrderID(req.OrderID)
	weights := e.weights.Merge(req.Weights)

	gen := e.generate(ctx, req)
	if len(gen.options) == 0 {
		err := emptyResult(ctx, gen)
		e.metrics.RecordDecision(outcomeFor(err), time.Since(start))
		tracing.RecordResult(span, err)
		logger.Warn("No fulfillment option produced",
			"candidates", gen.enumerated,
			"failedLookups", gen.failed,
			"error", err,
		)
		return nil, err
	}
	if ctx.Err() != nil {
		logger.Warn("Decision deadline reached, deciding on the candidates already costed",
			"options", len(gen.options),
			"candidates", gen.enumerated,
		)
	}

	_, scoreSpan := e.tracer.Start(ctx, tracing.SpanScore, trace.WithAttributes(attribute.Int("fulfillment.option_count", len(gen.options))))
	domain.ScoreOptions(gen.options, weights)
	scoreSpan.End()

	decision, err := domain.SelectDecision(gen.options)
	if err != nil {
		tracing.RecordResult(span, err)
		return nil, err
	}
	decision.OrderID = req.OrderID
	decision.Weights = weights
	decision.DecidedAt = e.now()

	if werr := weights.Validate(); werr != nil {
		decision.AddWarning(domain.WarningWeightMisconfiguration)
		logger.Warn("Scoring with misconfigured weights", "weights", weights.AsMap(), "error", werr)
	}
	if req.Deadline != nil && domain.MissesDeadline(decision.RecommendedOption, start, *req.Deadline) {
		decision.AddWarning(domain.WarningDeadlineAtRisk)
	}

	best := decision.RecommendedOption
	duration := time.Since(start)
	e.metrics.RecordDecision(OutcomeRecommended, duration)
	e.metrics.RecordRecommendation(best.OverallScore, decision.Warnings)

	span.SetAttributes(
		attribute.String("fulfillment.source_id", best.Source.ID),
		attribute.String("fulfillment.carrier_id", best.Carrier.ID),
		attribute.Int("fulfillment.score", best.OverallScore),
	)
	tracing.RecordResult(span, nil)

	logger.Info("Fulfillment decision made",
		"sourceType", best.Source.Type,
		"sourceId", best.Source.ID,
		"carrierId", best.Carrier.ID,
		"score", best.OverallScore,
		"options", len(decision.AllOptions),
		"warnings", decision.Warnings,
	)
	logger.Performance(ctx, "fulfillment.decide", duration, true, map[string]any{
		"candidates": gen.enumerated,
		"options":    len(gen.options),
	})

	return decision, nil
}

// GenerateOptions enumerates and costs every feasible option of the request, in enumeration order.
// An empty result is not an error here.
func (e *DecisionEngine) GenerateOptions(ctx context.Context, req domain.FulfillmentRequest) ([]*domain.FulfillmentOption, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return e.generate(ctx, req).options, nil
}

func emptyResult(ctx context.Context, gen *generation) error {
	switch {
	case ctx.Err() != nil:
		return fmt.Errorf("fulfillment decision: %w", ctx.Err())
	case gen.failed > 0:
		return fmt.Errorf("%w: %d collaborator lookups failed", domain.ErrAllCandidatesFailed, gen.failed)
	default:
		return domain.ErrNoOptionsAvailable
	}
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoOptionsAvailable):
		return OutcomeNoOption
	case errors.Is(err, domain.ErrAllCandidatesFailed):
		return OutcomeAllFailed
	default:
		return OutcomeTimeout
	}
}

// invoke runs one collaborator call with the per-call timeout and the collaborator's breaker.
// The breaker sees the decision context, so only the per-call timeout counts as a collaborator failure.
func invoke[T any](ctx context.Context, e *DecisionEngine, collaborator string, fn func(context.Context) (T, error)) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		e.metrics.RecordCollaboratorCall(collaborator, false)
		return zero, err
	}

	var cb *resilience.CircuitBreaker
	if e.breakers != nil {
		cb = e.breakers.Get(collaborator)
	}

	v, err := resilience.Call(ctx, cb, func(ctx context.Context) (T, error) {
		callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
		defer cancel()
		return fn(callCtx)
	})
	e.metrics.RecordCollaboratorCall(collaborator, err == nil)
	return v, err
}

func (e *DecisionEngine) newGroup() *errgroup.Group {
	g := &errgroup.Group{}
	g.SetLimit(e.maxConcurrency)
	return g
}
