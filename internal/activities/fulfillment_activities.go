package activities

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/wms-platform/fulfillment-service/internal/application"
	apperrors "github.com/wms-platform/fulfillment-service/pkg/errors"
	"github.com/wms-platform/fulfillment-service/pkg/metrics"
	wmstemporal "github.com/wms-platform/fulfillment-service/pkg/temporal"
)

// FulfillmentDecider is the application surface the activity drives
type FulfillmentDecider interface {
	DecideFulfillment(ctx context.Context, cmd application.DecideFulfillmentCommand) (*application.FulfillmentDecisionDTO, error)
}

// FulfillmentActivities exposes fulfillment decisions to workflows
type FulfillmentActivities struct {
	service FulfillmentDecider
	metrics *metrics.Metrics
}

// NewFulfillmentActivities creates a new FulfillmentActivities instance
func NewFulfillmentActivities(service FulfillmentDecider, m *metrics.Metrics) *FulfillmentActivities {
	return &FulfillmentActivities{
		service: service,
		metrics: m,
	}
}

// DecideFulfillment recommends where an order should ship from.
// Business outcomes come back as non-retryable application errors.
func (a *FulfillmentActivities) DecideFulfillment(ctx context.Context, input application.DecideFulfillmentCommand) (*application.FulfillmentDecisionDTO, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Deciding fulfillment", "orderId", input.OrderID, "items", len(input.Items))

	start := time.Now()
	decision, err := a.service.DecideFulfillment(ctx, input)
	a.metrics.RecordActivityCompleted(wmstemporal.ActivityNames.DecideFulfillment, err == nil, time.Since(start))

	if err != nil {
		logger.Error("Fulfillment decision failed", "orderId", input.OrderID, "error", err)
		return nil, toActivityError(err)
	}

	logger.Info("Fulfillment decided",
		"orderId", input.OrderID,
		"sourceId", decision.RecommendedOption.Source.ID,
		"carrierId", decision.RecommendedOption.Carrier.ID,
		"score", decision.RecommendedOption.OverallScore,
	)
	return decision, nil
}

func toActivityError(err error) error {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return fmt.Errorf("failed to decide fulfillment: %w", err)
	}

	switch appErr.Code {
	case apperrors.CodeValidationError, apperrors.CodeBadRequest:
		return temporal.NewNonRetryableApplicationError(appErr.Message, wmstemporal.ErrTypeInvalidRequest, err, appErr.Details)
	case apperrors.CodeNoFulfillmentOption:
		return temporal.NewNonRetryableApplicationError(appErr.Message, wmstemporal.ErrTypeNoFulfillmentOption, err)
	case apperrors.CodeCollaboratorsFailing:
		return temporal.NewApplicationErrorWithCause(appErr.Message, wmstemporal.ErrTypeCollaborators, err)
	}
	if appErr.Retryable() {
		return temporal.NewApplicationErrorWithCause(appErr.Message, wmstemporal.ErrTypeUnavailable, err)
	}
	return fmt.Errorf("failed to decide fulfillment: %w", err)
}
