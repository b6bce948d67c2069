package application

import (
	"context"
	"errors"
	"time"

	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/pkg/cloudevents"
	apperrors "github.com/wms-platform/fulfillment-service/pkg/errors"
	"github.com/wms-platform/fulfillment-service/pkg/kafka"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/middleware"
)

// DefaultPublishTimeout bounds the audit event publish after a decision
const DefaultPublishTimeout = 3 * time.Second

// Decider is the engine surface the service needs
type Decider interface {
	Decide(ctx context.Context, req domain.FulfillmentRequest) (*domain.FulfillmentDecision, error)
}

// FulfillmentApplicationService validates commands, runs the decision engine
// and records the outcome on the fulfillment event stream
type FulfillmentApplicationService struct {
	engine         Decider
	producer       kafka.EventPublisher
	eventFactory   *cloudevents.EventFactory
	logger         *logging.Logger
	publishTimeout time.Duration
}

// NewFulfillmentApplicationService creates a new FulfillmentApplicationService.
// A nil producer disables event publishing.
func NewFulfillmentApplicationService(
	engine Decider,
	producer kafka.EventPublisher,
	eventFactory *cloudevents.EventFactory,
	logger *logging.Logger,
) *FulfillmentApplicationService {
	if eventFactory == nil {
		eventFactory = cloudevents.NewEventFactory(cloudevents.SourceFulfillment)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FulfillmentApplicationService{
		engine:         engine,
		producer:       producer,
		eventFactory:   eventFactory,
		logger:         logger.WithComponent("fulfillment-service"),
		publishTimeout: DefaultPublishTimeout,
	}
}

// DecideFulfillment returns the recommended fulfillment option for an order
func (s *FulfillmentApplicationService) DecideFulfillment(ctx context.Context, cmd DecideFulfillmentCommand) (*FulfillmentDecisionDTO, error) {
	logger := s.logger.WithContext(ctx).WithOrderID(cmd.OrderID)

	if appErr := middleware.ValidateStruct(cmd); appErr != nil {
		logger.Warn("Rejected fulfillment command", "details", appErr.Details)
		return nil, appErr
	}

	logger.Info("Deciding fulfillment", "items", len(cmd.Items), "serviceLevel", cmd.ServiceLevel)

	decision, err := s.engine.Decide(ctx, cmd.ToDomain())
	if err != nil {
		appErr := MapDecisionError(err)
		logger.WithError(err).Warn("Fulfillment decision failed", "code", appErr.Code)
		if appErr.Code == apperrors.CodeNoFulfillmentOption || appErr.Code == apperrors.CodeCollaboratorsFailing {
			s.publishNoOption(ctx, cmd.OrderID, err)
		}
		return nil, appErr
	}

	s.publishDecision(ctx, decision)

	return ToFulfillmentDecisionDTO(decision), nil
}

// MapDecisionError maps engine errors to application errors
func MapDecisionError(err error) *apperrors.AppError {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return apperrors.ErrValidation(err.Error()).Wrap(err)
	case errors.Is(err, domain.ErrNoOptionsAvailable):
		return apperrors.ErrNoFulfillmentOption().Wrap(err)
	case errors.Is(err, domain.ErrAllCandidatesFailed):
		return apperrors.ErrCollaboratorsFailing().Wrap(err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.ErrTimeout("fulfillment decision").Wrap(err)
	case errors.Is(err, context.Canceled):
		return apperrors.ErrServiceUnavailable("fulfillment decision").Wrap(err)
	default:
		return apperrors.ErrInternal("").Wrap(err)
	}
}

func (s *FulfillmentApplicationService) publishDecision(ctx context.Context, d *domain.FulfillmentDecision) {
	if s.producer == nil {
		return
	}
	best := d.RecommendedOption
	event := s.eventFactory.CreateFulfillmentDecisionMadeEvent(ctx, correlationID(ctx), cloudevents.FulfillmentDecisionMadeData{
		OrderID:               d.OrderID,
		SourceType:            string(best.Source.Type),
		SourceID:              best.Source.ID,
		CarrierID:             best.Carrier.ID,
		TotalCost:             money(best.TotalCost),
		EstimatedMargin:       money(best.EstimatedMargin),
		EstimatedDeliveryDays: best.EstimatedDeliveryDays,
		OverallScore:          best.OverallScore,
		OptionCount:           len(d.AllOptions),
		Weights:               d.Weights.AsMap(),
		Warnings:              d.Warnings,
		DecidedAt:             d.DecidedAt,
	})
	s.publish(ctx, d.OrderID, event)
}

func (s *FulfillmentApplicationService) publishNoOption(ctx context.Context, orderID string, cause error) {
	if s.producer == nil {
		return
	}
	event := s.eventFactory.CreateFulfillmentNoOptionEvent(ctx, correlationID(ctx), orderID, cause.Error())
	s.publish(ctx, orderID, event)
}

// publish never fails the decision; the event stream is an audit trail
func (s *FulfillmentApplicationService) publish(ctx context.Context, orderID string, event *cloudevents.WMSCloudEvent) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	if err := s.producer.PublishEvent(pubCtx, kafka.Topics.FulfillmentEvents, event); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to publish fulfillment event",
			"orderId", orderID,
			"eventType", event.Type,
		)
	}
}

func correlationID(ctx context.Context) string {
	return logging.CorrelationIDFrom(ctx)
}
