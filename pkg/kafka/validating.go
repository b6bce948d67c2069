package kafka

import (
	"context"
	"fmt"

	"github.com/wms-platform/fulfillment-service/pkg/cloudevents"
)

// EventValidator checks an event against its published contract
type EventValidator interface {
	ValidateEvent(event *cloudevents.WMSCloudEvent) error
}

// ValidatingPublisher refuses to publish events that break their contract
type ValidatingPublisher struct {
	next      EventPublisher
	validator EventValidator
}

// NewValidatingPublisher wraps next with contract validation
func NewValidatingPublisher(next EventPublisher, validator EventValidator) *ValidatingPublisher {
	return &ValidatingPublisher{next: next, validator: validator}
}

// PublishEvent validates event and hands it to the wrapped publisher
func (p *ValidatingPublisher) PublishEvent(ctx context.Context, topic string, event *cloudevents.WMSCloudEvent) error {
	if err := p.validator.ValidateEvent(event); err != nil {
		return fmt.Errorf("event rejected by contract: %w", err)
	}
	return p.next.PublishEvent(ctx, topic, event)
}
