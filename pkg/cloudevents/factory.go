package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventFactory creates CloudEvents for a single source
type EventFactory struct {
	source string
	now    func() time.Time
}

// NewEventFactory creates a new EventFactory for a specific source
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{source: source, now: time.Now}
}

// CreateEvent creates a new WMSCloudEvent with the given parameters
func (f *EventFactory) CreateEvent(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
) *WMSCloudEvent {
	return &WMSCloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            f.now().UTC(),
		DataContentType: "application/json",
		Data:            data,
		Extensions:      make(map[string]interface{}),
	}
}

// CreateFulfillmentDecisionMadeEvent wraps a recommendation for the audit stream
func (f *EventFactory) CreateFulfillmentDecisionMadeEvent(
	ctx context.Context,
	correlationID string,
	data FulfillmentDecisionMadeData,
) *WMSCloudEvent {
	event := f.CreateEvent(ctx, FulfillmentDecisionMade, "order/"+data.OrderID, data)
	event.CorrelationID = correlationID
	event.OrderID = data.OrderID
	return event
}

// CreateFulfillmentNoOptionEvent records that an order could not be fulfilled
func (f *EventFactory) CreateFulfillmentNoOptionEvent(
	ctx context.Context,
	correlationID string,
	orderID string,
	reason string,
) *WMSCloudEvent {
	event := f.CreateEvent(ctx, FulfillmentNoOption, "order/"+orderID, FulfillmentNoOptionData{
		OrderID: orderID,
		Reason:  reason,
	})
	event.CorrelationID = correlationID
	event.OrderID = orderID
	return event
}
