package cloudevents

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFulfillmentDecisionMadeEvent(t *testing.T) {
	factory := NewEventFactory(SourceFulfillment)

	event := factory.CreateFulfillmentDecisionMadeEvent(context.Background(), "corr-1", FulfillmentDecisionMadeData{
		OrderID:      "ORD-1",
		SourceType:   "warehouse",
		SourceID:     "WH-A",
		CarrierID:    "X",
		OverallScore: 83,
	})

	require.NotNil(t, event)
	assert.Equal(t, "1.0", event.SpecVersion)
	assert.Equal(t, FulfillmentDecisionMade, event.Type)
	assert.Equal(t, SourceFulfillment, event.Source)
	assert.Equal(t, "order/ORD-1", event.Subject)
	assert.Equal(t, "corr-1", event.CorrelationID)
	assert.Equal(t, "ORD-1", event.OrderID)
	assert.Equal(t, "application/json", event.DataContentType)
	_, err := uuid.Parse(event.ID)
	assert.NoError(t, err)

	data, ok := event.Data.(FulfillmentDecisionMadeData)
	require.True(t, ok)
	assert.Equal(t, 83, data.OverallScore)
}

func TestCreateEvent_UniqueIDs(t *testing.T) {
	factory := NewEventFactory(SourceFulfillment)
	a := factory.CreateFulfillmentNoOptionEvent(context.Background(), "", "ORD-2", "no stock")
	b := factory.CreateFulfillmentNoOptionEvent(context.Background(), "", "ORD-2", "no stock")

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, FulfillmentNoOption, a.Type)
}
