package asyncapi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/fulfillment-service/pkg/cloudevents"
)

func decisionData() cloudevents.FulfillmentDecisionMadeData {
	return cloudevents.FulfillmentDecisionMadeData{
		OrderID:               "ORD-1",
		SourceType:            "warehouse",
		SourceID:              "WH-A",
		CarrierID:             "X",
		TotalCost:             11,
		EstimatedMargin:       9,
		EstimatedDeliveryDays: 2,
		OverallScore:          60,
		OptionCount:           2,
		Weights:               map[string]float64{"cost": 0.3, "time": 0.3, "quality": 0.2, "margin": 0.2},
		DecidedAt:             time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

func TestFulfillmentValidator_SupportedTypes(t *testing.T) {
	v, err := NewFulfillmentValidator()
	require.NoError(t, err)

	assert.Equal(t, []string{cloudevents.FulfillmentDecisionMade, cloudevents.FulfillmentNoOption}, v.SupportedEventTypes())
	assert.True(t, v.HasSchema(cloudevents.FulfillmentNoOption))
	assert.False(t, v.HasSchema("wms.order.received"))
}

func TestFulfillmentValidator_FactoryEventsConform(t *testing.T) {
	v, err := NewFulfillmentValidator()
	require.NoError(t, err)
	factory := cloudevents.NewEventFactory(cloudevents.SourceFulfillment)
	ctx := context.Background()

	assert.NoError(t, v.ValidateEvent(factory.CreateFulfillmentDecisionMadeEvent(ctx, "corr-1", decisionData())))
	assert.NoError(t, v.ValidateEvent(factory.CreateFulfillmentNoOptionEvent(ctx, "", "ORD-1", "no fulfillment option available")))
}

func TestFulfillmentValidator_Rejects(t *testing.T) {
	v, err := NewFulfillmentValidator()
	require.NoError(t, err)
	factory := cloudevents.NewEventFactory(cloudevents.SourceFulfillment)
	ctx := context.Background()

	tests := []struct {
		name  string
		event func() *cloudevents.WMSCloudEvent
	}{
		{"nil event", func() *cloudevents.WMSCloudEvent { return nil }},
		{"unknown type", func() *cloudevents.WMSCloudEvent {
			return factory.CreateEvent(ctx, "wms.fulfillment.unknown", "order/ORD-1", map[string]any{})
		}},
		{"missing data", func() *cloudevents.WMSCloudEvent {
			return factory.CreateEvent(ctx, cloudevents.FulfillmentNoOption, "order/ORD-1", nil)
		}},
		{"bad spec version", func() *cloudevents.WMSCloudEvent {
			e := factory.CreateFulfillmentNoOptionEvent(ctx, "", "ORD-1", "none")
			e.SpecVersion = "0.3"
			return e
		}},
		{"empty reason", func() *cloudevents.WMSCloudEvent {
			return factory.CreateFulfillmentNoOptionEvent(ctx, "", "ORD-1", "")
		}},
		{"unknown source type", func() *cloudevents.WMSCloudEvent {
			d := decisionData()
			d.SourceType = "dropship"
			return factory.CreateFulfillmentDecisionMadeEvent(ctx, "", d)
		}},
		{"missing weights", func() *cloudevents.WMSCloudEvent {
			d := decisionData()
			d.Weights = map[string]float64{"cost": 1}
			return factory.CreateFulfillmentDecisionMadeEvent(ctx, "", d)
		}},
		{"no options", func() *cloudevents.WMSCloudEvent {
			d := decisionData()
			d.OptionCount = 0
			return factory.CreateFulfillmentDecisionMadeEvent(ctx, "", d)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, v.ValidateEvent(tt.event()))
		})
	}
}

func TestNewEventValidatorFromBytes_Invalid(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{"not yaml", "asyncapi: [unterminated"},
		{"message without name", `
components:
  messages:
    Broken:
      payload: {type: object}
`},
		{"invalid schema", `
components:
  messages:
    Broken:
      name: wms.broken
      payload: {type: 42}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEventValidatorFromBytes([]byte(tt.spec))
			assert.Error(t, err)
		})
	}
}
