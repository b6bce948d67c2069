package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/fulfillment-service/pkg/cloudevents"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/metrics"
)

func headerMap(t *testing.T, event *cloudevents.WMSCloudEvent) map[string]string {
	t.Helper()
	msg, err := buildMessage(event)
	require.NoError(t, err)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return headers
}

func TestBuildMessage(t *testing.T) {
	factory := cloudevents.NewEventFactory(cloudevents.SourceFulfillment)
	event := factory.CreateFulfillmentDecisionMadeEvent(context.Background(), "corr-7", cloudevents.FulfillmentDecisionMadeData{
		OrderID: "ORD-7",
	})

	msg, err := buildMessage(event)
	require.NoError(t, err)
	assert.Equal(t, "order/ORD-7", string(msg.Key))

	var decoded cloudevents.WMSCloudEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.ID, decoded.ID)

	headers := headerMap(t, event)
	assert.Equal(t, "1.0", headers["ce-specversion"])
	assert.Equal(t, cloudevents.FulfillmentDecisionMade, headers["ce-type"])
	assert.Equal(t, "corr-7", headers["ce-wmscorrelationid"])
	assert.Equal(t, "ORD-7", headers["ce-wmsorderid"])
	assert.NotContains(t, headers, "ce-traceparent")
}

type recordingPublisher struct {
	topics []string
	err    error
}

func (r *recordingPublisher) PublishEvent(ctx context.Context, topic string, event *cloudevents.WMSCloudEvent) error {
	r.topics = append(r.topics, topic)
	return r.err
}

func TestInstrumentedProducer_PublishEvent(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "success"},
		{name: "broker failure", err: errors.New("broker down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &recordingPublisher{err: tt.err}
			producer := NewInstrumentedProducer(inner, metrics.New(metrics.DefaultConfig("test")), logging.NewNop())
			event := cloudevents.NewEventFactory(cloudevents.SourceFulfillment).
				CreateFulfillmentNoOptionEvent(context.Background(), "", "ORD-1", "no stock")

			err := producer.PublishEvent(context.Background(), Topics.FulfillmentEvents, event)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, []string{Topics.FulfillmentEvents}, inner.topics)
		})
	}
}

func TestNewProducer(t *testing.T) {
	cfg := DefaultConfig()
	p := NewProducer(cfg)

	assert.Empty(t, p.writer.Topic)
	assert.Equal(t, cfg.BatchSize, p.writer.BatchSize)
	assert.Equal(t, cfg.WriteTimeout, p.writer.WriteTimeout)
	transport, ok := p.writer.Transport.(*kafkago.Transport)
	require.True(t, ok)
	assert.Equal(t, cfg.ClientID, transport.ClientID)
	assert.NoError(t, p.Close())
}
