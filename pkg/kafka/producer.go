package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/wms-platform/fulfillment-service/pkg/cloudevents"
)

// Producer writes CloudEvents in binary-mode headers plus a structured JSON body.
// One writer serves every topic; the topic travels on each message.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a synchronous producer. No connection is opened until the first write.
func NewProducer(config *Config) *Producer {
	return &Producer{writer: &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Balancer:     &kafka.Hash{},
		BatchSize:    config.BatchSize,
		BatchTimeout: config.BatchTimeout,
		WriteTimeout: config.WriteTimeout,
		RequiredAcks: kafka.RequiredAcks(config.RequiredAcks),
		Transport:    &kafka.Transport{ClientID: config.ClientID},
	}}
}

// PublishEvent writes event to topic keyed by its subject, so every event about an order lands on one partition
func (p *Producer) PublishEvent(ctx context.Context, topic string, event *cloudevents.WMSCloudEvent) error {
	msg, err := buildMessage(event)
	if err != nil {
		return err
	}
	msg.Topic = topic

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: publish %s to %s: %w", event.Type, topic, err)
	}
	return nil
}

// Close flushes pending messages
func (p *Producer) Close() error {
	return p.writer.Close()
}

func buildMessage(event *cloudevents.WMSCloudEvent) (kafka.Message, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: encode event %s: %w", event.ID, err)
	}

	headers := []kafka.Header{
		header("ce-specversion", event.SpecVersion),
		header("ce-type", event.Type),
		header("ce-source", event.Source),
		header("ce-id", event.ID),
		header("ce-time", event.Time.Format(time.RFC3339)),
		header("content-type", event.DataContentType),
	}
	for _, ext := range []struct{ key, value string }{
		{"ce-wmscorrelationid", event.CorrelationID},
		{"ce-wmsorderid", event.OrderID},
		{"ce-traceparent", event.TraceParent},
	} {
		if ext.value != "" {
			headers = append(headers, header(ext.key, ext.value))
		}
	}

	return kafka.Message{
		Key:     []byte(event.Subject),
		Value:   body,
		Headers: headers,
		Time:    event.Time,
	}, nil
}

func header(key, value string) kafka.Header {
	return kafka.Header{Key: key, Value: []byte(value)}
}
