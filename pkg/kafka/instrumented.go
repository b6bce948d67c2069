package kafka

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/wms-platform/fulfillment-service/pkg/cloudevents"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/metrics"
	"github.com/wms-platform/fulfillment-service/pkg/tracing"
)

// EventPublisher is anything that can put a CloudEvent on a topic
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event *cloudevents.WMSCloudEvent) error
}

// InstrumentedProducer adds a producer span, the traceparent extension and publish metrics
type InstrumentedProducer struct {
	next    EventPublisher
	metrics *metrics.Metrics
	logger  *logging.Logger
	tracer  trace.Tracer
}

func NewInstrumentedProducer(next EventPublisher, m *metrics.Metrics, logger *logging.Logger) *InstrumentedProducer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &InstrumentedProducer{next: next, metrics: m, logger: logger, tracer: otel.Tracer("kafka-producer")}
}

func (p *InstrumentedProducer) PublishEvent(ctx context.Context, topic string, event *cloudevents.WMSCloudEvent) error {
	ctx, span := p.tracer.Start(ctx, "kafka.publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(tracing.MessagingSpanAttributes(topic, "publish")...),
		trace.WithAttributes(
			attribute.String("messaging.kafka.event_type", event.Type),
			attribute.String("messaging.message_id", event.ID),
		),
	)
	defer span.End()

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	if tp := carrier.Get("traceparent"); tp != "" {
		event.TraceParent = tp
	}

	start := time.Now()
	err := p.next.PublishEvent(ctx, topic, event)
	elapsed := time.Since(start)

	tracing.RecordResult(span, err)
	p.metrics.RecordKafkaPublish(topic, event.Type, err == nil, elapsed)

	log := p.logger.WithContext(ctx)
	if err != nil {
		log.Error("Failed to publish event", "topic", topic, "eventType", event.Type, "eventId", event.ID, "error", err)
		return err
	}
	log.Debug("Published event", "topic", topic, "eventType", event.Type, "eventId", event.ID, "durationMs", elapsed.Milliseconds())
	return nil
}
