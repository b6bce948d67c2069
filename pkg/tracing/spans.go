package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Span names used by the decision engine
const (
	SpanDecide   = "fulfillment.decide"
	SpanGenerate = "fulfillment.generate"
	SpanScore    = "fulfillment.score"
)

// RecordResult sets the span status from err
func RecordResult(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// DecisionSpanAttributes describe one decision request
func DecisionSpanAttributes(orderID string, itemCount int, serviceLevel string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("fulfillment.order_id", orderID),
		attribute.Int("fulfillment.item_count", itemCount),
		attribute.String("fulfillment.service_level", serviceLevel),
	}
}

func HTTPSpanAttributes(method, route string, status int) []attribute.KeyValue {
	return []attribute.KeyValue{
		semconv.HTTPMethodKey.String(method),
		semconv.HTTPRouteKey.String(route),
		semconv.HTTPStatusCodeKey.Int(status),
	}
}

func DatabaseSpanAttributes(database, operation, collection string) []attribute.KeyValue {
	return []attribute.KeyValue{
		semconv.DBSystemMongoDB,
		semconv.DBNameKey.String(database),
		semconv.DBOperationKey.String(operation),
		attribute.String("db.mongodb.collection", collection),
	}
}

func MessagingSpanAttributes(topic, operation string) []attribute.KeyValue {
	return []attribute.KeyValue{
		semconv.MessagingSystemKey.String("kafka"),
		semconv.MessagingDestinationNameKey.String(topic),
		semconv.MessagingOperationKey.String(operation),
	}
}
