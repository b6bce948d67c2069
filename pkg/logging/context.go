package logging

import "context"

type contextKey int

const (
	requestIDKey contextKey = iota
	correlationIDKey
	traceIDKey
)

var contextFields = []struct {
	key  contextKey
	attr string
}{
	{requestIDKey, "requestId"},
	{correlationIDKey, "correlationId"},
	{traceIDKey, "traceId"},
}

func contextAttrs(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	var attrs []any
	for _, f := range contextFields {
		if v, ok := ctx.Value(f.key).(string); ok && v != "" {
			attrs = append(attrs, f.attr, v)
		}
	}
	return attrs
}

// ContextWithRequestID stores the request ID for loggers built with WithContext
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ContextWithCorrelationID stores the correlation ID for loggers and emitted events
func ContextWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// ContextWithTraceID stores the active trace ID
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// CorrelationIDFrom returns the correlation ID stored in ctx, or ""
func CorrelationIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(correlationIDKey).(string)
	return v
}
