package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/metrics"
	"github.com/wms-platform/fulfillment-service/pkg/tracing"
)

// InstrumentedClient hands out collections that record a span, a metric and a debug line per operation
type InstrumentedClient struct {
	client  *Client
	metrics *metrics.Metrics
	logger  *logging.Logger
	tracer  trace.Tracer
}

// NewInstrumentedClient wraps client. m and logger may be nil.
func NewInstrumentedClient(client *Client, m *metrics.Metrics, logger *logging.Logger) *InstrumentedClient {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &InstrumentedClient{client: client, metrics: m, logger: logger, tracer: otel.Tracer("mongodb")}
}

func (c *InstrumentedClient) Collection(name string) *InstrumentedCollection {
	return &InstrumentedCollection{coll: c.client.Collection(name), owner: c}
}

func (c *InstrumentedClient) Close(ctx context.Context) error {
	return c.client.Close(ctx)
}

// HealthCheck pings inside a span. Used as the readiness probe.
func (c *InstrumentedClient) HealthCheck(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "mongodb.ping",
		trace.WithAttributes(tracing.DatabaseSpanAttributes(c.client.db.Name(), "ping", "")...),
	)
	defer span.End()

	err := c.client.HealthCheck(ctx)
	tracing.RecordResult(span, err)
	return err
}

// InstrumentedCollection exposes the read and index operations the directory repositories use
type InstrumentedCollection struct {
	coll  *mongo.Collection
	owner *InstrumentedClient
}

// observe runs op inside a client span and records its outcome. A missing document counts as success.
func (c *InstrumentedCollection) observe(ctx context.Context, operation string, op func(context.Context) error) error {
	name := c.coll.Name()
	ctx, span := c.owner.tracer.Start(ctx, "mongodb."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(tracing.DatabaseSpanAttributes(c.coll.Database().Name(), operation, name)...),
	)
	defer span.End()

	start := time.Now()
	err := op(ctx)
	elapsed := time.Since(start)

	ok := err == nil || errors.Is(err, mongo.ErrNoDocuments)
	if ok {
		tracing.RecordResult(span, nil)
	} else {
		tracing.RecordResult(span, err)
	}
	c.owner.metrics.RecordMongoDBOperation(name, operation, ok, elapsed)
	c.owner.logger.WithContext(ctx).Debug("Database query",
		"collection", name,
		"operation", operation,
		"durationMs", elapsed.Milliseconds(),
		"success", ok,
	)
	return err
}

// FindOne decodes one document into out. A missing document surfaces as mongo.ErrNoDocuments.
func (c *InstrumentedCollection) FindOne(ctx context.Context, filter any, out any, opts ...*options.FindOneOptions) error {
	return c.observe(ctx, "findOne", func(ctx context.Context) error {
		return c.coll.FindOne(ctx, filter, opts...).Decode(out)
	})
}

// FindAll decodes every match into out, a pointer to a slice
func (c *InstrumentedCollection) FindAll(ctx context.Context, filter any, out any, opts ...*options.FindOptions) error {
	return c.observe(ctx, "find", func(ctx context.Context) error {
		cursor, err := c.coll.Find(ctx, filter, opts...)
		if err != nil {
			return err
		}
		return cursor.All(ctx, out)
	})
}

// CreateIndexes is idempotent for indexes with identical keys and options
func (c *InstrumentedCollection) CreateIndexes(ctx context.Context, models []mongo.IndexModel) error {
	return c.observe(ctx, "createIndexes", func(ctx context.Context) error {
		_, err := c.coll.Indexes().CreateMany(ctx, models)
		return err
	})
}
