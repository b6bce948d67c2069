package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
}

func DefaultConfig(serviceName string) *Config {
	return &Config{ServiceName: serviceName, Namespace: "wms"}
}

var (
	httpBuckets     = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	storageBuckets  = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}
	decisionBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	activityBuckets = []float64{.01, .05, .1, .5, 1, 5, 10, 30}
)

// Metrics owns a private registry. Every series carries a constant service label.
// All Record methods are safe on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	KafkaEventsPublished *prometheus.CounterVec
	KafkaPublishDuration *prometheus.HistogramVec

	MongoDBOperations        *prometheus.CounterVec
	MongoDBOperationDuration *prometheus.HistogramVec

	ActivitiesCompleted *prometheus.CounterVec
	ActivityDuration    *prometheus.HistogramVec

	DecisionsTotal    *prometheus.CounterVec
	DecisionDuration  prometheus.Histogram
	CandidatesTotal   *prometheus.CounterVec
	CollaboratorCalls *prometheus.CounterVec
	RecommendedScore  prometheus.Histogram
	DecisionWarnings  *prometheus.CounterVec

	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// New registers the runtime collectors and every fulfillment series on a fresh registry
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	f := promauto.With(prometheus.WrapRegistererWith(prometheus.Labels{"service": config.ServiceName}, registry))
	ns := config.Namespace

	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return f.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: name, Help: help}, labels)
	}
	histogram := func(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
		return f.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: name, Help: help, Buckets: buckets}, labels)
	}

	return &Metrics{
		registry: registry,

		HTTPRequestsTotal:   counter("http_requests_total", "Total number of HTTP requests", "method", "path", "status"),
		HTTPRequestDuration: histogram("http_request_duration_seconds", "HTTP request duration in seconds", httpBuckets, "method", "path"),
		HTTPRequestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Name: "http_requests_in_flight", Help: "Number of HTTP requests currently being processed",
		}),

		KafkaEventsPublished: counter("kafka_events_published_total", "Total number of Kafka events published", "topic", "event_type", "status"),
		KafkaPublishDuration: histogram("kafka_publish_duration_seconds", "Kafka publish duration in seconds", storageBuckets[:9], "topic"),

		MongoDBOperations:        counter("mongodb_operations_total", "Total number of MongoDB operations", "collection", "operation", "status"),
		MongoDBOperationDuration: histogram("mongodb_operation_duration_seconds", "MongoDB operation duration in seconds", storageBuckets, "collection", "operation"),

		ActivitiesCompleted: counter("temporal_activities_completed_total", "Total number of Temporal activities completed", "activity_type", "status"),
		ActivityDuration:    histogram("temporal_activity_duration_seconds", "Temporal activity duration in seconds", activityBuckets, "activity_type"),

		DecisionsTotal: counter("fulfillment_decisions_total", "Fulfillment decisions by outcome", "outcome"),
		DecisionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Name: "fulfillment_decision_duration_seconds", Help: "End-to-end duration of a fulfillment decision", Buckets: decisionBuckets,
		}),
		CandidatesTotal:   counter("fulfillment_candidates_total", "Fulfillment candidates evaluated, by source type and outcome", "source_type", "outcome"),
		CollaboratorCalls: counter("fulfillment_collaborator_calls_total", "Calls made to fulfillment collaborators", "collaborator", "status"),
		RecommendedScore: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Name: "fulfillment_recommended_score", Help: "Overall score of the recommended option", Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		DecisionWarnings: counter("fulfillment_decision_warnings_total", "Warnings attached to fulfillment decisions", "warning"),

		CircuitBreakerState: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns, Name: "circuit_breaker_state", Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		}, []string{"name"}),
		CircuitBreakerTrips: counter("circuit_breaker_trips_total", "Total number of circuit breaker trips", "name"),
	}
}

// Handler serves the registry in OpenMetrics format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) IncrementHTTPRequestsInFlight() {
	if m != nil {
		m.HTTPRequestsInFlight.Inc()
	}
}

func (m *Metrics) DecrementHTTPRequestsInFlight() {
	if m != nil {
		m.HTTPRequestsInFlight.Dec()
	}
}

func (m *Metrics) RecordKafkaPublish(topic, eventType string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.KafkaEventsPublished.WithLabelValues(topic, eventType, statusLabel(success)).Inc()
	m.KafkaPublishDuration.WithLabelValues(topic).Observe(duration.Seconds())
}

func (m *Metrics) RecordMongoDBOperation(collection, operation string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.MongoDBOperations.WithLabelValues(collection, operation, statusLabel(success)).Inc()
	m.MongoDBOperationDuration.WithLabelValues(collection, operation).Observe(duration.Seconds())
}

func (m *Metrics) RecordActivityCompleted(activityType string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.ActivitiesCompleted.WithLabelValues(activityType, statusLabel(success)).Inc()
	m.ActivityDuration.WithLabelValues(activityType).Observe(duration.Seconds())
}

// RecordDecision counts one decision by outcome and observes its duration
func (m *Metrics) RecordDecision(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.DecisionsTotal.WithLabelValues(outcome).Inc()
	m.DecisionDuration.Observe(duration.Seconds())
}

// RecordCandidate counts a candidate as costed or dropped
func (m *Metrics) RecordCandidate(sourceType, outcome string) {
	if m != nil {
		m.CandidatesTotal.WithLabelValues(sourceType, outcome).Inc()
	}
}

func (m *Metrics) RecordCollaboratorCall(collaborator string, success bool) {
	if m != nil {
		m.CollaboratorCalls.WithLabelValues(collaborator, statusLabel(success)).Inc()
	}
}

// RecordRecommendation observes the winning score and counts each warning
func (m *Metrics) RecordRecommendation(score int, warnings []string) {
	if m == nil {
		return
	}
	m.RecommendedScore.Observe(float64(score))
	for _, w := range warnings {
		m.DecisionWarnings.WithLabelValues(w).Inc()
	}
}

func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	if m != nil {
		m.CircuitBreakerState.WithLabelValues(name).Set(float64(state))
	}
}

func (m *Metrics) RecordCircuitBreakerTrip(name string) {
	if m != nil {
		m.CircuitBreakerTrips.WithLabelValues(name).Inc()
	}
}
