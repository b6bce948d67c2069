package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wms-platform/fulfillment-service/internal/application"
	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/pkg/kafka"
	"github.com/wms-platform/fulfillment-service/pkg/mongodb"
	"github.com/wms-platform/fulfillment-service/pkg/temporal"
	"github.com/wms-platform/fulfillment-service/pkg/tracing"
)

// ServiceName identifies this service in logs, metrics and traces
const ServiceName = "fulfillment-service"

// Directory sources
const (
	DirectoryMongoDB = "mongodb"
	DirectoryFile    = "file"
)

// Config holds application configuration
type Config struct {
	ServerAddr      string
	LogLevel        string
	DirectorySource string
	DirectoryFile   string
	EventsEnabled   bool

	// ContractValidation checks every published event against the AsyncAPI contract
	ContractValidation bool

	DecisionTimeout time.Duration
	CallTimeout     time.Duration
	MaxConcurrency  int
	Weights         domain.PartialWeights

	MongoDB  *mongodb.Config
	Kafka    *kafka.Config
	Temporal *temporal.Config
	Tracing  *tracing.Config
}

// LoadConfig reads the configuration from the environment
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddr:      getEnv("SERVER_ADDR", ":8030"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DirectorySource: getEnv("DIRECTORY_SOURCE", DirectoryMongoDB),
		DirectoryFile:   getEnv("DIRECTORY_FILE", "config/directory.yaml"),
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "fulfillment_db"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
		},
		Kafka: &kafka.Config{
			Brokers:      strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			ClientID:     ServiceName,
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: -1,
			WriteTimeout: 5 * time.Second,
		},
		Temporal: &temporal.Config{
			HostPort:  getEnv("TEMPORAL_HOST_PORT", "localhost:7233"),
			Namespace: getEnv("TEMPORAL_NAMESPACE", "default"),
			Identity:  getEnv("TEMPORAL_IDENTITY", ServiceName+"-worker"),
		},
		Tracing: tracing.DefaultConfig(ServiceName),
	}
	cfg.Tracing.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	cfg.Tracing.Environment = getEnv("ENVIRONMENT", "development")

	var err error
	if cfg.Tracing.Enabled, err = envBool("TRACING_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.EventsEnabled, err = envBool("DECISION_EVENTS_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.ContractValidation, err = envBool("EVENT_CONTRACT_VALIDATION", true); err != nil {
		return nil, err
	}
	if cfg.DecisionTimeout, err = envDuration("DECISION_TIMEOUT", application.DefaultDecisionTimeout); err != nil {
		return nil, err
	}
	if cfg.CallTimeout, err = envDuration("CANDIDATE_TIMEOUT", application.DefaultCallTimeout); err != nil {
		return nil, err
	}
	if cfg.MaxConcurrency, err = envInt("MAX_CONCURRENCY", application.DefaultMaxConcurrency); err != nil {
		return nil, err
	}

	weights := []struct {
		key string
		dst **float64
	}{
		{"WEIGHT_COST", &cfg.Weights.Cost},
		{"WEIGHT_TIME", &cfg.Weights.Time},
		{"WEIGHT_QUALITY", &cfg.Weights.Quality},
		{"WEIGHT_MARGIN", &cfg.Weights.Margin},
	}
	for _, w := range weights {
		v, ok := os.LookupEnv(w.key)
		if !ok || v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", w.key, err)
		}
		*w.dst = &f
	}

	switch cfg.DirectorySource {
	case DirectoryMongoDB, DirectoryFile:
	default:
		return nil, fmt.Errorf("invalid DIRECTORY_SOURCE %q: must be %s or %s", cfg.DirectorySource, DirectoryMongoDB, DirectoryFile)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envBool(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func envInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
