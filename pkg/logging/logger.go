package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"
)

// LogLevel is a textual level as read from configuration
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// Level maps the textual level to slog. Unknown values fall back to info.
func (l LogLevel) Level() slog.Level {
	switch LogLevel(strings.ToLower(string(l))) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config holds logger configuration
type Config struct {
	Level       LogLevel
	ServiceName string
	Environment string
	Version     string
	Output      io.Writer
	AddSource   bool
}

// DefaultConfig reads ENVIRONMENT and VERSION and writes JSON to stdout at info
func DefaultConfig(serviceName string) *Config {
	cfg := &Config{
		Level:       LevelInfo,
		ServiceName: serviceName,
		Environment: os.Getenv("ENVIRONMENT"),
		Version:     os.Getenv("VERSION"),
		Output:      os.Stdout,
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Version == "" {
		cfg.Version = "unknown"
	}
	return cfg
}

// Logger is a slog.Logger carrying service metadata, with helpers for the decision engine's log lines
type Logger struct {
	*slog.Logger
}

// New builds a JSON logger. Every record gets the service, environment and version attributes.
func New(config *Config) *Logger {
	out := config.Output
	if out == nil {
		out = os.Stdout
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:       config.Level.Level(),
		AddSource:   config.AddSource,
		ReplaceAttr: utcTimestamps,
	})

	return &Logger{Logger: slog.New(handler).With(
		slog.String("service", config.ServiceName),
		slog.String("environment", config.Environment),
		slog.String("version", config.Version),
	)}
}

// NewNop discards everything
func NewNop() *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(io.Discard, nil))}
}

func utcTimestamps(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.TimeKey {
		return a
	}
	if t, ok := a.Value.Any().(time.Time); ok {
		a.Value = slog.StringValue(t.UTC().Format(time.RFC3339Nano))
	}
	return a
}

func (l *Logger) with(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}
	return &Logger{Logger: l.Logger.With(args...)}
}

// WithContext adds the request, correlation and trace IDs found in ctx
func (l *Logger) WithContext(ctx context.Context) *Logger {
	return l.with(contextAttrs(ctx)...)
}

// WithOrderID scopes the logger to one order decision
func (l *Logger) WithOrderID(orderID string) *Logger {
	return l.with("orderId", orderID)
}

// WithComponent names the process part writing the log, such as "worker"
func (l *Logger) WithComponent(component string) *Logger {
	return l.with("component", component)
}

// WithError adds err. A nil error leaves the logger unchanged.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.with("error", err.Error())
}

// Performance logs how long an operation took, with optional extra fields
func (l *Logger) Performance(ctx context.Context, operation string, duration time.Duration, success bool, details map[string]any) {
	attrs := make([]any, 0, 6+2*len(details))
	attrs = append(attrs, "operation", operation, "durationMs", duration.Milliseconds(), "success", success)
	for k, v := range details {
		attrs = append(attrs, k, v)
	}
	l.WithContext(ctx).Info("Performance metric", attrs...)
}

// CandidateDropped logs a fulfillment candidate excluded from a decision. Always warn level.
func (l *Logger) CandidateDropped(ctx context.Context, sourceType, sourceID, carrierID, reason string) {
	l.WithContext(ctx).Warn("Fulfillment candidate dropped",
		"sourceType", sourceType,
		"sourceId", sourceID,
		"carrierId", carrierID,
		"reason", reason,
	)
}

// HTTPRequest logs an access line. 5xx logs at error, 4xx at warn.
func (l *Logger) HTTPRequest(ctx context.Context, method, path string, status int, duration time.Duration, clientIP string) {
	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}

	l.WithContext(ctx).Log(ctx, level, "HTTP request",
		"method", method,
		"path", path,
		"status", status,
		"durationMs", duration.Milliseconds(),
		"clientIP", clientIP,
	)
}

// Panic logs a recovered panic with the current goroutine's stack
func (l *Logger) Panic(ctx context.Context, recovered any) {
	buf := make([]byte, 8<<10)
	buf = buf[:runtime.Stack(buf, false)]
	l.WithContext(ctx).Error("Panic recovered", "panic", recovered, "stack", string(buf))
}

// SetDefault makes this logger the process-wide slog default
func (l *Logger) SetDefault() {
	slog.SetDefault(l.Logger)
}
