package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned when a collaborator call is rejected by an open or saturated breaker
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig holds configuration for a circuit breaker
type CircuitBreakerConfig struct {
	Name                  string
	MaxRequests           uint32        // probes allowed while half-open
	Interval              time.Duration // closed-state counts reset after this
	Timeout               time.Duration // open to half-open delay
	FailureThreshold      uint32        // consecutive failures that trip
	FailureRatioThreshold float64
	MinRequestsToTrip     uint32
}

// DefaultCircuitBreakerConfig returns the shared defaults for the named breaker
func DefaultCircuitBreakerConfig(name string) *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Name:                  name,
		MaxRequests:           DefaultMaxRequests,
		Interval:              DefaultInterval,
		Timeout:               DefaultTimeout,
		FailureThreshold:      DefaultFailureThreshold,
		FailureRatioThreshold: DefaultFailureRatioThreshold,
		MinRequestsToTrip:     DefaultMinRequestsToTrip,
	}
}

// readyToTrip opens on a run of consecutive failures, or on the failure ratio once enough calls were seen
func (c *CircuitBreakerConfig) readyToTrip(counts gobreaker.Counts) bool {
	if counts.ConsecutiveFailures >= c.FailureThreshold {
		return true
	}
	if counts.Requests < c.MinRequestsToTrip || counts.Requests == 0 {
		return false
	}
	return float64(counts.TotalFailures)/float64(counts.Requests) >= c.FailureRatioThreshold
}

// callerError marks a failure caused by the caller's context ending, not by the collaborator
type callerError struct {
	err error
}

func (e callerError) Error() string { return e.err.Error() }

func (e callerError) Unwrap() error { return e.err }

// isSuccessful keeps caller deadlines and cancellations out of the failure counts
func isSuccessful(err error) bool {
	var ce callerError
	return err == nil || errors.As(err, &ce)
}

// StateObserver is notified when a breaker changes state
type StateObserver func(name string, from, to gobreaker.State)

// CircuitBreaker guards one collaborator
type CircuitBreaker struct {
	cb     *gobreaker.CircuitBreaker
	logger *slog.Logger
}

// NewCircuitBreaker creates a breaker that reports state changes to logger and every observer
func NewCircuitBreaker(config *CircuitBreakerConfig, logger *slog.Logger, observers ...StateObserver) *CircuitBreaker {
	if logger == nil {
		logger = slog.Default()
	}
	onChange := func(name string, from, to gobreaker.State) {
		logger.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		for _, observe := range observers {
			observe(name, from, to)
		}
	}

	return &CircuitBreaker{
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:          config.Name,
			MaxRequests:   config.MaxRequests,
			Interval:      config.Interval,
			Timeout:       config.Timeout,
			ReadyToTrip:   config.readyToTrip,
			IsSuccessful:  isSuccessful,
			OnStateChange: onChange,
		}),
		logger: logger,
	}
}

// Execute runs fn through the breaker. Rejections wrap ErrCircuitOpen.
// An error returned once ctx is done is passed through without counting against the collaborator.
func (c *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		res, err := fn(ctx)
		if err != nil && ctx.Err() != nil {
			return res, callerError{err: err}
		}
		return res, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.logger.Warn("Circuit breaker rejected call", "name", c.Name(), "reason", err.Error())
		return nil, fmt.Errorf("%s: %w", c.Name(), ErrCircuitOpen)
	}
	var ce callerError
	if errors.As(err, &ce) {
		return result, ce.err
	}
	return result, err
}

func (c *CircuitBreaker) State() gobreaker.State {
	return c.cb.State()
}

func (c *CircuitBreaker) Name() string {
	return c.cb.Name()
}

func (c *CircuitBreaker) Counts() gobreaker.Counts {
	return c.cb.Counts()
}

// Call runs a typed collaborator call through cb. A nil breaker calls fn directly.
func Call[T any](ctx context.Context, cb *CircuitBreaker, fn func(ctx context.Context) (T, error)) (T, error) {
	if cb == nil {
		return fn(ctx)
	}

	var out T
	_, err := cb.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		v, err := fn(ctx)
		out = v
		return nil, err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// BreakerMetrics is what a breaker reports its state changes to
type BreakerMetrics interface {
	SetCircuitBreakerState(name string, state int)
	RecordCircuitBreakerTrip(name string)
}

// MetricsObserver exports breaker state as 0 closed, 1 half-open, 2 open
func MetricsObserver(m BreakerMetrics) StateObserver {
	return func(name string, _, to gobreaker.State) {
		m.SetCircuitBreakerState(name, int(to))
		if to == gobreaker.StateOpen {
			m.RecordCircuitBreakerTrip(name)
		}
	}
}
