package resilience

import (
	"log/slog"
	"sync"
)

// CircuitBreakerRegistry lazily creates one breaker per collaborator. Safe for concurrent use.
type CircuitBreakerRegistry struct {
	mu        sync.RWMutex
	breakers  map[string]*CircuitBreaker
	logger    *slog.Logger
	observers []StateObserver
}

func NewCircuitBreakerRegistry(logger *slog.Logger, observers ...StateObserver) *CircuitBreakerRegistry {
	return &CircuitBreakerRegistry{
		breakers:  make(map[string]*CircuitBreaker),
		logger:    logger,
		observers: observers,
	}
}

// Get returns the named breaker, creating it with the defaults
func (r *CircuitBreakerRegistry) Get(name string) *CircuitBreaker {
	r.mu.RLock()
	cb, ok := r.breakers[name]
	r.mu.RUnlock()
	if ok {
		return cb
	}
	return r.GetWithConfig(DefaultCircuitBreakerConfig(name))
}

// GetWithConfig returns the breaker named by config. An existing breaker keeps its original config.
func (r *CircuitBreakerRegistry) GetWithConfig(config *CircuitBreakerConfig) *CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.breakers[config.Name]; ok {
		return cb
	}
	cb := NewCircuitBreaker(config, r.logger, r.observers...)
	r.breakers[config.Name] = cb
	return cb
}

// CircuitBreakerStatus is a point-in-time view of one breaker
type CircuitBreakerStatus struct {
	Name                string `json:"name"`
	State               string `json:"state"`
	Requests            uint32 `json:"requests"`
	TotalFailures       uint32 `json:"totalFailures"`
	ConsecutiveFailures uint32 `json:"consecutiveFailures"`
}

// Status reports every breaker created so far
func (r *CircuitBreakerRegistry) Status() map[string]CircuitBreakerStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := make(map[string]CircuitBreakerStatus, len(r.breakers))
	for name, cb := range r.breakers {
		counts := cb.Counts()
		status[name] = CircuitBreakerStatus{
			Name:                name,
			State:               cb.State().String(),
			Requests:            counts.Requests,
			TotalFailures:       counts.TotalFailures,
			ConsecutiveFailures: counts.ConsecutiveFailures,
		}
	}
	return status
}
