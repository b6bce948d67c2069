package resilience

import "time"

// Circuit breaker defaults for fulfillment collaborators. Lookups sit on the
// order-acceptance path, so the open window is kept short.
const (
	DefaultMaxRequests           uint32        = 3
	DefaultInterval              time.Duration = 30 * time.Second
	DefaultTimeout               time.Duration = 15 * time.Second
	DefaultFailureThreshold      uint32        = 5
	DefaultFailureRatioThreshold float64       = 0.5
	DefaultMinRequestsToTrip     uint32        = 20
)
