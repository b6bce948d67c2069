package temporal

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Application error types returned by fulfillment activities
const (
	ErrTypeNoFulfillmentOption = "NoFulfillmentOption"
	ErrTypeInvalidRequest      = "InvalidFulfillmentRequest"
	ErrTypeCollaborators       = "CollaboratorsUnavailable"
	ErrTypeUnavailable         = "FulfillmentUnavailable"
)

// DecisionActivityRetryPolicy is the retry policy callers should schedule DecideFulfillment with.
// A "no option" answer is a business outcome and is never retried.
func DecisionActivityRetryPolicy() *temporal.RetryPolicy {
	return &temporal.RetryPolicy{
		InitialInterval:        time.Second,
		BackoffCoefficient:     2.0,
		MaximumInterval:        30 * time.Second,
		MaximumAttempts:        3,
		NonRetryableErrorTypes: []string{ErrTypeNoFulfillmentOption, ErrTypeInvalidRequest},
	}
}

// DecisionActivityOptions schedules DecideFulfillment on the fulfillment queue.
// decisionTimeout is the engine's own deadline; the activity gets a little headroom over it.
func DecisionActivityOptions(decisionTimeout time.Duration) workflow.ActivityOptions {
	return workflow.ActivityOptions{
		TaskQueue:           TaskQueues.Fulfillment,
		StartToCloseTimeout: decisionTimeout + 5*time.Second,
		RetryPolicy:         DecisionActivityRetryPolicy(),
	}
}
