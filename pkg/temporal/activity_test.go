package temporal

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecisionActivityOptions(t *testing.T) {
	opts := DecisionActivityOptions(10 * time.Second)

	assert.Equal(t, TaskQueues.Fulfillment, opts.TaskQueue)
	assert.Equal(t, 15*time.Second, opts.StartToCloseTimeout)
	assert.ElementsMatch(t, []string{ErrTypeNoFulfillmentOption, ErrTypeInvalidRequest}, opts.RetryPolicy.NonRetryableErrorTypes)
	assert.NotContains(t, opts.RetryPolicy.NonRetryableErrorTypes, ErrTypeCollaborators)
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()

	withoutLogger := cfg.clientOptions(nil)
	assert.Equal(t, "localhost:7233", withoutLogger.HostPort)
	assert.Nil(t, withoutLogger.Logger)

	withLogger := cfg.clientOptions(slog.Default())
	assert.NotNil(t, withLogger.Logger)

	w := DefaultWorkerOptions(TaskQueues.Fulfillment).workerOptions()
	assert.True(t, w.DisableWorkflowWorker)
	assert.Equal(t, 50, w.MaxConcurrentActivityExecutionSize)
}
