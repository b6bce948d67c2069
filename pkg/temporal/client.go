package temporal

import (
	"context"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
)

// Config holds Temporal client configuration
type Config struct {
	HostPort  string
	Namespace string
	Identity  string
}

func DefaultConfig() *Config {
	return &Config{
		HostPort:  "localhost:7233",
		Namespace: "default",
		Identity:  "fulfillment-worker",
	}
}

func (c *Config) clientOptions(logger *slog.Logger) client.Options {
	opts := client.Options{
		HostPort:  c.HostPort,
		Namespace: c.Namespace,
		Identity:  c.Identity,
	}
	if logger != nil {
		opts.Logger = log.NewStructuredLogger(logger)
	}
	return opts
}

// TaskQueues served by this service
var TaskQueues = struct {
	Fulfillment string
}{
	Fulfillment: "fulfillment-queue",
}

// ActivityNames registered by this service
var ActivityNames = struct {
	DecideFulfillment string
}{
	DecideFulfillment: "DecideFulfillment",
}

// Client is a dialed Temporal client
type Client struct {
	client.Client
}

// NewClient dials Temporal. SDK logs go through logger when it is non-nil.
func NewClient(ctx context.Context, config *Config, logger *slog.Logger) (*Client, error) {
	c, err := client.DialContext(ctx, config.clientOptions(logger))
	if err != nil {
		return nil, fmt.Errorf("temporal: dial %s/%s: %w", config.HostPort, config.Namespace, err)
	}
	return &Client{Client: c}, nil
}

// WorkerOptions size an activity-only worker
type WorkerOptions struct {
	TaskQueue                    string
	MaxConcurrentActivityPollers int
	MaxConcurrentActivities      int
}

func DefaultWorkerOptions(taskQueue string) *WorkerOptions {
	return &WorkerOptions{
		TaskQueue:                    taskQueue,
		MaxConcurrentActivityPollers: 4,
		MaxConcurrentActivities:      50,
	}
}

func (o *WorkerOptions) workerOptions() worker.Options {
	return worker.Options{
		MaxConcurrentActivityExecutionSize: o.MaxConcurrentActivities,
		MaxConcurrentActivityTaskPollers:   o.MaxConcurrentActivityPollers,
		DisableWorkflowWorker:              true,
	}
}

// NewWorker creates a worker that only polls for activities on opts.TaskQueue
func (c *Client) NewWorker(opts *WorkerOptions) worker.Worker {
	return worker.New(c.Client, opts.TaskQueue, opts.workerOptions())
}
