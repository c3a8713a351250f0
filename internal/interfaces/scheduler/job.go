package scheduler

import "context"

// Job represents a unit of work that can be executed by the worker pool.
// Different job types can be plugged in (message ingestion, cleanup, etc).
type Job interface {
	// Execute runs the job with the given context.
	// Context should be respected for cancellation and timeouts.
	Execute(ctx context.Context) error

	// Description returns a human-readable description of the job.
	// Used for logging purposes.
	Description() string
}
