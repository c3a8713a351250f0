package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	jobTracer          = otel.Tracer("fintrack/scheduler")
	jobMeter           = otel.Meter("fintrack/scheduler")
	jobDuration, _     = jobMeter.Float64Histogram("scheduler.job.duration", metric.WithDescription("Job execution duration in seconds"), metric.WithUnit("s"))
	jobTotal, _        = jobMeter.Int64Counter("scheduler.job.total", metric.WithDescription("Total jobs executed by status"))
	jobQueueDropped, _ = jobMeter.Int64Counter("scheduler.job.queue_dropped", metric.WithDescription("Jobs dropped due to full queue"))
)

const jobTimeout = 30 * time.Second

// WorkerPool manages a pool of concurrent workers that process jobs from a
// bounded queue. Submissions never block: when the queue is full the job is
// dropped and counted, which is the right trade for a simulated feed.
type WorkerPool struct {
	workerCount int
	jobs        chan Job
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	log         zerolog.Logger
}

// NewWorkerPool creates a worker pool with the given concurrency and queue size.
func NewWorkerPool(workerCount, queueSize int, log zerolog.Logger) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workerCount: workerCount,
		jobs:        make(chan Job, queueSize),
		ctx:         ctx,
		cancel:      cancel,
		log:         log,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start() {
	wp.log.Info().Int("workers", wp.workerCount).Msg("starting worker pool")

	for i := 1; i <= wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			wp.log.Debug().Int("worker", id).Msg("worker shutting down")
			return

		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processJob(id, job)
		}
	}
}

// processJob executes a single job with error handling, logging, and telemetry.
func (wp *WorkerPool) processJob(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(wp.ctx, jobTimeout)
	defer cancel()

	ctx, span := jobTracer.Start(ctx, "job.execute",
		trace.WithAttributes(
			attribute.Int("worker.id", workerID),
			attribute.String("job.description", job.Description()),
		),
	)
	defer span.End()

	start := time.Now()

	if err := job.Execute(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		jobDuration.Record(ctx, time.Since(start).Seconds())
		wp.log.Error().Err(err).Int("worker", workerID).
			Str("job", job.Description()).Msg("job failed")
		return
	}

	jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "success")))
	jobDuration.Record(ctx, time.Since(start).Seconds())
	wp.log.Debug().Int("worker", workerID).Str("job", job.Description()).
		Dur("duration", time.Since(start)).Msg("job completed")
}

// Submit adds a job to the queue. Returns an error when the pool is shut
// down or the queue is full; a full queue drops the job rather than block
// the submitter.
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	case wp.jobs <- job:
		return nil
	default:
		jobQueueDropped.Add(context.Background(), 1)
		wp.log.Warn().Str("job", job.Description()).Msg("job queue full, dropping job")
		return fmt.Errorf("job queue full, dropping %s", job.Description())
	}
}

// SubmitBatch adds multiple jobs to the queue, skipping drops.
func (wp *WorkerPool) SubmitBatch(jobs []Job) {
	submitted := 0
	for _, job := range jobs {
		if err := wp.Submit(job); err != nil {
			continue
		}
		submitted++
	}
	wp.log.Debug().Int("submitted", submitted).Int("total", len(jobs)).
		Msg("batch submitted to worker pool")
}

// Shutdown stops the pool, waiting up to timeout for in-flight jobs before
// cancelling their contexts.
func (wp *WorkerPool) Shutdown(timeout time.Duration) {
	close(wp.jobs)

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		wp.log.Info().Msg("worker pool drained")
	case <-time.After(timeout):
		wp.log.Warn().Msg("worker pool shutdown timeout, cancelling jobs")
		wp.cancel()
		<-done
	}

	wp.cancel()
}
