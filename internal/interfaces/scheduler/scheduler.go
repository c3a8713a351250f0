package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler runs a job batch on a fixed interval, feeding the worker pool.
// It drives the simulated message feed: every tick it asks the provider for
// a fresh batch of ingestion jobs.
type Scheduler struct {
	workerPool   *WorkerPool
	interval     time.Duration
	runOnStartup bool
	jobProvider  func(context.Context) ([]Job, error)
	log          zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Config holds configuration for the scheduler.
type Config struct {
	Interval     time.Duration
	WorkerCount  int
	QueueSize    int
	RunOnStartup bool
	JobProvider  func(context.Context) ([]Job, error)
}

// New creates a scheduler with the given configuration.
func New(cfg Config, log zerolog.Logger) (*Scheduler, error) {
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("scheduler interval must be positive")
	}
	if cfg.JobProvider == nil {
		return nil, fmt.Errorf("scheduler job provider is required")
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		workerPool:   NewWorkerPool(cfg.WorkerCount, cfg.QueueSize, log),
		interval:     cfg.Interval,
		runOnStartup: cfg.RunOnStartup,
		jobProvider:  cfg.JobProvider,
		log:          log,
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

// Start launches the worker pool and the tick loop.
func (s *Scheduler) Start() {
	s.workerPool.Start()

	if s.runOnStartup {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runBatch()
		}()
	}

	s.wg.Add(1)
	go s.loop()

	s.log.Info().Dur("interval", s.interval).Msg("scheduler started")
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runBatch()
		}
	}
}

func (s *Scheduler) runBatch() {
	jobs, err := s.jobProvider(s.ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("job provider failed, skipping batch")
		return
	}
	if len(jobs) == 0 {
		return
	}

	s.workerPool.SubmitBatch(jobs)
}

// Stop halts the tick loop and drains the worker pool.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	s.workerPool.Shutdown(10 * time.Second)
	s.log.Info().Msg("scheduler stopped")
}
