package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type countingJob struct {
	count *atomic.Int64
	err   error
	done  *sync.WaitGroup
}

func (j *countingJob) Execute(ctx context.Context) error {
	j.count.Add(1)
	if j.done != nil {
		j.done.Done()
	}
	return j.err
}

func (j *countingJob) Description() string { return "counting job" }

func TestWorkerPoolProcessesAllJobs(t *testing.T) {
	pool := NewWorkerPool(3, 10, zerolog.Nop())
	pool.Start()

	var count atomic.Int64
	var done sync.WaitGroup
	done.Add(10)

	for i := 0; i < 10; i++ {
		if err := pool.Submit(&countingJob{count: &count, done: &done}); err != nil {
			t.Fatalf("Submit() failed: %v", err)
		}
	}

	done.Wait()
	pool.Shutdown(time.Second)

	if got := count.Load(); got != 10 {
		t.Errorf("executed %d jobs, want 10", got)
	}
}

func TestWorkerPoolDropsWhenQueueFull(t *testing.T) {
	// No workers started, queue of 1: the second submit must drop.
	pool := NewWorkerPool(1, 1, zerolog.Nop())

	var count atomic.Int64
	if err := pool.Submit(&countingJob{count: &count}); err != nil {
		t.Fatalf("first Submit() failed: %v", err)
	}
	if err := pool.Submit(&countingJob{count: &count}); err == nil {
		t.Error("second Submit() should fail with a full queue")
	}
}

func TestWorkerPoolContinuesAfterJobError(t *testing.T) {
	pool := NewWorkerPool(1, 10, zerolog.Nop())
	pool.Start()

	var count atomic.Int64
	var done sync.WaitGroup
	done.Add(2)

	_ = pool.Submit(&countingJob{count: &count, done: &done, err: errors.New("boom")})
	_ = pool.Submit(&countingJob{count: &count, done: &done})

	done.Wait()
	pool.Shutdown(time.Second)

	if got := count.Load(); got != 2 {
		t.Errorf("executed %d jobs, want 2", got)
	}
}
