package scheduler

import (
	"context"
	"fmt"

	"fintrack/internal/domain/ingest"
	"fintrack/internal/domain/message"
)

// IngestJob pushes one generated bank message through the pipeline.
type IngestJob struct {
	pipeline *ingest.Service
	raw      string
}

func NewIngestJob(pipeline *ingest.Service, raw string) *IngestJob {
	return &IngestJob{pipeline: pipeline, raw: raw}
}

func (j *IngestJob) Execute(ctx context.Context) error {
	_, err := j.pipeline.Ingest(ctx, j.raw)
	return err
}

func (j *IngestJob) Description() string {
	return "ingest generated bank message"
}

// IngestBatchProvider builds the per-tick batch of ingestion jobs from the
// message generator. Not safe for concurrent use; the scheduler calls it
// from a single goroutine.
func IngestBatchProvider(pipeline *ingest.Service, gen *message.Generator, batchSize int) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		if batchSize <= 0 {
			return nil, fmt.Errorf("batch size must be positive")
		}

		jobs := make([]Job, 0, batchSize)
		for i := 0; i < batchSize; i++ {
			jobs = append(jobs, NewIngestJob(pipeline, gen.Generate()))
		}
		return jobs, nil
	}
}
