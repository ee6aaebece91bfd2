package workers

import (
	"context"
	"time"
)

type Job[T any] struct {
	Description JobDescriptor
	ExecFn      ExecutionFn[T]
}

type ExecutionFn[T any] func(ctx context.Context) (T, error)

type JobID string
type jobType string
type jobMetadata map[string]interface{}

type JobDescriptor struct {
	ID       JobID
	JobType  jobType
	Metadata jobMetadata
}

func NewDescriptor(id string, kind string) JobDescriptor {
	return JobDescriptor{
		ID:       JobID(id),
		JobType:  jobType(kind),
		Metadata: jobMetadata{},
	}
}

type Result[T any] struct {
	Value       T
	Err         error
	Description JobDescriptor
	Duration    time.Duration
}

func (j Job[T]) execute(ctx context.Context) Result[T] {
	start := time.Now()
	value, err := j.ExecFn(ctx)
	if err != nil {
		return Result[T]{
			Err:         err,
			Description: j.Description,
			Duration:    time.Since(start),
		}
	}

	return Result[T]{
		Value:       value,
		Description: j.Description,
		Duration:    time.Since(start),
	}
}
