package workers

import (
	"context"
	"sync"
	"sync/atomic"
)

// WorkerPool runs a fixed list of jobs on a bounded number of goroutines.
// Each result is written to the slot of its job, so the caller merges them
// in input order without further locking.
type WorkerPool[T any] struct {
	workersCount  int
	activeWorkers int32
}

func New[T any](numWorkers int) *WorkerPool[T] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T]{
		workersCount: numWorkers,
	}
}

func (wp *WorkerPool[T]) ActiveWorkersCount() int32 {
	return atomic.LoadInt32(&wp.activeWorkers)
}

// Run executes jobs and returns one result per job. The first failing job
// cancels the others and its error is returned; jobs that never started keep
// a zero Result.
func (wp *WorkerPool[T]) Run(parent context.Context, jobs []Job[T]) ([]Result[T], error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	results := make([]Result[T], len(jobs))
	queue := make(chan int)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	workersCount := wp.workersCount
	if workersCount > len(jobs) {
		workersCount = len(jobs)
	}

	for i := 0; i < workersCount; i++ {
		wg.Add(1)
		go wp.worker(ctx, &wg, queue, jobs, results, fail)
	}

feed:
	for i := range jobs {
		select {
		case queue <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(queue)

	wg.Wait()

	if firstErr != nil {
		return results, firstErr
	}
	if err := parent.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (wp *WorkerPool[T]) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	queue <-chan int,
	jobs []Job[T],
	results []Result[T],
	fail func(error),
) {
	defer wg.Done()

	atomic.AddInt32(&wp.activeWorkers, 1)
	defer atomic.AddInt32(&wp.activeWorkers, -1)

	for {
		select {
		case idx, ok := <-queue:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				continue
			}
			result := jobs[idx].execute(ctx)
			results[idx] = result
			if result.Err != nil {
				fail(result.Err)
			}
		case <-ctx.Done():
			return
		}
	}
}
