package worker

import (
	"context"
	"fmt"
	"time"

	"testworth/internal"
	apperrors "testworth/internal/errors"

	"golang.org/x/sync/semaphore"
)

// Task is one immutable batch computation. It owns all of its state for
// its duration; nothing mutable crosses the boundary.
type Task func(ctx context.Context) (interface{}, error)

// Response carries exactly one result or failure per submitted task.
// Failures travel back as values rather than being thrown across the
// boundary, so a caller is never left waiting on a dead computation.
type Response struct {
	Value interface{}
	Err   error
}

// ComputeWorker offloads CPU-bound Monte Carlo batches from the
// interactive path. Concurrency is capped with a weighted semaphore;
// in-flight work is never preempted.
type ComputeWorker struct {
	sem    *semaphore.Weighted
	logger *internal.Logger
}

// New creates a worker allowing up to capacity concurrent computations
func New(capacity int64, logger *internal.Logger) *ComputeWorker {
	if capacity <= 0 {
		capacity = 1
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &ComputeWorker{
		sem:    semaphore.NewWeighted(capacity),
		logger: logger,
	}
}

// Submit schedules a task and returns the channel that will receive its
// single response. The context gates admission and the caller's wait; a
// task that has started always runs to completion.
func (w *ComputeWorker) Submit(ctx context.Context, name string, task Task) <-chan Response {
	out := make(chan Response, 1)

	go func() {
		defer close(out)

		if err := w.sem.Acquire(ctx, 1); err != nil {
			out <- Response{Err: apperrors.Wrapf(err, "compute capacity unavailable for %s", name)}
			return
		}
		defer w.sem.Release(1)

		defer func() {
			if r := recover(); r != nil {
				w.logger.Error("task %s panicked: %v", name, r)
				out <- Response{Err: apperrors.ComputationError(
					fmt.Sprintf("task %s failed", name),
					fmt.Errorf("panic: %v", r),
				)}
			}
		}()

		start := time.Now()
		value, err := task(ctx)
		w.logger.Debug("task %s finished in %.1fms", name, float64(time.Since(start).Microseconds())/1000)

		out <- Response{Value: value, Err: err}
	}()

	return out
}
