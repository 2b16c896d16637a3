package pipeline

import (
	"context"
	"fmt"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/111110100/ph-election-smartmatic/internal/adapter"
	"github.com/111110100/ph-election-smartmatic/internal/logger"
	"github.com/111110100/ph-election-smartmatic/internal/progress"
)

// Executor runs a batch of tasks and reports their outcomes in submission
// order. Both implementations put every task behind the same boundary, so
// the artifacts come out byte identical whichever one runs.
type Executor interface {
	Execute(ctx context.Context, tasks []Task) []TaskResult
}

// NewExecutor returns the pond-backed parallel executor when concurrent is
// set, otherwise the sequential one.
func NewExecutor(concurrent bool, workers int, clock adapter.Clock, prog progress.Progress) Executor {
	if concurrent {
		return &parallelExecutor{workers: workers, clock: clock, progress: prog}
	}
	return &sequentialExecutor{clock: clock, progress: prog}
}

type sequentialExecutor struct {
	clock    adapter.Clock
	progress progress.Progress
}

// Execute runs the tasks one after another in submission order.
func (e *sequentialExecutor) Execute(_ context.Context, tasks []Task) []TaskResult {
	results := make([]TaskResult, len(tasks))
	for i, task := range tasks {
		results[i] = runTask(e.clock, task, e.progress)
	}
	e.progress.Finish()

	return results
}

type parallelExecutor struct {
	workers  int
	clock    adapter.Clock
	progress progress.Progress
}

// Execute fans the tasks out over a fixed size worker pool and waits for all
// of them. The queue is sized to the batch, so submission never blocks.
func (e *parallelExecutor) Execute(ctx context.Context, tasks []Task) []TaskResult {
	if len(tasks) == 0 {
		return nil
	}

	pool := pond.NewPool(e.workers,
		pond.WithQueueSize(len(tasks)),
		pond.WithContext(ctx),
	)

	results := make([]TaskResult, len(tasks))
	for i, task := range tasks {
		pool.SubmitErr(func() error {
			results[i] = runTask(e.clock, task, e.progress)
			return results[i].Err
		})
	}
	pool.StopAndWait()
	e.progress.Finish()

	logger.Debug("Worker pool drained",
		zap.Uint64("submitted", pool.SubmittedTasks()),
		zap.Uint64("successful", pool.SuccessfulTasks()),
		zap.Uint64("failed", pool.FailedTasks()))

	return results
}

// runTask is the boundary shared by both executors: panic recovery, scoped
// timing, a progress tick and outcome logging. A failing or panicking task
// never takes its siblings down.
func runTask(clock adapter.Clock, task Task, prog progress.Progress) (result TaskResult) {
	timer := StartTimer(clock, task.Name)
	result.Name = task.Name

	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("task %s panicked: %v", task.Name, r)
		}
		result.Took = timer.Stop()
		prog.Add(1)

		if result.Err != nil {
			logger.Error(result.Err,
				zap.String("task", task.Name),
				zap.Duration("took", result.Took))
		} else {
			logger.Info("Task finished",
				zap.String("task", task.Name),
				zap.Duration("took", result.Took))
		}
	}()

	result.Err = task.Run()

	return result
}
