package pipeline

import (
	"time"
)

// Task is one isolated unit of report generation. Tasks share the read-only
// dataset and write disjoint artifacts, so any two may run concurrently.
type Task struct {
	// Name identifies the task in logs and the run summary.
	Name string
	// Run does the work.
	Run func() error
}

// TaskResult records one task's outcome.
type TaskResult struct {
	Name string
	Err  error
	Took time.Duration
}

// FailedCount returns how many results carry an error.
func FailedCount(results []TaskResult) int {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	return failed
}
