package executor

import (
	"context"
	"sync"
	"time"

	"github.com/JayPatil165/TestGen-AI/pkg/result"
)

// SuiteJob is one independent suite run scheduled on the pool.
type SuiteJob struct {
	// Unique identifier for this suite (e.g. "unit", "e2e", a sub-project path)
	ID string
	// Run executes the suite and returns its normalized result
	Run func(ctx context.Context) (*result.SuiteResult, error)
}

// PoolResult aggregates independently completed suite runs.
type PoolResult struct {
	// Individual results keyed by job ID
	Results map[string]*result.SuiteResult
	// Infrastructure errors keyed by job ID
	Errors map[string]error
	// Order of submission (for stable output)
	Order []string
	// Total wall-clock time for the whole batch
	TotalTime time.Duration
}

// HasFailures reports whether any suite failed, degraded to a nonzero exit,
// or hit an infrastructure error.
func (pr *PoolResult) HasFailures() bool {
	if len(pr.Errors) > 0 {
		return true
	}
	for _, r := range pr.Results {
		if !r.Success() {
			return true
		}
	}
	return false
}

// Merged reduces all completed suite results into one aggregate, in
// submission order.
func (pr *PoolResult) Merged() *result.SuiteResult {
	suites := make([]*result.SuiteResult, 0, len(pr.Order))
	for _, id := range pr.Order {
		if r, ok := pr.Results[id]; ok {
			suites = append(suites, r)
		}
	}
	return result.Merge(suites...)
}

// ProgressFunc reports batch progress after each completed suite.
type ProgressFunc func(completed, total int, currentID string)

// Pool runs independent suite jobs through a bounded number of workers.
// Each job returns its own SuiteResult; nothing is merged mid-flight.
type Pool struct {
	workers int
}

// NewPool creates a pool. The worker count is caller-supplied so resource
// pressure stays under the caller's control; non-positive selects 4.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 4
	}
	return &Pool{workers: workers}
}

// Run executes the jobs, at most p.workers at a time, and waits for all of
// them. Cancelling ctx stops jobs that have not started and propagates to
// running jobs through their context.
func (p *Pool) Run(ctx context.Context, jobs []SuiteJob, progress ProgressFunc) *PoolResult {
	res := &PoolResult{
		Results: make(map[string]*result.SuiteResult),
		Errors:  make(map[string]error),
		Order:   make([]string, 0, len(jobs)),
	}
	for _, job := range jobs {
		res.Order = append(res.Order, job.ID)
	}
	if len(jobs) == 0 {
		return res
	}

	start := time.Now()

	semaphore := make(chan struct{}, p.workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	completed := 0

	for _, job := range jobs {
		wg.Add(1)

		go func(job SuiteJob) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			select {
			case <-ctx.Done():
				mu.Lock()
				res.Errors[job.ID] = ctx.Err()
				mu.Unlock()
				return
			default:
			}

			suite, err := job.Run(ctx)

			mu.Lock()
			if err != nil {
				res.Errors[job.ID] = err
			} else {
				res.Results[job.ID] = suite
			}
			completed++
			done := completed
			mu.Unlock()

			if progress != nil {
				progress(done, len(jobs), job.ID)
			}
		}(job)
	}

	wg.Wait()
	res.TotalTime = time.Since(start)
	return res
}
