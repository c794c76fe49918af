package executor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JayPatil165/TestGen-AI/pkg/result"
)

func passingJob(id string) SuiteJob {
	return SuiteJob{
		ID: id,
		Run: func(ctx context.Context) (*result.SuiteResult, error) {
			return &result.SuiteResult{
				Language:  result.LangGo,
				Framework: result.FrameworkGoTest,
				Tests:     []result.Test{{Name: id, Status: result.StatusPassed}},
			}, nil
		},
	}
}

func TestPool_Run(t *testing.T) {
	jobs := []SuiteJob{passingJob("a"), passingJob("b"), passingJob("c")}

	res := NewPool(2).Run(context.Background(), jobs, nil)

	if len(res.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(res.Results))
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if res.HasFailures() {
		t.Error("HasFailures() = true for all-passing jobs")
	}

	merged := res.Merged()
	if merged.Total() != 3 || merged.Passed() != 3 {
		t.Errorf("merged = %d/%d passed, want 3/3", merged.Passed(), merged.Total())
	}
}

func TestPool_BoundedConcurrency(t *testing.T) {
	const workers = 2
	var running, peak int32
	var mu sync.Mutex

	job := func(id string) SuiteJob {
		return SuiteJob{
			ID: id,
			Run: func(ctx context.Context) (*result.SuiteResult, error) {
				n := atomic.AddInt32(&running, 1)
				mu.Lock()
				if n > peak {
					peak = n
				}
				mu.Unlock()
				time.Sleep(20 * time.Millisecond)
				atomic.AddInt32(&running, -1)
				return &result.SuiteResult{}, nil
			},
		}
	}

	jobs := []SuiteJob{job("a"), job("b"), job("c"), job("d"), job("e")}
	NewPool(workers).Run(context.Background(), jobs, nil)

	mu.Lock()
	defer mu.Unlock()
	if peak > workers {
		t.Errorf("observed %d concurrent jobs, pool size is %d", peak, workers)
	}
}

func TestPool_InfraErrorIsCollected(t *testing.T) {
	infraErr := errors.New("binary missing")
	jobs := []SuiteJob{
		passingJob("good"),
		{ID: "bad", Run: func(ctx context.Context) (*result.SuiteResult, error) {
			return nil, infraErr
		}},
	}

	res := NewPool(2).Run(context.Background(), jobs, nil)

	if !errors.Is(res.Errors["bad"], infraErr) {
		t.Errorf("Errors[bad] = %v, want the job's error", res.Errors["bad"])
	}
	if _, ok := res.Results["good"]; !ok {
		t.Error("a failed sibling dropped the good job's result")
	}
	if !res.HasFailures() {
		t.Error("HasFailures() = false with an infra error present")
	}
}

func TestPool_Progress(t *testing.T) {
	jobs := []SuiteJob{passingJob("a"), passingJob("b")}

	var calls int32
	NewPool(1).Run(context.Background(), jobs, func(completed, total int, id string) {
		atomic.AddInt32(&calls, 1)
		if total != 2 {
			t.Errorf("progress total = %d, want 2", total)
		}
	})

	if calls != 2 {
		t.Errorf("progress called %d times, want 2", calls)
	}
}

func TestPool_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []SuiteJob{passingJob("a"), passingJob("b")}
	res := NewPool(1).Run(ctx, jobs, nil)

	if len(res.Errors) == 0 {
		t.Error("cancelled context produced no errors")
	}
	for id, err := range res.Errors {
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Errors[%s] = %v, want context.Canceled", id, err)
		}
	}
}

func TestPool_Empty(t *testing.T) {
	res := NewPool(4).Run(context.Background(), nil, nil)
	if res.HasFailures() {
		t.Error("empty batch reports failures")
	}
	if res.Merged().Total() != 0 {
		t.Error("empty batch merged to a non-empty suite")
	}
}
