package runner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRunPoolRunsAllJobs(t *testing.T) {
	var ran atomic.Int32
	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i] = func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}
	}

	errs := RunPool(context.Background(), 4, jobs)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if ran.Load() != 20 {
		t.Errorf("ran %d jobs, want 20", ran.Load())
	}
}

func TestRunPoolCollectsErrors(t *testing.T) {
	boom := errors.New("boom")
	jobs := []Job{
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error { return boom },
	}

	errs := RunPool(context.Background(), 2, jobs)
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2", len(errs))
	}
}

func TestRunPoolBoundsConcurrency(t *testing.T) {
	const maxWorkers = 3
	var (
		mu      sync.Mutex
		active  int
		highest int
	)
	jobs := make([]Job, 30)
	for i := range jobs {
		jobs[i] = func(ctx context.Context) error {
			mu.Lock()
			active++
			if active > highest {
				highest = active
			}
			mu.Unlock()

			mu.Lock()
			active--
			mu.Unlock()
			return nil
		}
	}

	RunPool(context.Background(), maxWorkers, jobs)
	if highest > maxWorkers {
		t.Errorf("observed %d concurrent jobs, want at most %d", highest, maxWorkers)
	}
}

func TestRunPoolCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ran atomic.Int32
	jobs := make([]Job, 10)
	for i := range jobs {
		jobs[i] = func(ctx context.Context) error {
			if ran.Add(1) == 1 {
				cancel()
			}
			return nil
		}
	}

	errs := RunPool(ctx, 1, jobs)
	if ran.Load() == 10 {
		t.Error("expected cancellation to stop the pool before all jobs ran")
	}
	found := false
	for _, err := range errs {
		if errors.Is(err, context.Canceled) {
			found = true
		}
	}
	if !found {
		t.Errorf("errors %v missing context.Canceled", errs)
	}
}

func TestRunPoolZeroWorkers(t *testing.T) {
	ran := false
	errs := RunPool(context.Background(), 0, []Job{
		func(ctx context.Context) error { ran = true; return nil },
	})
	if len(errs) != 0 || !ran {
		t.Errorf("pool with clamped worker count should still run jobs (ran=%v errs=%v)", ran, errs)
	}
}
