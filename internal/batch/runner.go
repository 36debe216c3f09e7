// Package batch runs trial batches and aggregates their outcomes.
package batch

import (
	"context"
	"fmt"
	"sync"

	"casino-ruin-lab/internal/domain"
	"casino-ruin-lab/internal/rng"
	"casino-ruin-lab/internal/trial"
)

// Runner executes batches of independent trials.
type Runner struct {
	seedSource rng.SeedSource
	workers    int
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	// SeedSource derives per-trial seeds. Defaults to a TimeSeedSource,
	// which gives every run of the program a fresh sequence.
	SeedSource rng.SeedSource

	// Workers sets the trial fan-out. Values below 2 run trials
	// sequentially on the calling goroutine.
	Workers int
}

// NewRunner creates a batch runner.
func NewRunner(opts RunnerOptions) *Runner {
	seedSource := opts.SeedSource
	if seedSource == nil {
		seedSource = rng.NewTimeSeedSource()
	}
	return &Runner{
		seedSource: seedSource,
		workers:    opts.Workers,
	}
}

// Run executes trialCount independent trials of params and aggregates the
// outcomes. The result holds exactly trialCount outcomes ordered by trial
// index regardless of execution order. Batches are independent: no state is
// shared across calls.
func (r *Runner) Run(ctx context.Context, params domain.SimulationParams, trialCount int) (*domain.BatchResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if trialCount < 1 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidTrialCount, trialCount)
	}

	outcomes := make([]domain.TrialOutcome, trialCount)

	if r.workers > 1 {
		r.runParallel(params, outcomes)
	} else {
		for i := range outcomes {
			outcomes[i] = trial.Run(params, i, rng.NewSeeded(r.seedSource.Seed(i)))
		}
	}

	ruinCount := 0
	for _, o := range outcomes {
		if o.Ruined {
			ruinCount++
		}
	}

	return &domain.BatchResult{
		Params:          params,
		TrialCount:      trialCount,
		Outcomes:        outcomes,
		RuinCount:       ruinCount,
		RuinProbability: float64(ruinCount) / float64(trialCount),
	}, nil
}

// runParallel fans trials out across the worker pool and fans results back
// into outcomes by trial index. Each trial owns an independent Source, so
// workers never share random state.
func (r *Runner) runParallel(params domain.SimulationParams, outcomes []domain.TrialOutcome) {
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				outcomes[i] = trial.Run(params, i, rng.NewSeeded(r.seedSource.Seed(i)))
			}
		}()
	}

	for i := range outcomes {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
}
