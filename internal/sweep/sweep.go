// Package sweep coordinates batch execution across a bankroll ladder.
// It runs one batch per starting bankroll and persists the derived results:
// batch → aggregation → histogram → storage
package sweep

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"casino-ruin-lab/internal/batch"
	"casino-ruin-lab/internal/domain"
	"casino-ruin-lab/internal/histogram"
	"casino-ruin-lab/internal/observability"
	"casino-ruin-lab/internal/stats"
	"casino-ruin-lab/internal/storage"
)

// Notifier receives completion events for each persisted batch.
// The histogram is nil when every trial in the batch was ruined.
type Notifier interface {
	SweepBatchCompleted(agg *domain.BatchAggregate, h *domain.Histogram)
}

// Orchestrator coordinates the sweep execution.
type Orchestrator struct {
	runner         *batch.Runner
	aggregateStore storage.BatchAggregateStore
	histogramStore storage.HistogramStore

	config domain.SweepConfig

	notifier Notifier
	verbose  bool
}

// Options for creating Orchestrator.
type Options struct {
	// Runner executes trial batches. Defaults to a sequential runner.
	Runner *batch.Runner

	// Required stores
	AggregateStore storage.BatchAggregateStore
	HistogramStore storage.HistogramStore

	// Config is the bankroll ladder plus shared game settings.
	Config domain.SweepConfig

	// Optional completion notifier (e.g. a WebSocket hub).
	Notifier Notifier

	Verbose bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	runner := opts.Runner
	if runner == nil {
		runner = batch.NewRunner(batch.RunnerOptions{})
	}
	return &Orchestrator{
		runner:         runner,
		aggregateStore: opts.AggregateStore,
		histogramStore: opts.HistogramStore,
		config:         opts.Config,
		notifier:       opts.Notifier,
		verbose:        opts.Verbose,
	}
}

// RunResult contains results from sweep execution.
type RunResult struct {
	BatchesRun       int
	AggregatesStored int
	HistogramsStored int

	// NoDataBankrolls lists bankrolls whose batches had zero survivors,
	// so no histogram could be built.
	NoDataBankrolls []float64

	Errors []string
}

// Run executes one batch per starting bankroll.
// Steps per bankroll:
//  1. Run the trial batch
//  2. Reduce to a BatchAggregate and persist it
//  3. Build the survivor histogram and persist it
//
// Duplicate keys are skipped: a batch with identical parameters has already
// been persisted and its derived results are deterministic apart from RNG
// noise, so re-storing adds nothing.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	if err := o.config.Validate(); err != nil {
		return nil, fmt.Errorf("validate sweep config: %w", err)
	}

	result := &RunResult{}

	for _, bankroll := range o.config.StartingBankrolls {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		params := o.config.Params(bankroll)
		o.log("Running batch: bankroll=%.0f trials=%d", bankroll, o.config.TrialsPerBatch)

		start := time.Now()
		batchResult, err := o.runner.Run(ctx, params, o.config.TrialsPerBatch)
		if err != nil {
			return result, fmt.Errorf("run batch for bankroll %.0f: %w", bankroll, err)
		}
		result.BatchesRun++
		observability.RecordBatchCompleted(batchResult.TrialCount, time.Since(start).Seconds())

		agg := stats.AggregateBatch(batchResult)
		observability.RecordRuinProbability(
			fmt.Sprintf("%.0f", bankroll), agg.RuinProbability, agg.SurvivorCount)
		o.log("  ruin probability %.4f (%d/%d ruined)",
			agg.RuinProbability, agg.RuinCount, agg.TrialCount)

		if o.storeAggregate(ctx, agg, result) {
			result.AggregatesStored++
		}

		h := o.buildAndStoreHistogram(ctx, batchResult, agg.BatchID, result)

		if o.notifier != nil {
			o.notifier.SweepBatchCompleted(agg, h)
		}
	}

	o.log("Sweep completed: %d batches, %d aggregates, %d histograms (%d errors)",
		result.BatchesRun, result.AggregatesStored, result.HistogramsStored, len(result.Errors))

	return result, nil
}

// storeAggregate persists the aggregate, reporting whether a row was written.
func (o *Orchestrator) storeAggregate(ctx context.Context, agg *domain.BatchAggregate, result *RunResult) bool {
	err := o.aggregateStore.Insert(ctx, agg)
	if err == nil {
		observability.RecordAggregateStored()
		return true
	}
	if errors.Is(err, storage.ErrDuplicateKey) {
		o.log("  aggregate %s already stored, skipping", agg.BatchID)
		observability.RecordDuplicateSkip()
		return false
	}
	result.Errors = append(result.Errors, fmt.Sprintf("store aggregate %s: %v", agg.BatchID, err))
	return false
}

// buildAndStoreHistogram builds and persists the survivor histogram.
// Returns nil when the batch had no survivors or the store rejected the insert.
func (o *Orchestrator) buildAndStoreHistogram(ctx context.Context, batchResult *domain.BatchResult, batchID string, result *RunResult) *domain.Histogram {
	h, err := histogram.Build(
		finalBankrolls(batchResult), batchResult.Params.BetAmount, o.config.HistogramBins)
	if err != nil {
		if errors.Is(err, histogram.ErrNoSurvivors) {
			o.log("  no survivors for bankroll %.0f, skipping histogram", batchResult.Params.StartingBankroll)
			result.NoDataBankrolls = append(result.NoDataBankrolls, batchResult.Params.StartingBankroll)
			return nil
		}
		result.Errors = append(result.Errors, fmt.Sprintf("build histogram %s: %v", batchID, err))
		return nil
	}

	err = o.histogramStore.Insert(ctx, batchID, h)
	if err == nil {
		result.HistogramsStored++
		observability.RecordHistogramStored()
		return h
	}
	if errors.Is(err, storage.ErrDuplicateKey) {
		o.log("  histogram %s already stored, skipping", batchID)
		observability.RecordDuplicateSkip()
		return h
	}
	result.Errors = append(result.Errors, fmt.Sprintf("store histogram %s: %v", batchID, err))
	return nil
}

// finalBankrolls extracts every final bankroll, ruined trials included.
// The histogram builder applies its own survivor filter.
func finalBankrolls(r *domain.BatchResult) []float64 {
	values := make([]float64, len(r.Outcomes))
	for i, o := range r.Outcomes {
		values[i] = o.FinalBankroll
	}
	return values
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[sweep] "+format, args...)
	}
}
