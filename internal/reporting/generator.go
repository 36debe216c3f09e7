package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"casino-ruin-lab/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	aggregateStore storage.BatchAggregateStore
	histogramStore storage.HistogramStore
	now            func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(
	aggregateStore storage.BatchAggregateStore,
	histogramStore storage.HistogramStore,
) *Generator {
	return &Generator{
		aggregateStore: aggregateStore,
		histogramStore: histogramStore,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a complete report from all stored aggregates.
// Batches whose histograms are missing (zero survivors) get a NoData section.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	aggs, err := g.aggregateStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aggregates: %w", err)
	}

	report := &Report{
		GeneratedAt:   g.now(),
		BankrollCount: len(aggs),
	}

	for _, agg := range aggs {
		report.RuinRows = append(report.RuinRows, RuinRow{
			BatchID:          agg.BatchID,
			StartingBankroll: agg.StartingBankroll,
			BetAmount:        agg.BetAmount,
			HouseWinProb:     agg.HouseWinProb,
			RoundsPerTrial:   agg.RoundsPerTrial,
			TrialCount:       agg.TrialCount,
			RuinCount:        agg.RuinCount,
			SurvivorCount:    agg.SurvivorCount,
			RuinProbability:  agg.RuinProbability,
			SurvivorMean:     agg.SurvivorMean,
			SurvivorMedian:   agg.SurvivorMedian,
			SurvivorP10:      agg.SurvivorP10,
			SurvivorP90:      agg.SurvivorP90,
			SurvivorStddev:   agg.SurvivorStddev,
		})

		section := HistogramSection{
			BatchID:          agg.BatchID,
			StartingBankroll: agg.StartingBankroll,
		}
		h, err := g.histogramStore.GetByBatchID(ctx, agg.BatchID)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			section.NoData = true
		case err != nil:
			return nil, fmt.Errorf("load histogram %s: %w", agg.BatchID, err)
		default:
			section.Histogram = h
		}
		report.Histograms = append(report.Histograms, section)
	}

	return report, nil
}
