package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino-ruin-lab/internal/domain"
	"casino-ruin-lab/internal/storage/memory"
)

func storedAggregate(batchID string, bankroll float64) *domain.BatchAggregate {
	return &domain.BatchAggregate{
		BatchID:          batchID,
		StartingBankroll: bankroll,
		BetAmount:        25,
		HouseWinProb:     5.0 / 9.0,
		RoundsPerTrial:   100,
		TrialCount:       100000,
		RuinCount:        3000,
		SurvivorCount:    97000,
		RuinProbability:  0.03,
		SurvivorMean:     bankroll + 250,
		SurvivorMedian:   bankroll + 225,
		SurvivorP10:      bankroll - 150,
		SurvivorP90:      bankroll + 600,
		SurvivorStddev:   180,
	}
}

func storedHistogram() *domain.Histogram {
	return &domain.Histogram{
		Bins: []domain.Bin{
			{LowerBound: 25, UpperBound: 425, Count: 30000},
			{LowerBound: 425, UpperBound: 825, Count: 60000},
			{LowerBound: 825, UpperBound: 1225, Count: 7000},
		},
		Min:           25,
		Max:           1225,
		BinWidth:      400,
		SurvivorCount: 97000,
		MaxBinCount:   60000,
	}
}

func TestGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	aggStore := memory.NewBatchAggregateStore()
	histStore := memory.NewHistogramStore()

	require.NoError(t, aggStore.Insert(ctx, storedAggregate("batch-500", 500)))
	require.NoError(t, aggStore.Insert(ctx, storedAggregate("batch-1000", 1000)))
	require.NoError(t, histStore.Insert(ctx, "batch-500", storedHistogram()))
	// No histogram for batch-1000: its batch had zero survivors

	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	gen := NewGenerator(aggStore, histStore).WithClock(func() time.Time { return fixed })

	report, err := gen.Generate(ctx)
	require.NoError(t, err)

	assert.Equal(t, fixed, report.GeneratedAt)
	assert.Equal(t, 2, report.BankrollCount)

	require.Len(t, report.RuinRows, 2)
	assert.Equal(t, 500.0, report.RuinRows[0].StartingBankroll)
	assert.Equal(t, 1000.0, report.RuinRows[1].StartingBankroll)

	require.Len(t, report.Histograms, 2)
	assert.False(t, report.Histograms[0].NoData)
	require.NotNil(t, report.Histograms[0].Histogram)
	assert.Len(t, report.Histograms[0].Histogram.Bins, 3)
	assert.True(t, report.Histograms[1].NoData)
	assert.Nil(t, report.Histograms[1].Histogram)
}

func TestGenerator_GenerateEmpty(t *testing.T) {
	gen := NewGenerator(memory.NewBatchAggregateStore(), memory.NewHistogramStore())

	report, err := gen.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.BankrollCount)
	assert.Empty(t, report.RuinRows)
	assert.Empty(t, report.Histograms)
}

func TestRenderMarkdown(t *testing.T) {
	ctx := context.Background()
	aggStore := memory.NewBatchAggregateStore()
	histStore := memory.NewHistogramStore()

	require.NoError(t, aggStore.Insert(ctx, storedAggregate("batch-500", 500)))
	require.NoError(t, histStore.Insert(ctx, "batch-500", storedHistogram()))

	gen := NewGenerator(aggStore, histStore)
	report, err := gen.Generate(ctx)
	require.NoError(t, err)

	md := RenderMarkdown(report)

	assert.Contains(t, md, "# Gambler's Ruin Report")
	assert.Contains(t, md, "## Ruin Summary")
	assert.Contains(t, md, "| $500 | $25 |")
	assert.Contains(t, md, "### Bankroll $500")
	assert.Contains(t, md, "Final Bankroll Distribution")
}

func TestRenderMarkdown_NoData(t *testing.T) {
	report := &Report{
		GeneratedAt:   time.Now(),
		BankrollCount: 1,
		RuinRows:      []RuinRow{{BatchID: "b", StartingBankroll: 25, TrialCount: 100, RuinCount: 100, RuinProbability: 1}},
		Histograms:    []HistogramSection{{BatchID: "b", StartingBankroll: 25, NoData: true}},
	}

	md := RenderMarkdown(report)
	assert.Contains(t, md, "No surviving trials to chart.")
}

func TestRenderBarChart(t *testing.T) {
	h := storedHistogram()
	chart := RenderBarChart(h)

	lines := strings.Split(strings.TrimRight(chart, "\n"), "\n")
	// 3 header lines + separator + 3 bins + separator
	require.Len(t, lines, 8)

	assert.Contains(t, lines[0], "97000 surviving trials")
	assert.Contains(t, lines[1], "Min Surviving Bankroll: $25.00")
	assert.Contains(t, lines[2], "Max Surviving Bankroll: $1225.00")

	// Most populated bin carries the full-width bar
	assert.Contains(t, lines[5], strings.Repeat("#", 40))
	assert.Contains(t, lines[5], "(60000, 61.9%)")

	// Half-populated bin scales to half width
	assert.Contains(t, lines[4], strings.Repeat("#", 20))
	assert.NotContains(t, lines[4], strings.Repeat("#", 21))
}

func TestRenderCSV(t *testing.T) {
	rows := []RuinRow{
		{
			BatchID:          "batch-500",
			StartingBankroll: 500,
			BetAmount:        25,
			HouseWinProb:     5.0 / 9.0,
			RoundsPerTrial:   100,
			TrialCount:       100000,
			RuinCount:        3000,
			SurvivorCount:    97000,
			RuinProbability:  0.03,
		},
	}

	csv := RenderCSV(rows)
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	require.Len(t, lines, 2)

	assert.True(t, strings.HasPrefix(lines[0], "batch_id,starting_bankroll,"))
	assert.True(t, strings.HasPrefix(lines[1], "batch-500,500.00,25.00,0.555556,100,100000,3000,97000,0.030000,"))
}
