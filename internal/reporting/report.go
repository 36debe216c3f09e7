package reporting

import (
	"time"

	"casino-ruin-lab/internal/domain"
)

// Report summarizes every stored batch: the ruin table plus one
// histogram section per bankroll.
type Report struct {
	// Metadata
	GeneratedAt   time.Time
	BankrollCount int

	// Ruin summary (sorted by starting bankroll)
	RuinRows []RuinRow

	// Survivor distributions, one section per batch
	Histograms []HistogramSection
}

// RuinRow is one row of the ruin summary table.
type RuinRow struct {
	BatchID          string
	StartingBankroll float64
	BetAmount        float64
	HouseWinProb     float64
	RoundsPerTrial   int64
	TrialCount       int

	RuinCount       int
	SurvivorCount   int
	RuinProbability float64

	SurvivorMean   float64
	SurvivorMedian float64
	SurvivorP10    float64
	SurvivorP90    float64
	SurvivorStddev float64
}

// HistogramSection is the survivor distribution of one batch.
// NoData marks batches where every trial was ruined.
type HistogramSection struct {
	BatchID          string
	StartingBankroll float64
	NoData           bool
	Histogram        *domain.Histogram
}
