package domain

// SweepConfig describes one bankroll sweep: the list of starting bankrolls
// to test with shared bet, edge, round and trial-count settings.
type SweepConfig struct {
	StartingBankrolls []float64
	BetAmount         float64
	HouseWinProb      float64
	RoundsPerTrial    int64
	TrialsPerBatch    int
	HistogramBins     int
}

// Params returns the SimulationParams for one starting bankroll of the sweep.
func (c SweepConfig) Params(startingBankroll float64) SimulationParams {
	return SimulationParams{
		StartingBankroll: startingBankroll,
		BetAmount:        c.BetAmount,
		HouseWinProb:     c.HouseWinProb,
		RoundsPerTrial:   c.RoundsPerTrial,
	}
}

// Validate checks the sweep configuration. Each per-bankroll SimulationParams
// is validated, plus the sweep-level counts.
func (c SweepConfig) Validate() error {
	if len(c.StartingBankrolls) == 0 {
		return ErrInvalidBankroll
	}
	for _, b := range c.StartingBankrolls {
		if err := c.Params(b).Validate(); err != nil {
			return err
		}
	}
	if c.TrialsPerBatch < 1 {
		return ErrInvalidTrialCount
	}
	if c.HistogramBins < 1 {
		return ErrInvalidBinCount
	}
	return nil
}

// Predefined sweep configurations. The edge 5/9 comes from a double-or-nothing
// game where the house wins ties.
var (
	// SweepConfigQuick covers a single bankroll with enough trials for a
	// stable histogram. Finishes in seconds.
	SweepConfigQuick = SweepConfig{
		StartingBankrolls: []float64{500},
		BetAmount:         25,
		HouseWinProb:      5.0 / 9.0,
		RoundsPerTrial:    100,
		TrialsPerBatch:    100000,
		HistogramBins:     15,
	}

	// SweepConfigFull tests the full bankroll ladder with long trials.
	SweepConfigFull = SweepConfig{
		StartingBankrolls: []float64{500, 1000, 2500, 5000, 7500, 10000, 15000, 20000},
		BetAmount:         25,
		HouseWinProb:      5.0 / 9.0,
		RoundsPerTrial:    1000000,
		TrialsPerBatch:    10000,
		HistogramBins:     15,
	}
)
