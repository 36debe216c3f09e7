package domain

// BatchAggregate is the persisted summary of one trial batch.
// Raw trial outcomes are discarded after aggregation; only this
// derived record (and the histogram) survives the batch.
type BatchAggregate struct {
	BatchID string // deterministic hash, see idhash.ComputeBatchID

	// Inputs
	StartingBankroll float64
	BetAmount        float64
	HouseWinProb     float64
	RoundsPerTrial   int64
	TrialCount       int

	// Ruin summary
	RuinCount       int
	SurvivorCount   int
	RuinProbability float64

	// Surviving final bankroll distribution
	SurvivorMean   float64
	SurvivorMedian float64
	SurvivorP10    float64
	SurvivorP25    float64
	SurvivorP75    float64
	SurvivorP90    float64
	SurvivorMin    float64
	SurvivorMax    float64
	SurvivorStddev float64
}
