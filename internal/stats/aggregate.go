// Package stats derives the persisted aggregate of a trial batch.
package stats

import (
	"casino-ruin-lab/internal/domain"
	"casino-ruin-lab/internal/idhash"
)

// AggregateBatch reduces a batch result to its persisted BatchAggregate.
// The raw outcomes are not referenced after this single pass.
func AggregateBatch(result *domain.BatchResult) *domain.BatchAggregate {
	survivors := result.SurvivingBankrolls()
	summary := Summarize(survivors)

	return &domain.BatchAggregate{
		BatchID: idhash.ComputeBatchID(result.Params, result.TrialCount),

		StartingBankroll: result.Params.StartingBankroll,
		BetAmount:        result.Params.BetAmount,
		HouseWinProb:     result.Params.HouseWinProb,
		RoundsPerTrial:   result.Params.RoundsPerTrial,
		TrialCount:       result.TrialCount,

		RuinCount:       result.RuinCount,
		SurvivorCount:   len(survivors),
		RuinProbability: result.RuinProbability,

		SurvivorMean:   summary.Mean,
		SurvivorMedian: summary.Median,
		SurvivorP10:    summary.P10,
		SurvivorP25:    summary.P25,
		SurvivorP75:    summary.P75,
		SurvivorP90:    summary.P90,
		SurvivorMin:    summary.Min,
		SurvivorMax:    summary.Max,
		SurvivorStddev: summary.Stddev,
	}
}
