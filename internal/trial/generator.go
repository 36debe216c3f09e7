// Package trial simulates single gambler's-ruin sample paths.
package trial

import (
	"casino-ruin-lab/internal/domain"
	"casino-ruin-lab/internal/rng"
)

// Run simulates one trial: a walk of up to params.RoundsPerTrial fixed-size
// bets starting from params.StartingBankroll. Each round draws u in [0,1)
// from src; u < HouseWinProb means the house wins the round. The trial ends
// early as soon as the bankroll drops below the bet amount, at which point
// the house can no longer cover a payout and is ruined.
//
// Run is a pure function of its inputs aside from src, so it is safe to call
// from concurrent workers as long as each worker owns its own Source.
func Run(params domain.SimulationParams, trialIndex int, src rng.Source) domain.TrialOutcome {
	bankroll := params.StartingBankroll

	var rounds int64
	for rounds = 0; rounds < params.RoundsPerTrial; {
		if src.Float64() < params.HouseWinProb {
			bankroll += params.BetAmount
		} else {
			bankroll -= params.BetAmount
		}
		rounds++

		if bankroll < params.BetAmount {
			break
		}
	}

	return domain.TrialOutcome{
		TrialIndex:    trialIndex,
		FinalBankroll: bankroll,
		RoundsPlayed:  rounds,
		Ruined:        bankroll < params.BetAmount,
	}
}
