package domain

import (
	"errors"
	"fmt"
)

// Parameter validation errors.
var (
	ErrInvalidBankroll    = errors.New("starting bankroll must be positive")
	ErrInvalidBetAmount   = errors.New("bet amount must be positive")
	ErrInvalidProbability = errors.New("house win probability must be in [0,1]")
	ErrInvalidRounds      = errors.New("rounds per trial must not be negative")
	ErrInvalidTrialCount  = errors.New("trial count must be at least 1")
	ErrInvalidBinCount    = errors.New("bin count must be at least 1")
)

// SimulationParams holds the fixed inputs of one trial batch.
// Immutable once constructed; shared read-only across all trials in a batch.
type SimulationParams struct {
	StartingBankroll float64 // house capital at round zero
	BetAmount        float64 // fixed stake per round
	HouseWinProb     float64 // probability the house wins a single round
	RoundsPerTrial   int64   // bet rounds per trial unless ruin ends it early
}

// Validate checks parameter ranges. Invalid configuration fails fast,
// before any simulation work; values are never silently clamped.
func (p SimulationParams) Validate() error {
	if p.StartingBankroll <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidBankroll, p.StartingBankroll)
	}
	if p.BetAmount <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidBetAmount, p.BetAmount)
	}
	if p.HouseWinProb < 0 || p.HouseWinProb > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidProbability, p.HouseWinProb)
	}
	if p.RoundsPerTrial < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRounds, p.RoundsPerTrial)
	}
	return nil
}
