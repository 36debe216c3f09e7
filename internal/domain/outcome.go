package domain

// TrialOutcome is the result of one independent ruin simulation.
// Produced once per trial, never mutated after creation.
type TrialOutcome struct {
	TrialIndex    int     // position in the batch; diversifies seeding only
	FinalBankroll float64 // bankroll when the trial ended
	RoundsPlayed  int64   // rounds actually executed (ruin may end a trial early)
	Ruined        bool    // true iff FinalBankroll < BetAmount
}

// BatchResult holds the outcomes and derived summary of one trial batch.
// Outcomes are ordered by trial index; order carries no semantic weight downstream.
type BatchResult struct {
	Params     SimulationParams
	TrialCount int

	Outcomes []TrialOutcome

	RuinCount       int
	RuinProbability float64 // RuinCount / TrialCount
}

// SurvivingBankrolls returns the final bankrolls of non-ruined trials,
// in trial index order. Input to histogram binning and distribution stats.
func (b *BatchResult) SurvivingBankrolls() []float64 {
	var out []float64
	for _, o := range b.Outcomes {
		if !o.Ruined {
			out = append(out, o.FinalBankroll)
		}
	}
	return out
}
