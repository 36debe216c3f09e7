package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders ruin summary rows as CSV string.
func RenderCSV(rows []RuinRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("batch_id,starting_bankroll,bet_amount,house_win_prob,rounds_per_trial,trial_count,")
	sb.WriteString("ruin_count,survivor_count,ruin_probability,")
	sb.WriteString("survivor_mean,survivor_median,survivor_p10,survivor_p90,survivor_stddev\n")

	// Rows
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%.2f,%.2f,%.6f,%d,%d,%d,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f\n",
			r.BatchID,
			r.StartingBankroll,
			r.BetAmount,
			r.HouseWinProb,
			r.RoundsPerTrial,
			r.TrialCount,
			r.RuinCount,
			r.SurvivorCount,
			r.RuinProbability,
			r.SurvivorMean,
			r.SurvivorMedian,
			r.SurvivorP10,
			r.SurvivorP90,
			r.SurvivorStddev,
		))
	}

	return sb.String()
}
