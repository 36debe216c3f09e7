package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Gambler's Ruin Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Bankrolls tested: %d\n\n", r.BankrollCount))

	// Ruin Summary
	sb.WriteString("## Ruin Summary\n\n")
	if len(r.RuinRows) > 0 {
		sb.WriteString("| Bankroll | Bet | House Edge | Rounds | Trials | Ruined | Survived | Ruin Prob (%) | Median Survivor |\n")
		sb.WriteString("|----------|-----|------------|--------|--------|--------|----------|---------------|------------------|\n")
		for _, row := range r.RuinRows {
			sb.WriteString(fmt.Sprintf("| $%.0f | $%.0f | %.4f | %d | %d | %d | %d | %.5f | $%.2f |\n",
				row.StartingBankroll, row.BetAmount, row.HouseWinProb,
				row.RoundsPerTrial, row.TrialCount,
				row.RuinCount, row.SurvivorCount, row.RuinProbability*100,
				row.SurvivorMedian))
		}
	} else {
		sb.WriteString("No batches stored.\n")
	}
	sb.WriteString("\n")

	// Survivor Distributions
	sb.WriteString("## Survivor Distributions\n\n")
	for _, section := range r.Histograms {
		sb.WriteString(fmt.Sprintf("### Bankroll $%.0f\n\n", section.StartingBankroll))
		sb.WriteString(fmt.Sprintf("Batch: `%s`\n\n", section.BatchID))
		if section.NoData {
			sb.WriteString("No surviving trials to chart.\n\n")
			continue
		}
		sb.WriteString("```\n")
		sb.WriteString(RenderBarChart(section.Histogram))
		sb.WriteString("```\n\n")
	}

	return sb.String()
}
