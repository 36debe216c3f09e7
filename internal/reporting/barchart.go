package reporting

import (
	"fmt"
	"strings"

	"casino-ruin-lab/internal/domain"
)

// maxBarWidth is the character width of the longest bar. Bars scale
// relative to the most populated bin.
const maxBarWidth = 40

// RenderBarChart renders a histogram as an ASCII bar chart.
// One line per bin: the dollar range, a '#' bar scaled against the most
// populated bin, then the count and its share of survivors.
func RenderBarChart(h *domain.Histogram) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("--- Final Bankroll Distribution (for %d surviving trials) ---\n", h.SurvivorCount))
	sb.WriteString(fmt.Sprintf("Min Surviving Bankroll: $%.2f\n", h.Min))
	sb.WriteString(fmt.Sprintf("Max Surviving Bankroll: $%.2f\n", h.Max))
	sb.WriteString(strings.Repeat("-", 66) + "\n")

	for _, bin := range h.Bins {
		sb.WriteString(fmt.Sprintf("$%12.2f - $%12.2f | ", bin.LowerBound, bin.UpperBound))

		barWidth := 0
		if h.MaxBinCount > 0 {
			barWidth = int(float64(bin.Count) / float64(h.MaxBinCount) * maxBarWidth)
		}
		sb.WriteString(strings.Repeat("#", barWidth))

		percentage := 0.0
		if h.SurvivorCount > 0 {
			percentage = float64(bin.Count) / float64(h.SurvivorCount) * 100.0
		}
		sb.WriteString(fmt.Sprintf(" (%d, %.1f%%)\n", bin.Count, percentage))
	}
	sb.WriteString(strings.Repeat("-", 66) + "\n")

	return sb.String()
}
