package domain

// Bin is one half-open histogram range [LowerBound, UpperBound).
// The last bin additionally includes the exact maximum value.
type Bin struct {
	LowerBound float64
	UpperBound float64
	Count      int
}

// Histogram partitions surviving final bankrolls into equal-width bins.
// Invariant: the bin counts sum to SurvivorCount.
type Histogram struct {
	Bins []Bin

	Min      float64 // minimum surviving bankroll
	Max      float64 // maximum surviving bankroll
	BinWidth float64 // never zero, see histogram.FallbackBinWidth

	SurvivorCount int
	MaxBinCount   int // most populated bin, used for proportional bar rendering
}

// TotalCount returns the sum of all bin counts.
func (h *Histogram) TotalCount() int {
	total := 0
	for _, b := range h.Bins {
		total += b.Count
	}
	return total
}
