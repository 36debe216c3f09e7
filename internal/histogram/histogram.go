// Package histogram bins surviving final bankrolls into equal-width ranges.
package histogram

import (
	"errors"
	"fmt"
	"math"

	"casino-ruin-lab/internal/domain"
)

// ErrNoSurvivors is returned when every trial was ruined and there is
// nothing to chart. Callers report "no data" instead of an empty histogram.
var ErrNoSurvivors = errors.New("no surviving trials to chart")

// FallbackBinWidth keeps bins non-degenerate when every surviving bankroll
// is identical. Display policy only; it never affects ruin statistics.
const FallbackBinWidth = 100.0

// Build partitions the surviving final bankrolls (values >= betAmount) from
// finalBankrolls into binCount equal-width bins covering [min, max].
//
// The exact maximum value is assigned to the last bin so floating-point
// rounding at the upper boundary cannot drop it; every other value lands in
// floor((v-min)/width), clamped into range.
func Build(finalBankrolls []float64, betAmount float64, binCount int) (*domain.Histogram, error) {
	if binCount < 1 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidBinCount, binCount)
	}

	var survivors []float64
	minVal := math.MaxFloat64
	maxVal := -math.MaxFloat64
	for _, v := range finalBankrolls {
		if v < betAmount {
			continue // ruined
		}
		survivors = append(survivors, v)
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	// Must be checked before the width division below.
	if len(survivors) == 0 {
		return nil, ErrNoSurvivors
	}

	binWidth := (maxVal - minVal) / float64(binCount)
	if binWidth == 0 {
		binWidth = FallbackBinWidth
	}

	h := &domain.Histogram{
		Bins:          make([]domain.Bin, binCount),
		Min:           minVal,
		Max:           maxVal,
		BinWidth:      binWidth,
		SurvivorCount: len(survivors),
	}
	for i := range h.Bins {
		h.Bins[i].LowerBound = minVal + float64(i)*binWidth
		h.Bins[i].UpperBound = minVal + float64(i+1)*binWidth
	}

	for _, v := range survivors {
		idx := binIndex(v, minVal, maxVal, binWidth, binCount)
		h.Bins[idx].Count++
		if h.Bins[idx].Count > h.MaxBinCount {
			h.MaxBinCount = h.Bins[idx].Count
		}
	}

	return h, nil
}

// binIndex maps a surviving value to its bin.
func binIndex(v, minVal, maxVal, binWidth float64, binCount int) int {
	if v == maxVal {
		return binCount - 1
	}
	idx := int(math.Floor((v - minVal) / binWidth))
	if idx < 0 {
		return 0
	}
	if idx >= binCount {
		return binCount - 1
	}
	return idx
}
