// Package idhash computes deterministic identifiers for persisted results.
package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"

	"casino-ruin-lab/internal/domain"
)

// ComputeBatchID computes a deterministic batch_id using SHA256.
// Formula: SHA256(startingBankroll|betAmount|houseWinProb|roundsPerTrial|trialCount)
// Returns the base58-encoded hash (44 characters for 32 bytes).
//
// The ID depends only on the batch inputs, so re-running the same
// configuration targets the same storage key and append-only stores reject
// the duplicate instead of silently accumulating rows.
func ComputeBatchID(params domain.SimulationParams, trialCount int) string {
	data := fmt.Sprintf("%.10g|%.10g|%.10g|%d|%d",
		params.StartingBankroll,
		params.BetAmount,
		params.HouseWinProb,
		params.RoundsPerTrial,
		trialCount,
	)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}
