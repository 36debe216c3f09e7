// Package rng provides the random streams feeding trial simulation.
// Each trial draws from its own independent Source; no global generator
// state exists anywhere in the engine.
package rng

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Source draws uniform values in [0,1). A Source is owned by exactly one
// trial at a time; concurrent trials each hold their own instance.
type Source interface {
	Float64() float64
}

// seededSource wraps a PCG stream with an explicit seed.
type seededSource struct {
	r *rand.Rand
}

// NewSeeded returns a Source whose draw sequence is fully determined by seed.
// Two Sources built from the same seed produce bit-identical sequences.
func NewSeeded(seed uint64) Source {
	return &seededSource{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededSource) Float64() float64 {
	return s.r.Float64()
}

// cryptoSeed reads 64 bits of OS entropy. Falls back to the process-global
// generator only if the entropy source fails.
func cryptoSeed() uint64 {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		return rand.Uint64()
	}
	return binary.BigEndian.Uint64(buf[:])
}
