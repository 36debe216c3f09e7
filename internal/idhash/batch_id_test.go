package idhash

import (
	"testing"

	"casino-ruin-lab/internal/domain"
)

func baseParams() domain.SimulationParams {
	return domain.SimulationParams{
		StartingBankroll: 500,
		BetAmount:        25,
		HouseWinProb:     5.0 / 9.0,
		RoundsPerTrial:   100,
	}
}

func TestComputeBatchID_Deterministic(t *testing.T) {
	a := ComputeBatchID(baseParams(), 1000)
	b := ComputeBatchID(baseParams(), 1000)

	if a != b {
		t.Errorf("same inputs produced different IDs: %s vs %s", a, b)
	}
	if a == "" {
		t.Error("expected non-empty batch ID")
	}
}

func TestComputeBatchID_SensitiveToEveryInput(t *testing.T) {
	base := ComputeBatchID(baseParams(), 1000)

	variants := []struct {
		name   string
		params domain.SimulationParams
		trials int
	}{
		{"bankroll", func() domain.SimulationParams { p := baseParams(); p.StartingBankroll = 1000; return p }(), 1000},
		{"bet", func() domain.SimulationParams { p := baseParams(); p.BetAmount = 50; return p }(), 1000},
		{"probability", func() domain.SimulationParams { p := baseParams(); p.HouseWinProb = 0.5; return p }(), 1000},
		{"rounds", func() domain.SimulationParams { p := baseParams(); p.RoundsPerTrial = 200; return p }(), 1000},
		{"trial count", baseParams(), 2000},
	}

	for _, v := range variants {
		if got := ComputeBatchID(v.params, v.trials); got == base {
			t.Errorf("changing %s did not change the batch ID", v.name)
		}
	}
}
