package trial

import (
	"testing"

	"casino-ruin-lab/internal/domain"
	"casino-ruin-lab/internal/rng"
)

func params(bankroll, bet, prob float64, rounds int64) domain.SimulationParams {
	return domain.SimulationParams{
		StartingBankroll: bankroll,
		BetAmount:        bet,
		HouseWinProb:     prob,
		RoundsPerTrial:   rounds,
	}
}

func TestRun_Deterministic(t *testing.T) {
	p := params(500, 25, 5.0/9.0, 100)

	a := Run(p, 0, rng.NewSeeded(12345))
	b := Run(p, 0, rng.NewSeeded(12345))

	if a != b {
		t.Errorf("identical seeds produced different outcomes: %+v vs %+v", a, b)
	}
}

func TestRun_HouseAlwaysWins(t *testing.T) {
	p := params(500, 25, 1.0, 200)

	out := Run(p, 0, rng.NewSeeded(1))

	if out.Ruined {
		t.Error("house ruined despite winning every round")
	}
	// 200 wins of 25 on top of 500
	want := 500.0 + 200*25.0
	if out.FinalBankroll != want {
		t.Errorf("expected final bankroll %v, got %v", want, out.FinalBankroll)
	}
	if out.RoundsPlayed != 200 {
		t.Errorf("expected 200 rounds, got %d", out.RoundsPlayed)
	}
}

func TestRun_HouseAlwaysLoses(t *testing.T) {
	// Starting at 500 with bet 25 and probability 0, the bankroll drops by 25
	// each round and first falls below 25 after exactly 20 losing rounds.
	p := params(500, 25, 0.0, 1000)

	out := Run(p, 0, rng.NewSeeded(1))

	if !out.Ruined {
		t.Fatal("expected ruin with zero win probability")
	}
	if out.RoundsPlayed != 20 {
		t.Errorf("expected ruin after 20 rounds, got %d", out.RoundsPlayed)
	}
	if out.FinalBankroll != 0 {
		t.Errorf("expected final bankroll 0, got %v", out.FinalBankroll)
	}
}

func TestRun_ZeroRounds(t *testing.T) {
	tests := []struct {
		name       string
		bankroll   float64
		wantRuined bool
	}{
		{"bankroll above bet", 500, false},
		{"bankroll equals bet", 25, false},
		{"bankroll below bet", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := params(tt.bankroll, 25, 0.5, 0)

			out := Run(p, 0, rng.NewSeeded(1))

			if out.FinalBankroll != tt.bankroll {
				t.Errorf("expected final bankroll %v, got %v", tt.bankroll, out.FinalBankroll)
			}
			if out.Ruined != tt.wantRuined {
				t.Errorf("expected ruined=%v, got %v", tt.wantRuined, out.Ruined)
			}
			if out.RoundsPlayed != 0 {
				t.Errorf("expected 0 rounds, got %d", out.RoundsPlayed)
			}
		})
	}
}

func TestRun_RuinedFlagMatchesFinalBankroll(t *testing.T) {
	p := params(100, 25, 0.5, 50)

	for seed := uint64(0); seed < 200; seed++ {
		out := Run(p, int(seed), rng.NewSeeded(seed))
		if out.Ruined != (out.FinalBankroll < p.BetAmount) {
			t.Fatalf("seed %d: ruined=%v inconsistent with final bankroll %v",
				seed, out.Ruined, out.FinalBankroll)
		}
	}
}

func TestRun_TerminatesImmediatelyOnRuin(t *testing.T) {
	// The trial stops the moment the bankroll drops below the bet. Since the
	// previous round was still covered, a ruined final bankroll is always in
	// [0, bet); anything lower means the walk continued past ruin.
	p := params(500, 25, 0.3, 500)

	for seed := uint64(0); seed < 100; seed++ {
		out := Run(p, int(seed), rng.NewSeeded(seed))
		if out.Ruined && (out.FinalBankroll < 0 || out.FinalBankroll >= p.BetAmount) {
			t.Fatalf("seed %d: ruined final bankroll %v outside [0, bet)", seed, out.FinalBankroll)
		}
	}
}
