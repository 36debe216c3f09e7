// Package main provides the one-shot simulation entry point.
// It runs a bankroll sweep with in-memory storage and prints the ruin
// table plus survivor distributions to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"casino-ruin-lab/internal/batch"
	"casino-ruin-lab/internal/domain"
	"casino-ruin-lab/internal/reporting"
	"casino-ruin-lab/internal/rng"
	"casino-ruin-lab/internal/storage/memory"
	"casino-ruin-lab/internal/sweep"
)

func main() {
	// Parse flags (defaults match the quick preset)
	bankrolls := flag.String("bankrolls", "500", "Comma-separated starting bankrolls")
	bet := flag.Float64("bet", 25, "Fixed bet amount per round")
	houseWinProb := flag.Float64("house-win-prob", 5.0/9.0, "Probability the house wins a single round")
	rounds := flag.Int64("rounds", 100, "Bet rounds per trial")
	trials := flag.Int("trials", 100000, "Trials per bankroll")
	bins := flag.Int("bins", 15, "Histogram bin count")
	workers := flag.Int("workers", 0, "Trial worker count (0 or 1 runs sequentially)")
	seed := flag.Uint64("seed", 0, "Base RNG seed (0 uses a time-based seed)")
	full := flag.Bool("full", false, "Run the full bankroll ladder preset, overriding -bankrolls/-rounds/-trials")
	outputFile := flag.String("output", "", "Optional path for a Markdown report")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	config := domain.SweepConfig{
		BetAmount:      *bet,
		HouseWinProb:   *houseWinProb,
		RoundsPerTrial: *rounds,
		TrialsPerBatch: *trials,
		HistogramBins:  *bins,
	}
	if *full {
		config = domain.SweepConfigFull
	} else {
		list, err := parseBankrolls(*bankrolls)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -bankrolls: %v\n", err)
			os.Exit(1)
		}
		config.StartingBankrolls = list
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling sweep...\n", sig)
		cancel()
	}()

	var seedSource rng.SeedSource
	if *seed != 0 {
		seedSource = &rng.FixedSeedSource{Base: *seed}
	}

	aggStore := memory.NewBatchAggregateStore()
	histStore := memory.NewHistogramStore()

	orch := sweep.New(sweep.Options{
		Runner: batch.NewRunner(batch.RunnerOptions{
			SeedSource: seedSource,
			Workers:    *workers,
		}),
		AggregateStore: aggStore,
		HistogramStore: histStore,
		Config:         config,
		Verbose:        *verbose,
	})

	fmt.Println("--- Casino Ruin Simulation ---")
	fmt.Printf("House Win Probability: %.5f%%\n", config.HouseWinProb*100)
	fmt.Printf("Bet Amount: $%.2f\n", config.BetAmount)
	fmt.Printf("Simulating %d trials of %d bets each...\n", config.TrialsPerBatch, config.RoundsPerTrial)

	result, err := orch.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sweep error: %v\n", err)
		os.Exit(1)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", e)
	}

	report, err := reporting.NewGenerator(aggStore, histStore).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Report error: %v\n", err)
		os.Exit(1)
	}

	printReport(report)

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(reporting.RenderMarkdown(report)), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nMarkdown report written to %s\n", *outputFile)
	}
}

// printReport writes the ruin table and per-bankroll distributions to stdout.
func printReport(report *reporting.Report) {
	fmt.Println(strings.Repeat("-", 56))
	fmt.Printf("%18s | %12s | %s\n", "House Bankroll", "Ruin Count", "Ruin Prob (%)")
	fmt.Println(strings.Repeat("-", 56))
	for _, row := range report.RuinRows {
		fmt.Printf("%17s$ | %12d | %.5f\n",
			fmt.Sprintf("%.2f", row.StartingBankroll), row.RuinCount, row.RuinProbability*100)
	}
	fmt.Println(strings.Repeat("-", 56))

	for _, section := range report.Histograms {
		fmt.Printf("\nStarting bankroll $%.2f:\n", section.StartingBankroll)
		if section.NoData {
			fmt.Println("    No surviving trials to chart.")
			continue
		}
		fmt.Print(reporting.RenderBarChart(section.Histogram))
	}
}

// parseBankrolls parses a comma-separated list of positive amounts.
func parseBankrolls(s string) ([]float64, error) {
	var list []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", part, err)
		}
		list = append(list, v)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("no bankrolls given")
	}
	return list, nil
}
