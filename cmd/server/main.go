// Package main provides the unified service that runs all components together:
// - Sweeps (scheduled): one batch per bankroll, persisted as aggregates + histograms
// - Reporting (scheduled): RUIN_REPORT.md and RUIN_SUMMARY.csv
// - HTTP: /health, /status, /metrics (Prometheus), /ws (batch completion events)
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"casino-ruin-lab/internal/batch"
	"casino-ruin-lab/internal/domain"
	"casino-ruin-lab/internal/observability"
	"casino-ruin-lab/internal/reporting"
	"casino-ruin-lab/internal/storage"
	chstore "casino-ruin-lab/internal/storage/clickhouse"
	"casino-ruin-lab/internal/storage/memory"
	"casino-ruin-lab/internal/storage/migrations"
	pgstore "casino-ruin-lab/internal/storage/postgres"
	"casino-ruin-lab/internal/stream"
	"casino-ruin-lab/internal/sweep"
)

// Server holds all components of the unified service.
type Server struct {
	// Configuration
	config         domain.SweepConfig
	workers        int
	outputDir      string
	sweepInterval  time.Duration
	reportInterval time.Duration

	// Stores
	aggregateStore storage.BatchAggregateStore
	histogramStore storage.HistogramStore

	// Components
	hub    *stream.Hub
	logger *log.Logger

	// State
	mu            sync.Mutex
	started       time.Time
	lastSweepRun  time.Time
	lastReportRun time.Time
	sweepRunning  bool
	reportRunning bool

	// Stats
	sweepRuns  int
	reportRuns int
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	full := flag.Bool("full", false, "Run the full bankroll ladder preset instead of the quick preset")
	workers := flag.Int("workers", 0, "Trial worker count per batch (0 or 1 runs sequentially)")
	outputDir := flag.String("output-dir", "output", "Output directory for reports")
	sweepInterval := flag.Duration("sweep-interval", 1*time.Hour, "Sweep run interval")
	reportInterval := flag.Duration("report-interval", 6*time.Hour, "Report generation interval")
	httpAddr := flag.String("http-addr", ":9090", "HTTP address for health/status/metrics/ws")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	config := domain.SweepConfigQuick
	if *full {
		config = domain.SweepConfigFull
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Create stores
	aggStore, histStore, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	server := &Server{
		config:         config,
		workers:        *workers,
		outputDir:      *outputDir,
		sweepInterval:  *sweepInterval,
		reportInterval: *reportInterval,
		aggregateStore: aggStore,
		histogramStore: histStore,
		hub:            stream.NewHub(),
		logger:         logger,
	}

	// Channel to signal completion
	done := make(chan error, 1)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	// Start HTTP server
	go server.startHTTPServer(*httpAddr)

	// Run the unified server
	err = server.Run(ctx)
	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates the aggregate and histogram stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (
	storage.BatchAggregateStore,
	storage.HistogramStore,
	func(),
	error,
) {
	if useMemory {
		return memory.NewBatchAggregateStore(), memory.NewHistogramStore(), func() {}, nil
	}

	// PostgreSQL (batch aggregates)
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("migrate postgres: %w", err)
	}

	// ClickHouse (histogram bins)
	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("migrate clickhouse: %w", err)
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return pgstore.NewBatchAggregateStore(pool), chstore.NewHistogramStore(chConn), cleanup, nil
}

// Run starts the sweep and report schedulers.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Println("Starting unified server...")

	s.mu.Lock()
	s.started = time.Now()
	s.mu.Unlock()

	errCh := make(chan error, 2)

	go func() {
		err := s.runSweepScheduler(ctx)
		if err != nil && err != context.Canceled {
			errCh <- fmt.Errorf("sweep scheduler: %w", err)
		}
	}()

	go func() {
		err := s.runReportScheduler(ctx)
		if err != nil && err != context.Canceled {
			errCh <- fmt.Errorf("report scheduler: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// runSweepScheduler runs sweeps on schedule.
func (s *Server) runSweepScheduler(ctx context.Context) error {
	s.logger.Printf("Starting sweep scheduler (interval: %v)...", s.sweepInterval)

	// Run immediately on start
	s.runSweep(ctx)

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runSweep(ctx)
		}
	}
}

// runSweep executes one bankroll sweep.
func (s *Server) runSweep(ctx context.Context) {
	s.mu.Lock()
	if s.sweepRunning {
		s.mu.Unlock()
		s.logger.Println("Sweep already running, skipping...")
		return
	}
	s.sweepRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.sweepRunning = false
		s.lastSweepRun = time.Now()
		s.sweepRuns++
		s.mu.Unlock()
	}()

	s.logger.Println("Running sweep...")
	start := time.Now()

	orch := sweep.New(sweep.Options{
		Runner:         batch.NewRunner(batch.RunnerOptions{Workers: s.workers}),
		AggregateStore: s.aggregateStore,
		HistogramStore: s.histogramStore,
		Config:         s.config,
		Notifier:       s.hub,
		Verbose:        true,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		s.logger.Printf("Sweep error: %v", err)
		observability.RecordSweepRun("error", time.Since(start).Seconds())
		return
	}

	s.logger.Printf("Sweep completed in %v: %d batches, %d aggregates, %d histograms (%d errors)",
		time.Since(start), result.BatchesRun, result.AggregatesStored, result.HistogramsStored, len(result.Errors))

	observability.RecordSweepRun("success", time.Since(start).Seconds())
	observability.DefaultMetrics.LastSuccessfulSweep.Set(float64(time.Now().Unix()))
}

// runReportScheduler runs report generation on schedule.
func (s *Server) runReportScheduler(ctx context.Context) error {
	s.logger.Printf("Starting report scheduler (interval: %v)...", s.reportInterval)

	// Give the first sweep a head start before generating reports
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(1 * time.Minute):
	}

	s.runReport(ctx)

	ticker := time.NewTicker(s.reportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runReport(ctx)
		}
	}
}

// runReport generates reports.
func (s *Server) runReport(ctx context.Context) {
	s.mu.Lock()
	if s.reportRunning {
		s.mu.Unlock()
		s.logger.Println("Report generation already running, skipping...")
		return
	}
	s.reportRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.reportRunning = false
		s.lastReportRun = time.Now()
		s.reportRuns++
		s.mu.Unlock()
	}()

	s.logger.Println("Generating reports...")
	start := time.Now()

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		s.logger.Printf("Failed to create output directory: %v", err)
		return
	}

	report, err := reporting.NewGenerator(s.aggregateStore, s.histogramStore).Generate(ctx)
	if err != nil {
		s.logger.Printf("Report generation error: %v", err)
		return
	}

	mdPath := filepath.Join(s.outputDir, "RUIN_REPORT.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0644); err != nil {
		s.logger.Printf("Failed to write %s: %v", mdPath, err)
		return
	}
	csvPath := filepath.Join(s.outputDir, "RUIN_SUMMARY.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.RuinRows)), 0644); err != nil {
		s.logger.Printf("Failed to write %s: %v", csvPath, err)
		return
	}

	observability.RecordReportGenerated()
	s.logger.Printf("Reports generated in %v to %s/", time.Since(start), s.outputDir)
}

// startHTTPServer starts the HTTP server for health/metrics/status/ws.
func (s *Server) startHTTPServer(addr string) {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("/metrics", observability.Handler())

	// Status endpoint
	mux.HandleFunc("/status", s.handleStatus)

	// WebSocket batch completion events
	mux.Handle("/ws", s.hub)

	s.logger.Printf("Starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		s.logger.Printf("HTTP server error: %v", err)
	}
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status        string    `json:"status"`
	Uptime        string    `json:"uptime"`
	LastSweepRun  time.Time `json:"last_sweep_run,omitempty"`
	LastReportRun time.Time `json:"last_report_run,omitempty"`
	SweepRuns     int       `json:"sweep_runs"`
	ReportRuns    int       `json:"report_runs"`
	SweepRunning  bool      `json:"sweep_running"`
	ReportRunning bool      `json:"report_running"`
	StreamClients int       `json:"stream_clients"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := StatusResponse{
		Status:        "running",
		Uptime:        time.Since(s.started).String(),
		LastSweepRun:  s.lastSweepRun,
		LastReportRun: s.lastReportRun,
		SweepRuns:     s.sweepRuns,
		ReportRuns:    s.reportRuns,
		SweepRunning:  s.sweepRunning,
		ReportRunning: s.reportRunning,
	}
	s.mu.Unlock()
	resp.StreamClients = s.hub.ClientCount()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
