// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Simulation metrics
	TrialsSimulated  prometheus.Counter
	BatchesCompleted prometheus.Counter
	BatchDuration    prometheus.Histogram
	SweepRunsTotal   *prometheus.CounterVec
	SweepDuration    prometheus.Histogram

	// Result metrics
	RuinProbability  *prometheus.GaugeVec
	SurvivorCount    *prometheus.GaugeVec
	AggregatesStored prometheus.Counter
	HistogramsStored prometheus.Counter
	DuplicateSkips   prometheus.Counter
	ReportsGenerated prometheus.Counter

	// Stream metrics
	StreamClients    prometheus.Gauge
	StreamEventsSent prometheus.Counter

	// Health metrics
	LastSuccessfulSweep prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "casino_ruin_lab"
	}

	return &Metrics{
		TrialsSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "trials_simulated_total",
			Help:      "Total number of trials simulated",
		}),
		BatchesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "batches_completed_total",
			Help:      "Total number of trial batches completed",
		}),
		BatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "batch_duration_seconds",
			Help:      "Trial batch execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}),
		SweepRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "runs_total",
			Help:      "Total number of sweep runs by status",
		}, []string{"status"}),
		SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "duration_seconds",
			Help:      "Sweep execution duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),

		RuinProbability: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "results",
			Name:      "ruin_probability",
			Help:      "Estimated ruin probability by starting bankroll",
		}, []string{"starting_bankroll"}),
		SurvivorCount: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "results",
			Name:      "survivor_count",
			Help:      "Surviving trial count by starting bankroll",
		}, []string{"starting_bankroll"}),
		AggregatesStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "results",
			Name:      "aggregates_stored_total",
			Help:      "Total number of batch aggregates stored",
		}),
		HistogramsStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "results",
			Name:      "histograms_stored_total",
			Help:      "Total number of histograms stored",
		}),
		DuplicateSkips: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "results",
			Name:      "duplicate_skips_total",
			Help:      "Total number of inserts skipped because the batch already exists",
		}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "results",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		StreamClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "clients",
			Help:      "Current number of connected WebSocket clients",
		}),
		StreamEventsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "events_sent_total",
			Help:      "Total number of events broadcast to WebSocket clients",
		}),

		LastSuccessfulSweep: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_sweep_timestamp",
			Help:      "Unix timestamp of last successful sweep",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordBatchCompleted records one completed batch and its trial count.
func RecordBatchCompleted(trialCount int, durationSeconds float64) {
	DefaultMetrics.BatchesCompleted.Inc()
	DefaultMetrics.TrialsSimulated.Add(float64(trialCount))
	DefaultMetrics.BatchDuration.Observe(durationSeconds)
}

// RecordSweepRun records a sweep run.
func RecordSweepRun(status string, durationSeconds float64) {
	DefaultMetrics.SweepRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.SweepDuration.Observe(durationSeconds)
}

// RecordRuinProbability updates the ruin probability gauge for a bankroll.
func RecordRuinProbability(bankrollLabel string, probability float64, survivors int) {
	DefaultMetrics.RuinProbability.WithLabelValues(bankrollLabel).Set(probability)
	DefaultMetrics.SurvivorCount.WithLabelValues(bankrollLabel).Set(float64(survivors))
}

// RecordAggregateStored increments the aggregates stored counter.
func RecordAggregateStored() {
	DefaultMetrics.AggregatesStored.Inc()
}

// RecordHistogramStored increments the histograms stored counter.
func RecordHistogramStored() {
	DefaultMetrics.HistogramsStored.Inc()
}

// RecordDuplicateSkip increments the duplicate skip counter.
func RecordDuplicateSkip() {
	DefaultMetrics.DuplicateSkips.Inc()
}

// RecordReportGenerated increments the reports generated counter.
func RecordReportGenerated() {
	DefaultMetrics.ReportsGenerated.Inc()
}
