package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Walk-forward metrics
	windowsTrained = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_validator_windows_trained_total",
			Help: "Total number of walk-forward windows trained and scored",
		},
		[]string{"strategy"},
	)

	windowsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_validator_windows_skipped_total",
			Help: "Total number of walk-forward windows skipped",
		},
		[]string{"strategy", "reason"},
	)

	trainingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "circuit_validator_training_duration_seconds",
			Help:    "Distribution of per-window training durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	// Run-level metrics
	lastRunF1 = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_validator_last_run_avg_f1",
			Help: "Average F1 of the most recent walk-forward run",
		},
		[]string{"strategy"},
	)

	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_validator_runs_total",
			Help: "Total number of walk-forward runs",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(windowsTrained)
	prometheus.MustRegister(windowsSkipped)
	prometheus.MustRegister(trainingDuration)
	prometheus.MustRegister(lastRunF1)
	prometheus.MustRegister(runsTotal)
}

// MetricsHandler handles the Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordWindowTrained records a completed window and its training duration
func RecordWindowTrained(strategy string, duration time.Duration) {
	windowsTrained.WithLabelValues(strategy).Inc()
	trainingDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// RecordWindowSkipped records a skipped window with the skip reason
func RecordWindowSkipped(strategy, reason string) {
	windowsSkipped.WithLabelValues(strategy, reason).Inc()
}

// RecordRun records the outcome of a full walk-forward run
func RecordRun(strategy string, avgF1 float64, ok bool) {
	lastRunF1.WithLabelValues(strategy).Set(avgF1)
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	runsTotal.WithLabelValues(outcome).Inc()
}
