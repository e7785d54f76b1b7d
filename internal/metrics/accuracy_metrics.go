package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	AccuracyRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accuracy_runs_total",
		Help:      "Total number of accuracy runs by mode and status",
	}, []string{"mode", "status"})
	AccuracySkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accuracy_skipped_total",
		Help:      "Items skipped by accuracy runs, by mode",
	}, []string{"mode"})
)

var (
	PredictionAccuracy = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "prediction_accuracy",
		Help:      "Share of correctly predicted outcomes in the last run, by mode",
	}, []string{"mode"})
	BrierScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "prediction_brier_score",
		Help:      "Mean multi-class Brier score of the last run, by mode",
	}, []string{"mode"})
)

var AccuracyRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "accuracy_run_duration_seconds",
	Help:      "Duration of accuracy runs in seconds",
	Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
})

// RecordAccuracyRun records a finished accuracy run.
// mode is "replay" or "stored"; status is "success" or "failure".
func RecordAccuracyRun(mode, status string, durationSeconds float64) {
	AccuracyRunsTotal.WithLabelValues(mode, status).Inc()
	AccuracyRunDuration.Observe(durationSeconds)
}

// UpdateAccuracy publishes the headline numbers of the last run for a mode.
func UpdateAccuracy(mode string, accuracy, brier float64, skipped int) {
	PredictionAccuracy.WithLabelValues(mode).Set(accuracy)
	BrierScore.WithLabelValues(mode).Set(brier)
	if skipped > 0 {
		AccuracySkippedTotal.WithLabelValues(mode).Add(float64(skipped))
	}
}
