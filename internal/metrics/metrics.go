// Package metrics provides the Prometheus registry for the prediction service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "smartscore"

var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsComputedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_computed_total",
		Help:      "Total number of match predictions computed",
	})
	PredictionsStoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_stored_total",
		Help:      "Total number of predictions written to storage",
	})
	PredictionDuplicatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prediction_duplicates_total",
		Help:      "Predictions skipped because one was already stored for the match",
	})
	PredictionErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prediction_errors_total",
		Help:      "Total number of predictions that failed",
	})
	RejectedRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rejected_records_total",
		Help:      "History records excluded from a snapshot, by status",
	}, []string{"status"})
	MatchesIngestedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "matches_ingested_total",
		Help:      "Matches upserted from the fixture feed, by competition",
	}, []string{"competition"})
	IngestionErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingestion_errors_total",
		Help:      "Fixture feed failures by competition and kind",
	}, []string{"competition", "kind"})
)

// Histogram metrics
var (
	PredictionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_duration_seconds",
		Help:      "Time to compute a single match prediction",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
	})
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "prediction_cache_hit_ratio",
		Help:      "Share of prediction cache lookups served from cache since the last refresh",
	})
	CacheItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "prediction_cache_items",
		Help:      "Entries held in the prediction cache",
	})
	IngestionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ingestion_duration_seconds",
		Help:      "Duration of a full ingestion pass",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsComputedTotal)
		registry.MustRegister(PredictionsStoredTotal)
		registry.MustRegister(PredictionDuplicatesTotal)
		registry.MustRegister(PredictionErrorsTotal)
		registry.MustRegister(RejectedRecordsTotal)
		registry.MustRegister(MatchesIngestedTotal)
		registry.MustRegister(IngestionErrorsTotal)

		registry.MustRegister(CacheHitRatio)
		registry.MustRegister(CacheItems)

		registry.MustRegister(PredictionDuration)
		registry.MustRegister(IngestionDuration)

		registry.MustRegister(AccuracyRunsTotal)
		registry.MustRegister(AccuracySkippedTotal)
		registry.MustRegister(PredictionAccuracy)
		registry.MustRegister(BrierScore)
		registry.MustRegister(AccuracyRunDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPrediction records one computed prediction and how long it took.
func RecordPrediction(durationSeconds float64) {
	PredictionsComputedTotal.Inc()
	PredictionDuration.Observe(durationSeconds)
}

// RecordPredictionStored records the outcome of an insert-if-absent write.
func RecordPredictionStored(inserted bool) {
	if inserted {
		PredictionsStoredTotal.Inc()
		return
	}
	PredictionDuplicatesTotal.Inc()
}

// RecordPredictionError records a failed prediction.
func RecordPredictionError() {
	PredictionErrorsTotal.Inc()
}

// RecordRejectedRecords adds rejected history records for a status.
func RecordRejectedRecords(status string, count int) {
	if count <= 0 {
		return
	}
	RejectedRecordsTotal.WithLabelValues(status).Add(float64(count))
}

// RecordMatchesIngested adds upserted matches for a competition.
func RecordMatchesIngested(competition string, count int) {
	if count <= 0 {
		return
	}
	MatchesIngestedTotal.WithLabelValues(competition).Add(float64(count))
}

// RecordIngestionError records a feed failure.
// kind should be one of: "fetch", "validation", "storage"
func RecordIngestionError(competition, kind string) {
	IngestionErrorsTotal.WithLabelValues(competition, kind).Inc()
}

// RecordIngestionDuration records the duration of an ingestion pass.
func RecordIngestionDuration(durationSeconds float64) {
	IngestionDuration.Observe(durationSeconds)
}

// RecordCacheStats publishes the prediction cache hit ratio and size.
func RecordCacheStats(hitRatio float64, items int) {
	CacheHitRatio.Set(hitRatio)
	CacheItems.Set(float64(items))
}
