package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	if out.Counter != nil {
		return out.Counter.GetValue()
	}
	return out.Gauge.GetValue()
}

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordPrediction(t *testing.T) {
	InitRegistry()
	before := value(t, PredictionsComputedTotal)

	assert.NotPanics(t, func() {
		RecordPrediction(0.002)
	})
	assert.Equal(t, before+1, value(t, PredictionsComputedTotal))
}

func TestRecordPredictionStored(t *testing.T) {
	InitRegistry()
	stored := value(t, PredictionsStoredTotal)
	dupes := value(t, PredictionDuplicatesTotal)

	RecordPredictionStored(true)
	RecordPredictionStored(false)
	RecordPredictionStored(false)

	assert.Equal(t, stored+1, value(t, PredictionsStoredTotal))
	assert.Equal(t, dupes+2, value(t, PredictionDuplicatesTotal))
}

func TestRecordRejectedRecords(t *testing.T) {
	InitRegistry()
	c := RejectedRecordsTotal.WithLabelValues("FINISHED")
	before := value(t, c)

	RecordRejectedRecords("FINISHED", 3)
	RecordRejectedRecords("FINISHED", 0)

	assert.Equal(t, before+3, value(t, c))
}

func TestIngestionMetrics(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordMatchesIngested("PL", 10)
		RecordIngestionError("PL", "fetch")
		RecordIngestionDuration(4.2)
	})
	assert.Equal(t, float64(1), value(t, IngestionErrorsTotal.WithLabelValues("PL", "fetch")))
}

func TestAccuracyMetrics(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name     string
		mode     string
		accuracy float64
		brier    float64
	}{
		{name: "replay", mode: "replay", accuracy: 0.52, brier: 0.58},
		{name: "stored", mode: "stored", accuracy: 0.48, brier: 0.63},
		{name: "empty run", mode: "replay", accuracy: 0, brier: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordAccuracyRun(tt.mode, "success", 1.5)
				UpdateAccuracy(tt.mode, tt.accuracy, tt.brier, 1)
			})
			assert.Equal(t, tt.accuracy, value(t, PredictionAccuracy.WithLabelValues(tt.mode)))
		})
	}
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()
	RecordPrediction(0.001)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "smartscore_predictions_computed_total"))
}

func TestRecordCacheStats(t *testing.T) {
	InitRegistry()
	RecordCacheStats(0.75, 12)

	assert.Equal(t, 0.75, value(t, CacheHitRatio))
	assert.Equal(t, 12.0, value(t, CacheItems))
}
