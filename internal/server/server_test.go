package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/backtest"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/prediction"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/service"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

type fakePredictions struct {
	list []*service.MatchPrediction
	err  error
}

func (f *fakePredictions) Upcoming(ctx context.Context) ([]*service.MatchPrediction, error) {
	return f.list, f.err
}

func (f *fakePredictions) PredictByID(ctx context.Context, id int64) (*service.MatchPrediction, error) {
	for _, mp := range f.list {
		if mp.Match.ID == id {
			return mp, nil
		}
	}
	return nil, fmt.Errorf("match %d: %w", id, models.ErrNotFound)
}

type fakeAccuracy struct{ report *backtest.Report }

func (f *fakeAccuracy) ScoreStored(ctx context.Context) (*backtest.Report, error) {
	return f.report, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func samplePrediction() *service.MatchPrediction {
	return &service.MatchPrediction{
		Match: models.Match{
			ID:        42,
			HomeTeam:  "Arsenal",
			AwayTeam:  "Liverpool",
			League:    "Premier League",
			Status:    models.StatusScheduled,
			Date:      time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC),
			HomeCrest: "https://crests.example/57.png",
			AwayCrest: "https://crests.example/64.png",
		},
		Prediction: &prediction.Result{
			HomeWinProb:       0.5,
			DrawProb:          0.3,
			AwayWinProb:       0.2,
			ExpectedGoalsHome: 1.6,
			ExpectedGoalsAway: 0.9,
			Predicted:         models.OutcomeHome,
			TopScorelines: []prediction.Scoreline{
				{Home: 1, Away: 0, Prob: 0.12},
				{Home: 1, Away: 1, Prob: 0.11},
				{Home: 2, Away: 0, Prob: 0.10},
				{Home: 2, Away: 1, Prob: 0.09},
			},
			HistorySize: 120,
		},
	}
}

func newTestServer(cfg Config) *Server {
	cfg.ServiceName = "smartscore"
	cfg.Logger = quietLogger()
	return NewServer(cfg)
}

func do(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthAndLive(t *testing.T) {
	s := newTestServer(Config{Version: "1.0.0"})

	rec := do(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	assert.Equal(t, http.StatusOK, do(t, s, "/live").Code)
}

func TestReady(t *testing.T) {
	tests := []struct {
		name   string
		ready  bool
		dbErr  error
		status int
	}{
		{"not marked ready", false, nil, http.StatusServiceUnavailable},
		{"ready", true, nil, http.StatusOK},
		{"database down", true, errors.New("connection refused"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(Config{DB: fakePinger{err: tt.dbErr}})
			s.SetReady(tt.ready)

			rec := do(t, s, "/ready")
			assert.Equal(t, tt.status, rec.Code)

			var resp ReadyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			if tt.dbErr != nil {
				assert.Contains(t, resp.Checks["database"], "connection refused")
			}
		})
	}
}

func TestListPredictions(t *testing.T) {
	s := newTestServer(Config{Predictions: &fakePredictions{list: []*service.MatchPrediction{samplePrediction()}}})

	rec := do(t, s, "/api/predictions")
	require.Equal(t, http.StatusOK, rec.Code)

	var views []PredictionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)

	v := views[0]
	assert.Equal(t, "Arsenal", v.Home)
	assert.Equal(t, "Premier League", v.League)
	assert.Equal(t, "https://crests.example/64.png", v.AwayLogo)
	assert.Equal(t, [3]float64{0.5, 0.3, 0.2}, v.Probs)
	assert.Equal(t, [2]float64{1.6, 0.9}, v.ExpectedGoals)
	assert.Equal(t, models.OutcomeHome, v.Predicted)
	assert.Len(t, v.TopScorelines, apiTopScorelines)
}

func TestListPredictionsEmptyIsArray(t *testing.T) {
	s := newTestServer(Config{Predictions: &fakePredictions{}})

	rec := do(t, s, "/api/predictions")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListPredictionsError(t *testing.T) {
	s := newTestServer(Config{Predictions: &fakePredictions{err: errors.New("db gone")}})
	assert.Equal(t, http.StatusInternalServerError, do(t, s, "/api/predictions").Code)
}

func TestPredictionByID(t *testing.T) {
	s := newTestServer(Config{Predictions: &fakePredictions{list: []*service.MatchPrediction{samplePrediction()}}})

	rec := do(t, s, "/api/predictions/42")
	require.Equal(t, http.StatusOK, rec.Code)
	var v PredictionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, int64(42), v.MatchID)

	assert.Equal(t, http.StatusNotFound, do(t, s, "/api/predictions/7").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, "/api/predictions/abc").Code)
}

func TestPredictionCardSimulation(t *testing.T) {
	mp := samplePrediction()
	mp.Prediction.Cards = prediction.CardEstimate{ExpectedYellow: 3.8, ExpectedRed: 0.2, RedCardProb: 0.18}
	s := newTestServer(Config{Predictions: &fakePredictions{list: []*service.MatchPrediction{mp}}})

	rec := do(t, s, "/api/predictions/42")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "card_simulation")

	rec = do(t, s, "/api/predictions/42?simulate=5000&seed=7")
	require.Equal(t, http.StatusOK, rec.Code)
	var v PredictionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.NotNil(t, v.CardSimulation)
	assert.Equal(t, prediction.SimulateCards(mp.Prediction.Cards, 7, 5000), *v.CardSimulation)

	for _, q := range []string{"simulate=0", "simulate=many", "simulate=1000000", "simulate=10&seed=x"} {
		assert.Equal(t, http.StatusBadRequest, do(t, s, "/api/predictions/42?"+q).Code, q)
	}
}

func TestAccuracy(t *testing.T) {
	report := &backtest.Report{
		Metrics: backtest.Metrics{Mode: backtest.ModeStored, Total: 2, Correct: 1, Accuracy: 0.5},
		Evaluations: []backtest.Evaluation{
			{MatchID: 1, Correct: true},
			{MatchID: 2},
		},
	}
	s := newTestServer(Config{Accuracy: &fakeAccuracy{report: report}})

	var summary AccuracyView
	rec := do(t, s, "/api/accuracy")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.Total)
	assert.InDelta(t, 0.5, summary.Accuracy, 1e-9)
	assert.Empty(t, summary.Evaluations)

	var detailed AccuracyView
	rec = do(t, s, "/api/accuracy?detail=true")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detailed))
	assert.Len(t, detailed.Evaluations, 2)
}

func TestMissingProviders(t *testing.T) {
	s := newTestServer(Config{})
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, "/api/predictions").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, "/api/accuracy").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, "/metrics").Code)
}

func TestMetricsRoute(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("smartscore_up 1\n"))
	})
	s := newTestServer(Config{Metrics: h, MetricsPath: "/metrics"})

	rec := do(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "smartscore_up")
}

func TestStartShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newTestServer(Config{Address: "127.0.0.1:0"})
	require.NoError(t, s.Start(ctx))
	time.Sleep(20 * time.Millisecond)
	assert.NoError(t, s.Shutdown())
}
