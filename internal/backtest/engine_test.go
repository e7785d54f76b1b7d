package backtest

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/prediction"
)

var kickoff = time.Date(2024, 8, 10, 14, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func result(id int64, home, away string, hs, as, dayOffset int) *models.Match {
	return &models.Match{
		ID:        id,
		HomeTeam:  home,
		AwayTeam:  away,
		League:    "Serie A",
		Status:    models.StatusFinished,
		HomeScore: models.IntPtr(hs),
		AwayScore: models.IntPtr(as),
		Date:      kickoff.AddDate(0, 0, dayOffset),
	}
}

func buildHistory(t *testing.T, records ...*models.Match) *prediction.History {
	t.Helper()
	h, err := prediction.NewHistory(records, quietLogger())
	require.NoError(t, err)
	return h
}

func seasonHistory(t *testing.T) *prediction.History {
	return buildHistory(t,
		result(1, "Inter", "Roma", 3, 1, 0),
		result(2, "Milan", "Napoli", 1, 1, 1),
		result(3, "Roma", "Milan", 0, 2, 7),
		result(4, "Napoli", "Inter", 1, 2, 8),
		result(5, "Inter", "Milan", 2, 0, 14),
		result(6, "Roma", "Napoli", 1, 3, 15),
		result(7, "Milan", "Inter", -1, 0, 16),
		&models.Match{
			ID: 8, HomeTeam: "Napoli", AwayTeam: "Roma", League: "Serie A",
			Status: models.StatusTimed, Date: kickoff.AddDate(0, 0, 21),
		},
	)
}

func newTracker(t *testing.T, cfg TrackerConfig, p Predictor) *Tracker {
	t.Helper()
	tr, err := NewTracker(cfg, p, quietLogger())
	require.NoError(t, err)
	return tr
}

func realEngine(t *testing.T) *prediction.Engine {
	t.Helper()
	e, err := prediction.NewEngine(prediction.DefaultParams(), quietLogger())
	require.NoError(t, err)
	return e
}

type scriptedPredictor struct {
	outcome models.Outcome
	panics  map[int64]bool
	fails   map[int64]bool
}

func (s scriptedPredictor) PredictMatch(h *prediction.History, m models.Match) (*prediction.Result, error) {
	if s.panics[m.ID] {
		panic("boom")
	}
	if s.fails[m.ID] {
		return nil, errors.New("model unavailable")
	}
	return &prediction.Result{Predicted: s.outcome, HomeWinProb: 0.5, DrawProb: 0.3, AwayWinProb: 0.2}, nil
}

func TestNewTrackerValidation(t *testing.T) {
	_, err := NewTracker(DefaultTrackerConfig(), nil, quietLogger())
	assert.Error(t, err)

	cfg := DefaultTrackerConfig()
	cfg.Workers = 0
	_, err = NewTracker(cfg, scriptedPredictor{}, quietLogger())
	assert.Error(t, err)
}

func TestReplayScoresFinishedMatches(t *testing.T) {
	tr := newTracker(t, DefaultTrackerConfig(), realEngine(t))

	report, err := tr.Replay(context.Background(), seasonHistory(t))
	require.NoError(t, err)

	assert.Equal(t, ModeReplay, report.Mode)
	assert.Equal(t, 6, report.Total)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, report.SkippedItems, 1)
	assert.Equal(t, int64(7), report.SkippedItems[0].MatchID)

	require.Len(t, report.Evaluations, 6)
	for i := 1; i < len(report.Evaluations); i++ {
		assert.False(t, report.Evaluations[i].Date.Before(report.Evaluations[i-1].Date))
	}

	first := report.Evaluations[0]
	assert.Equal(t, int64(1), first.MatchID)
	assert.Equal(t, models.OutcomeHome, first.Actual)
	// no prior matches, so both sides use the fallback and home advantage decides
	assert.Equal(t, models.OutcomeHome, first.Predicted)
	assert.True(t, first.Correct)

	correct := 0
	for _, e := range report.Evaluations {
		assert.Equal(t, e.Predicted == e.Actual, e.Correct)
		if e.Correct {
			correct++
		}
	}
	assert.Equal(t, correct, report.Correct)
	assert.InDelta(t, float64(correct)/6, report.Accuracy, 1e-12)
	assert.NotNil(t, report.Bootstrap)
}

func TestReplayIsolatesFailures(t *testing.T) {
	p := scriptedPredictor{
		outcome: models.OutcomeHome,
		panics:  map[int64]bool{3: true},
		fails:   map[int64]bool{4: true},
	}
	tr := newTracker(t, DefaultTrackerConfig(), p)

	report, err := tr.Replay(context.Background(), seasonHistory(t))
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 3, report.Skipped)
	ids := map[int64]bool{}
	for _, s := range report.SkippedItems {
		ids[s.MatchID] = true
	}
	assert.Equal(t, map[int64]bool{3: true, 4: true, 7: true}, ids)
}

func TestReplaySameResultForAnyWorkerCount(t *testing.T) {
	h := seasonHistory(t)
	engine := realEngine(t)

	seq := DefaultTrackerConfig()
	seq.Workers = 1
	par := DefaultTrackerConfig()
	par.Workers = 8

	a, err := newTracker(t, seq, engine).Replay(context.Background(), h)
	require.NoError(t, err)
	b, err := newTracker(t, par, engine).Replay(context.Background(), h)
	require.NoError(t, err)

	assert.Equal(t, a.Evaluations, b.Evaluations)
	assert.Equal(t, a.Accuracy, b.Accuracy)
	assert.Equal(t, a.BrierScore, b.BrierScore)
}

func TestReplayWarmupAndRange(t *testing.T) {
	cfg := DefaultTrackerConfig()
	cfg.MinHistory = 2
	cfg.EndDate = kickoff.AddDate(0, 0, 8)

	report, err := newTracker(t, cfg, realEngine(t)).Replay(context.Background(), seasonHistory(t))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Warmup)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 0, report.Skipped)
}

func TestReplayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTracker(t, DefaultTrackerConfig(), realEngine(t)).Replay(ctx, seasonHistory(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScoreStoredHomeWin(t *testing.T) {
	h := buildHistory(t, result(42, "Lazio", "Torino", 3, 1, 0))
	tr := newTracker(t, DefaultTrackerConfig(), realEngine(t))

	hit, err := tr.ScoreStored(h, []*models.StoredPrediction{
		models.NewStoredPrediction(42, 0.55, 0.25, 0.20, models.OutcomeHome),
	})
	require.NoError(t, err)
	require.Len(t, hit.Evaluations, 1)
	assert.Equal(t, models.OutcomeHome, hit.Evaluations[0].Actual)
	assert.True(t, hit.Evaluations[0].Correct)
	assert.Equal(t, 1.0, hit.Accuracy)

	miss, err := tr.ScoreStored(h, []*models.StoredPrediction{
		models.NewStoredPrediction(42, 0.30, 0.40, 0.30, models.OutcomeDraw),
	})
	require.NoError(t, err)
	assert.False(t, miss.Evaluations[0].Correct)
	assert.Equal(t, 0.0, miss.Accuracy)
}

func TestScoreStoredSkipsAndIgnores(t *testing.T) {
	h := buildHistory(t,
		result(1, "Lazio", "Torino", 2, 2, 0),
		result(2, "Torino", "Lazio", -4, 0, 1),
		&models.Match{ID: 3, HomeTeam: "Lazio", AwayTeam: "Genoa", Status: models.StatusScheduled, Date: kickoff.AddDate(0, 0, 9)},
	)
	tr := newTracker(t, DefaultTrackerConfig(), realEngine(t))

	report, err := tr.ScoreStored(h, []*models.StoredPrediction{
		models.NewStoredPrediction(1, 0.3, 0.4, 0.3, models.OutcomeDraw),
		models.NewStoredPrediction(2, 0.5, 0.3, 0.2, models.OutcomeHome),
		models.NewStoredPrediction(3, 0.5, 0.3, 0.2, models.OutcomeHome),
		models.NewStoredPrediction(99, 0.5, 0.3, 0.2, models.OutcomeHome),
		nil,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Correct)
	assert.Equal(t, 2, report.Skipped)
}
