package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/prediction"
)

// ErrItemFailed marks a single match whose evaluation failed during a batch.
var ErrItemFailed = errors.New("match evaluation failed")

// Predictor is the part of the prediction engine the tracker needs.
type Predictor interface {
	PredictMatch(history *prediction.History, m models.Match) (*prediction.Result, error)
}

// Tracker scores predictions against realized results
type Tracker struct {
	config    TrackerConfig
	predictor Predictor
	logger    *logrus.Logger
}

// NewTracker creates a new accuracy tracker
func NewTracker(cfg TrackerConfig, predictor Predictor, logger *logrus.Logger) (*Tracker, error) {
	if predictor == nil {
		return nil, fmt.Errorf("predictor is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Tracker{config: cfg, predictor: predictor, logger: logger}, nil
}

// Config returns the tracker configuration
func (t *Tracker) Config() TrackerConfig {
	return t.config
}

// Replay recomputes a prediction for every finished match in range using
// only the matches that kicked off before it, and scores it against the
// final score. Invalid records and failing matches are skipped and counted;
// only cancellation aborts the run.
func (t *Tracker) Replay(ctx context.Context, history *prediction.History) (*Report, error) {
	if history == nil {
		return nil, fmt.Errorf("%w: nil history", prediction.ErrMalformedSnapshot)
	}

	runID := uuid.New()
	started := time.Now()
	t.logger.WithFields(logrus.Fields{
		"run_id":  runID,
		"matches": history.Len(),
		"workers": t.config.Workers,
	}).Info("Starting accuracy replay")

	var targets []models.Match
	warmup := 0
	for _, m := range history.Finished() {
		if !t.config.inRange(m.Date) {
			continue
		}
		if len(history.FinishedBefore(m.Date)) < t.config.MinHistory {
			warmup++
			continue
		}
		targets = append(targets, m)
	}

	state := newReplayState(len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.config.Workers)

	for i := range targets {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ev, err := t.evaluate(history, targets[i])
			if err != nil {
				state.failures[i] = err
				return nil
			}
			state.evaluations[i] = ev
			state.done[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("accuracy replay cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("accuracy replay cancelled: %w", err)
	}

	report := &Report{}
	for _, r := range history.Rejected() {
		if r.Match.Status != models.StatusFinished || !t.config.inRange(r.Match.Date) {
			continue
		}
		report.SkippedItems = append(report.SkippedItems, SkippedItem{MatchID: r.Match.ID, Reason: r.Err.Error()})
	}
	for i, m := range targets {
		if state.done[i] {
			report.Evaluations = append(report.Evaluations, state.evaluations[i])
			continue
		}
		t.logger.WithFields(logrus.Fields{
			"run_id":   runID,
			"match_id": m.ID,
			"error":    state.failures[i],
		}).Warn("Skipping match after evaluation failure")
		report.SkippedItems = append(report.SkippedItems, SkippedItem{MatchID: m.ID, Reason: state.failures[i].Error()})
	}

	t.finish(report, runID, ModeReplay, warmup)
	t.logger.WithFields(logrus.Fields{
		"run_id":   runID,
		"total":    report.Total,
		"correct":  report.Correct,
		"skipped":  report.Skipped,
		"accuracy": report.Accuracy,
		"duration": time.Since(started),
	}).Info("Accuracy replay complete")

	return report, nil
}

// evaluate isolates a single match so a panic in the predictor cannot
// take down the batch.
func (t *Tracker) evaluate(history *prediction.History, m models.Match) (ev Evaluation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: match %d: panic: %v", ErrItemFailed, m.ID, r)
		}
	}()

	result, err := t.predictor.PredictMatch(history, m)
	if err != nil {
		return Evaluation{}, fmt.Errorf("%w: match %d: %v", ErrItemFailed, m.ID, err)
	}
	if result == nil {
		return Evaluation{}, fmt.Errorf("%w: match %d: empty prediction", ErrItemFailed, m.ID)
	}
	return newEvaluation(m, result.Predicted, result.HomeWinProb, result.DrawProb, result.AwayWinProb), nil
}

// ScoreStored scores persisted predictions against the snapshot's results.
// Predictions for matches not yet finished are ignored; predictions whose
// match is missing or invalid are skipped.
func (t *Tracker) ScoreStored(history *prediction.History, stored []*models.StoredPrediction) (*Report, error) {
	if history == nil {
		return nil, fmt.Errorf("%w: nil history", prediction.ErrMalformedSnapshot)
	}

	rejected := make(map[int64]error)
	for _, r := range history.Rejected() {
		rejected[r.Match.ID] = r.Err
	}

	runID := uuid.New()
	report := &Report{}
	for _, sp := range stored {
		if sp == nil {
			continue
		}
		m, ok := history.Match(sp.MatchID)
		if !ok {
			reason := "match not in snapshot"
			if err, bad := rejected[sp.MatchID]; bad {
				reason = err.Error()
			}
			report.SkippedItems = append(report.SkippedItems, SkippedItem{MatchID: sp.MatchID, Reason: reason})
			continue
		}
		if !m.IsFinished() || !t.config.inRange(m.Date) {
			continue
		}
		home, draw, away := sp.Probabilities()
		report.Evaluations = append(report.Evaluations, newEvaluation(m, sp.PredictedResult, home, draw, away))
	}

	sortEvaluations(report.Evaluations)
	t.finish(report, runID, ModeStored, 0)
	t.logger.WithFields(logrus.Fields{
		"run_id":   runID,
		"total":    report.Total,
		"correct":  report.Correct,
		"skipped":  report.Skipped,
		"accuracy": report.Accuracy,
	}).Info("Stored prediction scoring complete")

	return report, nil
}

func (t *Tracker) finish(report *Report, runID uuid.UUID, mode Mode, warmup int) {
	report.Metrics = CalculateMetrics(report.Evaluations, len(report.SkippedItems))
	report.RunID = runID
	report.Mode = mode
	report.Warmup = warmup
	report.WalkForward = WalkForward(report.Evaluations, t.config.WindowDays)
	if t.config.BootstrapIterations > 0 && len(report.Evaluations) > 0 {
		b := RunBootstrap(report.Evaluations, BootstrapConfig{
			Iterations: t.config.BootstrapIterations,
			Seed:       t.config.Seed,
		})
		report.Bootstrap = &b
	}
}
