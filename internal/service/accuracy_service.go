package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/backtest"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/logger"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/metrics"
)

// AccuracyService measures how well the model has done on finished matches
type AccuracyService struct {
	predictions *PredictionService
	tracker     *backtest.Tracker
	audit       *logger.AuditLogger
	logger      *logrus.Logger
}

// NewAccuracyService creates a new accuracy service
func NewAccuracyService(predictions *PredictionService, cfg backtest.TrackerConfig, log *logrus.Logger) (*AccuracyService, error) {
	tracker, err := backtest.NewTracker(cfg, predictions.Engine(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracker: %w", err)
	}
	return &AccuracyService{
		predictions: predictions,
		tracker:     tracker,
		audit:       logger.NewAuditLogger(log),
		logger:      log,
	}, nil
}

// Replay re-predicts every finished match from its causal prefix
func (s *AccuracyService) Replay(ctx context.Context) (*backtest.Report, error) {
	start := time.Now()
	history, err := s.predictions.LoadHistory(ctx)
	if err != nil {
		metrics.RecordAccuracyRun(string(backtest.ModeReplay), "failure", time.Since(start).Seconds())
		return nil, err
	}

	report, err := s.tracker.Replay(ctx, history)
	if err != nil {
		metrics.RecordAccuracyRun(string(backtest.ModeReplay), "failure", time.Since(start).Seconds())
		return nil, fmt.Errorf("replay failed: %w", err)
	}
	s.record(report, time.Since(start))
	return report, nil
}

// ScoreStored scores the persisted pre-match predictions
func (s *AccuracyService) ScoreStored(ctx context.Context) (*backtest.Report, error) {
	start := time.Now()
	history, err := s.predictions.LoadHistory(ctx)
	if err != nil {
		metrics.RecordAccuracyRun(string(backtest.ModeStored), "failure", time.Since(start).Seconds())
		return nil, err
	}

	stored, err := s.predictions.repos.Prediction.List(ctx)
	if err != nil {
		metrics.RecordAccuracyRun(string(backtest.ModeStored), "failure", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to load stored predictions: %w", err)
	}

	report, err := s.tracker.ScoreStored(history, stored)
	if err != nil {
		metrics.RecordAccuracyRun(string(backtest.ModeStored), "failure", time.Since(start).Seconds())
		return nil, err
	}
	s.record(report, time.Since(start))
	return report, nil
}

func (s *AccuracyService) record(report *backtest.Report, elapsed time.Duration) {
	report.ParameterHash = backtest.HashParameters(s.predictions.Engine().Params())
	mode := string(report.Mode)
	metrics.RecordAccuracyRun(mode, "success", elapsed.Seconds())
	metrics.UpdateAccuracy(mode, report.Accuracy, report.BrierScore, report.Skipped)
	s.audit.LogAccuracyRun(report.RunID.String(), mode, report.Total, report.Correct, report.Skipped,
		report.Accuracy, report.BrierScore, elapsed)
}
