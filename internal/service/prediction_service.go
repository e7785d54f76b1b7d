package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/logger"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/metrics"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/prediction"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/repository"
)

// MatchPrediction pairs a fixture with its computed forecast
type MatchPrediction struct {
	Match      models.Match       `json:"match"`
	Prediction *prediction.Result `json:"prediction"`
}

// RunSummary counts the outcome of a prediction run
type RunSummary struct {
	Predicted  int `json:"predicted"`
	Stored     int `json:"stored"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
	Failed     int `json:"failed"`
	Rejected   int `json:"rejected_records"`
}

// PredictionService forecasts upcoming fixtures from the stored history
type PredictionService struct {
	engine    *prediction.Engine
	repos     *repository.Repositories
	cache     *PredictionCache
	validator *DataValidator
	persist   bool
	audit     *logger.AuditLogger
	logger    *logrus.Logger
}

// NewPredictionService creates a new prediction service. cache may be nil.
func NewPredictionService(
	engine *prediction.Engine,
	repos *repository.Repositories,
	cache *PredictionCache,
	persist bool,
	log *logrus.Logger,
) *PredictionService {
	return &PredictionService{
		engine:    engine,
		repos:     repos,
		cache:     cache,
		validator: NewDataValidator(),
		persist:   persist,
		audit:     logger.NewAuditLogger(log),
		logger:    log,
	}
}

// Engine returns the forecasting engine
func (s *PredictionService) Engine() *prediction.Engine {
	return s.engine
}

// LoadHistory reads every stored match into a validated snapshot
func (s *PredictionService) LoadHistory(ctx context.Context) (*prediction.History, error) {
	records, err := s.repos.Match.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}

	history, err := prediction.NewHistory(records, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build history snapshot: %w", err)
	}

	byStatus := make(map[models.MatchStatus]int)
	for _, r := range history.Rejected() {
		byStatus[r.Match.Status]++
		s.audit.LogRecordRejected(r.Match.ID, string(r.Match.Status), r.Err.Error())
	}
	for status, n := range byStatus {
		metrics.RecordRejectedRecords(string(status), n)
	}

	return history, nil
}

// PredictUpcoming forecasts every SCHEDULED and TIMED fixture with its
// kickoff as the cutoff and, when persistence is on, stores each forecast
// unless one already exists for the match.
func (s *PredictionService) PredictUpcoming(ctx context.Context) (*RunSummary, error) {
	history, err := s.LoadHistory(ctx)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{Rejected: len(history.Rejected())}
	results := make([]*MatchPrediction, 0)
	for _, m := range history.Upcoming() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		mp, err := s.predict(history, m)
		if err != nil {
			summary.Failed++
			continue
		}
		summary.Predicted++
		results = append(results, mp)

		if !s.persist {
			continue
		}
		inserted, err := s.store(ctx, mp)
		switch {
		case errors.Is(err, errInvalidPrediction):
			summary.Invalid++
		case err != nil:
			summary.Failed++
			s.logger.WithError(err).WithField("match_id", m.ID).Error("Failed to store prediction")
		case inserted:
			summary.Stored++
		default:
			summary.Duplicates++
		}
	}

	if s.cache != nil {
		hits, misses, ratio := s.cache.Stats()
		s.cache.Clear()
		s.cache.SetUpcoming(results)
		metrics.RecordCacheStats(ratio, s.cache.ItemCount())
		s.logger.WithFields(logrus.Fields{
			"hits":      hits,
			"misses":    misses,
			"hit_ratio": ratio,
		}).Debug("Prediction cache refreshed")
	}

	s.logger.WithFields(logrus.Fields{
		"predicted":  summary.Predicted,
		"stored":     summary.Stored,
		"duplicates": summary.Duplicates,
		"failed":     summary.Failed,
	}).Info("Prediction run complete")
	return summary, nil
}

var errInvalidPrediction = errors.New("prediction failed validation")

func (s *PredictionService) store(ctx context.Context, mp *MatchPrediction) (bool, error) {
	stored := mp.Prediction.Stored(mp.Match.ID)
	if problems := s.validator.ValidatePrediction(stored); len(problems) > 0 {
		s.logger.WithFields(logrus.Fields{
			"match_id": mp.Match.ID,
			"problems": problems,
		}).Warn("Not storing invalid prediction")
		return false, errInvalidPrediction
	}

	inserted, err := s.repos.Prediction.InsertIfAbsent(ctx, stored)
	if err != nil {
		return false, err
	}
	metrics.RecordPredictionStored(inserted)
	if inserted {
		home, draw, away := stored.Probabilities()
		s.audit.LogPredictionStored(stored.MatchID, home, draw, away, string(stored.PredictedResult), stored.CreatedAt)
	} else {
		s.audit.LogPredictionDuplicate(stored.MatchID)
	}
	return inserted, nil
}

func (s *PredictionService) predict(history *prediction.History, m models.Match) (*MatchPrediction, error) {
	start := time.Now()
	result, err := s.engine.PredictMatch(history, m)
	if err != nil {
		metrics.RecordPredictionError()
		s.logger.WithError(err).WithField("match_id", m.ID).Error("Prediction failed")
		return nil, err
	}
	metrics.RecordPrediction(time.Since(start).Seconds())
	return &MatchPrediction{Match: m, Prediction: result}, nil
}

// Upcoming returns forecasts for all upcoming fixtures, served from cache
// while it is warm
func (s *PredictionService) Upcoming(ctx context.Context) ([]*MatchPrediction, error) {
	if s.cache != nil {
		if list, ok := s.cache.Upcoming(); ok {
			return list, nil
		}
	}

	history, err := s.LoadHistory(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]*MatchPrediction, 0)
	for _, m := range history.Upcoming() {
		mp, err := s.predict(history, m)
		if err != nil {
			continue
		}
		list = append(list, mp)
	}

	if s.cache != nil {
		s.cache.SetUpcoming(list)
	}
	return list, nil
}

// PredictByID forecasts one stored fixture. Finished fixtures are forecast
// from the history before their kickoff as well.
func (s *PredictionService) PredictByID(ctx context.Context, matchID int64) (*MatchPrediction, error) {
	if matchID <= 0 {
		return nil, models.ErrInvalidID
	}
	if s.cache != nil {
		if mp, ok := s.cache.Get(matchID); ok {
			return mp, nil
		}
	}

	history, err := s.LoadHistory(ctx)
	if err != nil {
		return nil, err
	}
	m, ok := history.Match(matchID)
	if !ok {
		return nil, fmt.Errorf("match %d: %w", matchID, models.ErrNotFound)
	}

	mp, err := s.predict(history, m)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(mp)
	}
	return mp, nil
}
