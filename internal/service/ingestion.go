package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/datasource"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/logger"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/metrics"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/repository"
)

// IngestionService pulls fixtures from the feed into the match store
type IngestionService struct {
	source       datasource.MatchSource
	matchRepo    repository.MatchRepository
	validator    *DataValidator
	normalizer   *DataNormalizer
	competitions []string
	pause        time.Duration
	cache        *PredictionCache
	logger       *logger.IngestionLogger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	source datasource.MatchSource,
	matchRepo repository.MatchRepository,
	competitions []string,
	pause time.Duration,
	log *logrus.Logger,
) *IngestionService {
	return &IngestionService{
		source:       source,
		matchRepo:    matchRepo,
		validator:    NewDataValidator(),
		normalizer:   NewDataNormalizer(),
		competitions: competitions,
		pause:        pause,
		logger:       logger.NewIngestionLogger(log),
	}
}

// WithPredictionCache makes Run flush cached forecasts whenever it stores
// matches, so the API never serves forecasts built on replaced results.
func (s *IngestionService) WithPredictionCache(c *PredictionCache) *IngestionService {
	s.cache = c
	return s
}

// Run ingests every configured competition. A failing competition is logged
// and counted; Run only errors when the context ends or nothing succeeded.
func (s *IngestionService) Run(ctx context.Context) (*IngestionMetrics, error) {
	m := NewIngestionMetrics()
	defer func() {
		m.Finish()
		metrics.RecordIngestionDuration(m.Duration.Seconds())
		if s.cache != nil && m.Stored > 0 {
			s.cache.Clear()
		}
	}()

	for i, code := range s.competitions {
		if i > 0 && s.pause > 0 {
			select {
			case <-ctx.Done():
				return m, ctx.Err()
			case <-time.After(s.pause):
			}
		}

		if err := s.ingestCompetition(ctx, code, m); err != nil {
			if ctx.Err() != nil {
				return m, ctx.Err()
			}
			m.RecordFailedCompetition(code)
			s.logger.LogCompetitionFailed(code, err)
		}
	}

	s.logger.LogIngestionSummary(m.Fetched, m.Stored, m.ValidationErrors, len(m.FailedCompetitions))
	if len(s.competitions) > 0 && len(m.FailedCompetitions) == len(s.competitions) {
		return m, fmt.Errorf("all competitions failed: %s", strings.Join(m.FailedCompetitions, ", "))
	}
	return m, nil
}

func (s *IngestionService) ingestCompetition(ctx context.Context, code string, m *IngestionMetrics) error {
	start := time.Now()
	fetched, err := s.source.FetchMatches(ctx, code)
	if err != nil {
		metrics.RecordIngestionError(code, "fetch")
		return fmt.Errorf("failed to fetch %s: %w", code, err)
	}
	m.RecordFetched(len(fetched))
	s.logger.LogCompetitionFetched(code, len(fetched), float64(time.Since(start).Milliseconds()))

	valid := make([]*models.Match, 0, len(fetched))
	for _, match := range fetched {
		s.normalizer.NormalizeMatch(match)
		if problems := s.validator.ValidateMatch(match); len(problems) > 0 {
			m.RecordValidationError()
			metrics.RecordIngestionError(code, "validation")
			fields := logrus.Fields{"competition": code, "problems": problems}
			if match != nil {
				fields["match_id"] = match.ID
			}
			s.logger.WithFields(fields).Warn("Skipping invalid match")
			continue
		}
		valid = append(valid, match)
	}

	stored, err := s.matchRepo.UpsertBatch(ctx, valid)
	if err != nil {
		metrics.RecordIngestionError(code, "storage")
		return fmt.Errorf("failed to store %s matches: %w", code, err)
	}
	m.RecordStored(stored)
	metrics.RecordMatchesIngested(code, stored)
	return nil
}
