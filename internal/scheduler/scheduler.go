// Package scheduler runs ingestion, prediction and accuracy jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/backtest"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/config"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/service"
)

// Ingester pulls the latest fixtures and results
type Ingester interface {
	Run(ctx context.Context) (*service.IngestionMetrics, error)
}

// Forecaster predicts and stores upcoming fixtures
type Forecaster interface {
	PredictUpcoming(ctx context.Context) (*service.RunSummary, error)
}

// AccuracyScorer scores stored predictions
type AccuracyScorer interface {
	ScoreStored(ctx context.Context) (*backtest.Report, error)
}

// Scheduler manages the recurring jobs
type Scheduler struct {
	cron            *cron.Cron
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          map[string]cron.EntryID
	jobTimeout      time.Duration
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler. Runs of the same job never overlap.
func NewScheduler(logger *logrus.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(logger.WithField("component", "scheduler"))
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger:          logger,
		jobIDs:          make(map[string]cron.EntryID),
		jobTimeout:      time.Hour,
		gracefulTimeout: 30 * time.Second,
	}
}

// FromConfig schedules every job whose cron expression is set
func FromConfig(cfg *config.SchedulerConfig, ing Ingester, fc Forecaster, acc AccuracyScorer, logger *logrus.Logger) (*Scheduler, error) {
	s := NewScheduler(logger)
	if cfg.IngestCron != "" && ing != nil {
		if err := s.ScheduleIngestion(cfg.IngestCron, ing); err != nil {
			return nil, err
		}
	}
	if cfg.PredictCron != "" && fc != nil {
		if err := s.SchedulePredictions(cfg.PredictCron, fc); err != nil {
			return nil, err
		}
	}
	if cfg.AccuracyCron != "" && acc != nil {
		if err := s.ScheduleAccuracy(cfg.AccuracyCron, acc); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ScheduleIngestion schedules the fixture feed sync
func (s *Scheduler) ScheduleIngestion(cronExpression string, ing Ingester) error {
	return s.addJob("ingestion", cronExpression, func(ctx context.Context) error {
		m, err := ing.Run(ctx)
		if m != nil {
			s.logger.WithField("job", "ingestion").Info(m.String())
		}
		return err
	})
}

// SchedulePredictions schedules the prediction run for upcoming fixtures
func (s *Scheduler) SchedulePredictions(cronExpression string, fc Forecaster) error {
	return s.addJob("predictions", cronExpression, func(ctx context.Context) error {
		_, err := fc.PredictUpcoming(ctx)
		return err
	})
}

// ScheduleAccuracy schedules stored prediction scoring
func (s *Scheduler) ScheduleAccuracy(cronExpression string, acc AccuracyScorer) error {
	return s.addJob("accuracy", cronExpression, func(ctx context.Context) error {
		_, err := acc.ScoreStored(ctx)
		return err
	})
}

func (s *Scheduler) addJob(name, cronExpression string, fn func(context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if _, exists := s.jobIDs[name]; exists {
		return fmt.Errorf("job %s already scheduled", name)
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()

		started := time.Now()
		log := s.logger.WithField("job", name)
		log.Info("Scheduled job starting")
		if err := fn(ctx); err != nil {
			log.WithError(err).Error("Scheduled job failed")
			return
		}
		log.WithField("duration", time.Since(started).String()).Info("Scheduled job completed")
	})
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", name, err)
	}

	s.jobIDs[name] = entryID
	s.logger.WithFields(logrus.Fields{
		"job":  name,
		"cron": cronExpression,
	}).Info("Scheduled job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop waits for running jobs, up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler stop timed out after %v", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// RunNow executes a scheduled job synchronously, outside its schedule
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	id, ok := s.jobIDs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no job named %s", name)
	}

	entry := s.cron.Entry(id)
	if !entry.Valid() {
		return fmt.Errorf("job %s is no longer scheduled", name)
	}
	entry.Job.Run()
	return nil
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (nextRun.IsZero() || entry.Next.Before(nextRun)) {
			nextRun = entry.Next
		}
	}
	return nextRun
}

// Jobs returns the scheduled job names
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobIDs))
	for name := range s.jobIDs {
		names = append(names, name)
	}
	return names
}
