package backtest

import (
	"fmt"
	"time"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/config"
)

const dateLayout = "2006-01-02"

// TrackerConfig controls an accuracy replay
type TrackerConfig struct {
	// Workers bounds how many matches are replayed concurrently.
	Workers int
	// StartDate and EndDate restrict which finished matches are scored.
	// Zero values leave that side open. History before StartDate is
	// still used to predict.
	StartDate time.Time
	EndDate   time.Time
	// MinHistory skips scoring while fewer finished matches than this
	// precede the fixture.
	MinHistory          int
	WindowDays          int
	BootstrapIterations int
	Seed                int64
	OutputPath          string
}

// DefaultTrackerConfig returns sequential-safe defaults.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		Workers:             4,
		WindowDays:          30,
		BootstrapIterations: 1000,
		Seed:                1,
	}
}

// FromConfig converts app config to tracker config
func FromConfig(cfg *config.AccuracyConfig) (TrackerConfig, error) {
	if cfg == nil {
		return TrackerConfig{}, fmt.Errorf("accuracy config is required")
	}

	tc := TrackerConfig{
		Workers:             cfg.Workers,
		MinHistory:          cfg.MinHistory,
		WindowDays:          cfg.WindowDays,
		BootstrapIterations: cfg.BootstrapIterations,
		Seed:                cfg.Seed,
		OutputPath:          cfg.OutputPath,
	}

	var err error
	if cfg.StartDate != "" {
		if tc.StartDate, err = time.Parse(dateLayout, cfg.StartDate); err != nil {
			return TrackerConfig{}, fmt.Errorf("invalid start date: %w", err)
		}
	}
	if cfg.EndDate != "" {
		if tc.EndDate, err = time.Parse(dateLayout, cfg.EndDate); err != nil {
			return TrackerConfig{}, fmt.Errorf("invalid end date: %w", err)
		}
	}

	return tc, tc.Validate()
}

// Validate validates tracker config parameters
func (c TrackerConfig) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if !c.StartDate.IsZero() && !c.EndDate.IsZero() && c.StartDate.After(c.EndDate) {
		return fmt.Errorf("start date must be before end date")
	}
	if c.MinHistory < 0 {
		return fmt.Errorf("min history cannot be negative")
	}
	if c.WindowDays <= 0 {
		return fmt.Errorf("window days must be positive")
	}
	if c.BootstrapIterations < 0 {
		return fmt.Errorf("bootstrap iterations cannot be negative")
	}
	return nil
}

func (c TrackerConfig) inRange(t time.Time) bool {
	if !c.StartDate.IsZero() && t.Before(c.StartDate) {
		return false
	}
	if !c.EndDate.IsZero() && !t.Before(c.EndDate.AddDate(0, 0, 1)) {
		return false
	}
	return true
}
