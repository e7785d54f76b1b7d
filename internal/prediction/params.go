package prediction

import (
	"errors"
	"fmt"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/config"
)

// ErrInvalidParams is returned when model parameters cannot produce a
// well-defined Poisson model.
var ErrInvalidParams = errors.New("invalid model parameters")

// Params holds the constants of the Poisson model.
type Params struct {
	// FallbackRate is used as both attack and defense rate for a team
	// without finished matches before the reference time.
	FallbackRate float64
	// RateFloor is the minimum attack/defense rate after normalization.
	RateFloor float64
	// HomeAdvantage multiplies the home side's expected goals.
	HomeAdvantage      float64
	LeagueAvgHomeGoals float64
	LeagueAvgAwayGoals float64
	// MinExpectedGoals keeps each Poisson rate away from zero.
	MinExpectedGoals float64
	// MaxGoals is the truncation ceiling K of the scoreline grid.
	MaxGoals   int
	TieEpsilon float64

	YellowCardBase           float64
	RedCardBase              float64
	ReferenceTotalGoals      float64
	CardIntensitySensitivity float64

	// TopScorelines is how many of the most likely scores are reported.
	TopScorelines int
}

// DefaultParams returns the league-typical constants.
func DefaultParams() Params {
	return Params{
		FallbackRate:             1.25,
		RateFloor:                0.1,
		HomeAdvantage:            1.15,
		LeagueAvgHomeGoals:       1.5,
		LeagueAvgAwayGoals:       1.2,
		MinExpectedGoals:         0.1,
		MaxGoals:                 6,
		TieEpsilon:               1e-9,
		YellowCardBase:           4.2,
		RedCardBase:              0.22,
		ReferenceTotalGoals:      2.7,
		CardIntensitySensitivity: 0.25,
		TopScorelines:            3,
	}
}

// ParamsFromConfig converts the model section of the app config
func ParamsFromConfig(cfg *config.ModelConfig) (Params, error) {
	if cfg == nil {
		return Params{}, fmt.Errorf("model config is required")
	}
	p := Params{
		FallbackRate:             cfg.FallbackRate,
		RateFloor:                cfg.RateFloor,
		HomeAdvantage:            cfg.HomeAdvantage,
		LeagueAvgHomeGoals:       cfg.LeagueAvgHomeGoals,
		LeagueAvgAwayGoals:       cfg.LeagueAvgAwayGoals,
		MinExpectedGoals:         cfg.MinExpectedGoals,
		MaxGoals:                 cfg.MaxGoals,
		TieEpsilon:               cfg.TieEpsilon,
		YellowCardBase:           cfg.YellowCardBase,
		RedCardBase:              cfg.RedCardBase,
		ReferenceTotalGoals:      cfg.ReferenceTotalGoals,
		CardIntensitySensitivity: cfg.CardIntensitySensitivity,
		TopScorelines:            cfg.TopScorelines,
	}
	return p, p.Validate()
}

// Validate checks the parameters for internal consistency
func (p Params) Validate() error {
	positive := map[string]float64{
		"fallback_rate":         p.FallbackRate,
		"rate_floor":            p.RateFloor,
		"league_avg_home_goals": p.LeagueAvgHomeGoals,
		"league_avg_away_goals": p.LeagueAvgAwayGoals,
		"min_expected_goals":    p.MinExpectedGoals,
		"yellow_card_base":      p.YellowCardBase,
		"red_card_base":         p.RedCardBase,
		"reference_total_goals": p.ReferenceTotalGoals,
	}
	for name, v := range positive {
		if !(v > 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidParams, name, v)
		}
	}
	if p.HomeAdvantage < 1 {
		return fmt.Errorf("%w: home_advantage must be at least 1, got %v", ErrInvalidParams, p.HomeAdvantage)
	}
	if p.MaxGoals < 1 {
		return fmt.Errorf("%w: max_goals must be at least 1, got %d", ErrInvalidParams, p.MaxGoals)
	}
	if p.TieEpsilon < 0 {
		return fmt.Errorf("%w: tie_epsilon must not be negative", ErrInvalidParams)
	}
	if p.CardIntensitySensitivity < 0 {
		return fmt.Errorf("%w: card_intensity_sensitivity must not be negative", ErrInvalidParams)
	}
	if p.TopScorelines < 0 {
		return fmt.Errorf("%w: top_scorelines must not be negative", ErrInvalidParams)
	}
	return nil
}
