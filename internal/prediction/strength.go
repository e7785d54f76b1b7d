package prediction

import (
	"math"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
)

// TeamStrength is a team's scoring and conceding rate relative to the
// league average. Both rates are strictly positive.
type TeamStrength struct {
	Team     string  `json:"team"`
	Attack   float64 `json:"attack_rate"`
	Defense  float64 `json:"defense_rate"`
	Matches  int     `json:"matches"`
	Fallback bool    `json:"fallback"`
}

// LeagueAverage returns mean goals per team per match over the given
// finished matches, or 0 when there are none.
func LeagueAverage(matches []models.Match) float64 {
	if len(matches) == 0 {
		return 0
	}
	goals := 0
	for _, m := range matches {
		goals += *m.HomeScore + *m.AwayScore
	}
	return float64(goals) / float64(2*len(matches))
}

// LeagueAverageFor averages goals over the prior matches of league only.
// It falls back to every prior match when league is empty or has no prior
// matches, so a newly tracked competition still gets a typical average.
func LeagueAverageFor(league string, prior []models.Match) float64 {
	if league == "" {
		return LeagueAverage(prior)
	}
	var own []models.Match
	for _, m := range prior {
		if m.League == league {
			own = append(own, m)
		}
	}
	if len(own) == 0 {
		return LeagueAverage(prior)
	}
	return LeagueAverage(own)
}

// EstimateStrength derives a team's rates from prior finished matches.
// prior must already respect the causal cutoff. A team with no prior
// matches, or a league with no goals to normalize against, gets the
// fallback rate.
func EstimateStrength(team string, prior []models.Match, leagueAvg float64, p Params) TeamStrength {
	var scored, conceded, played int
	for _, m := range prior {
		switch team {
		case m.HomeTeam:
			scored += *m.HomeScore
			conceded += *m.AwayScore
		case m.AwayTeam:
			scored += *m.AwayScore
			conceded += *m.HomeScore
		default:
			continue
		}
		played++
	}

	if played == 0 || leagueAvg <= 0 {
		return TeamStrength{
			Team:     team,
			Attack:   p.FallbackRate,
			Defense:  p.FallbackRate,
			Matches:  played,
			Fallback: true,
		}
	}

	n := float64(played)
	return TeamStrength{
		Team:    team,
		Attack:  clampRate(float64(scored)/n/leagueAvg, p.RateFloor),
		Defense: clampRate(float64(conceded)/n/leagueAvg, p.RateFloor),
		Matches: played,
	}
}

func clampRate(v, floor float64) float64 {
	if math.IsNaN(v) || v < floor {
		return floor
	}
	return v
}
