package prediction

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
)

// ErrTeamRequired is returned when a fixture is missing a team name.
var ErrTeamRequired = errors.New("team name is required")

// Result is the full forecast for one fixture.
type Result struct {
	League        string    `json:"league"`
	HomeTeam      string    `json:"home_team"`
	AwayTeam      string    `json:"away_team"`
	ReferenceTime time.Time `json:"reference_time"`
	LeagueAverage float64   `json:"league_average"`

	HomeWinProb       float64        `json:"home_win_prob"`
	DrawProb          float64        `json:"draw_prob"`
	AwayWinProb       float64        `json:"away_win_prob"`
	ExpectedGoalsHome float64        `json:"expected_goals_home"`
	ExpectedGoalsAway float64        `json:"expected_goals_away"`
	Predicted         models.Outcome `json:"predicted_result"`
	PredictedClass    string         `json:"predicted_outcome_class"`

	Scorelines   *ScorelineMatrix `json:"scoreline_matrix"`
	TailMass     float64          `json:"tail_mass"`
	HomeGoalDist []Bucket         `json:"home_goal_dist"`
	AwayGoalDist []Bucket         `json:"away_goal_dist"`

	TopScorelines  []Scoreline  `json:"top_scorelines"`
	OverTwoAndHalf float64      `json:"over_2_5_prob"`
	BothTeamsScore float64      `json:"btts_prob"`
	Cards          CardEstimate `json:"cards"`

	HomeStrength TeamStrength `json:"home_strength"`
	AwayStrength TeamStrength `json:"away_strength"`
	HistorySize  int          `json:"history_size"`
}

// Outcomes returns the 1X2 probabilities.
func (r *Result) Outcomes() OutcomeProbabilities {
	return OutcomeProbabilities{Home: r.HomeWinProb, Draw: r.DrawProb, Away: r.AwayWinProb}
}

// Stored converts the result into its persisted form.
func (r *Result) Stored(matchID int64) *models.StoredPrediction {
	return models.NewStoredPrediction(matchID, r.HomeWinProb, r.DrawProb, r.AwayWinProb, r.Predicted)
}

// Engine turns a history snapshot into fixture forecasts. It holds no
// mutable state, so one Engine may serve concurrent predictions.
type Engine struct {
	params Params
	logger *logrus.Logger
}

// NewEngine creates an engine with validated parameters
func NewEngine(params Params, logger *logrus.Logger) (*Engine, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Engine{params: params, logger: logger}, nil
}

// Params returns the model constants in use.
func (e *Engine) Params() Params {
	return e.params
}

// Predict forecasts home vs away using only matches that finished before at.
// Rates are normalized against the goal average of league; an empty league
// uses every prior match.
func (e *Engine) Predict(history *History, league, home, away string, at time.Time) (*Result, error) {
	if history == nil {
		return nil, fmt.Errorf("%w: nil history", ErrMalformedSnapshot)
	}
	if home == "" || away == "" {
		return nil, ErrTeamRequired
	}

	prior := history.FinishedBefore(at)
	leagueAvg := LeagueAverageFor(league, prior)

	homeStrength := EstimateStrength(home, prior, leagueAvg, e.params)
	awayStrength := EstimateStrength(away, prior, leagueAvg, e.params)
	for _, s := range []TeamStrength{homeStrength, awayStrength} {
		if s.Fallback {
			e.logger.WithFields(logrus.Fields{
				"team":           s.Team,
				"reference_time": at,
				"fallback_rate":  e.params.FallbackRate,
			}).Debug("No prior history for team, using fallback rate")
		}
	}

	xg := CalculateExpectedGoals(homeStrength, awayStrength, e.params)
	matrix := NewScorelineMatrix(xg, e.params.MaxGoals)
	outcomes := matrix.Outcomes()
	predicted := Classify(outcomes, e.params.TieEpsilon)

	return &Result{
		League:            league,
		HomeTeam:          home,
		AwayTeam:          away,
		ReferenceTime:     at,
		LeagueAverage:     leagueAvg,
		HomeWinProb:       outcomes.Home,
		DrawProb:          outcomes.Draw,
		AwayWinProb:       outcomes.Away,
		ExpectedGoalsHome: xg.Home,
		ExpectedGoalsAway: xg.Away,
		Predicted:         predicted,
		PredictedClass:    predicted.Name(),
		Scorelines:        matrix,
		TailMass:          matrix.TailMass(),
		HomeGoalDist:      Marginal(xg.Home, e.params.MaxGoals),
		AwayGoalDist:      Marginal(xg.Away, e.params.MaxGoals),
		TopScorelines:     matrix.MostLikely(e.params.TopScorelines),
		OverTwoAndHalf:    matrix.OverGoals(2.5),
		BothTeamsScore:    matrix.BothTeamsScore(),
		Cards:             EstimateCards(xg, e.params),
		HomeStrength:      homeStrength,
		AwayStrength:      awayStrength,
		HistorySize:       len(prior),
	}, nil
}

// PredictMatch forecasts a stored fixture with its kickoff as the cutoff.
func (e *Engine) PredictMatch(history *History, m models.Match) (*Result, error) {
	return e.Predict(history, m.League, m.HomeTeam, m.AwayTeam, m.Date)
}
