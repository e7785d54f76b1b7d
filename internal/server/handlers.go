package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/backtest"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/prediction"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/service"
)

const (
	apiTopScorelines = 3
	maxCardRuns      = 100000
	defaultCardSeed  = 1
)

// PredictionView is the dashboard payload for one fixture. Probs is
// ordered home, draw, away.
type PredictionView struct {
	MatchID        int64                   `json:"match_id"`
	League         string                  `json:"league"`
	Home           string                  `json:"home"`
	Away           string                  `json:"away"`
	HomeLogo       string                  `json:"home_logo"`
	AwayLogo       string                  `json:"away_logo"`
	Kickoff        time.Time               `json:"kickoff"`
	Status         models.MatchStatus      `json:"status"`
	Probs          [3]float64              `json:"probs"`
	Predicted      models.Outcome          `json:"predicted"`
	ExpectedGoals  [2]float64              `json:"expected_goals"`
	TopScorelines  []prediction.Scoreline  `json:"top_scorelines"`
	OverTwoAndHalf float64                 `json:"over_2_5_prob"`
	BothTeamsScore float64                 `json:"btts_prob"`
	Cards          prediction.CardEstimate `json:"cards"`
	HistorySize    int                     `json:"history_size"`

	CardSimulation *prediction.CardSimulation `json:"card_simulation,omitempty"`
}

// AccuracyView summarizes stored prediction performance.
type AccuracyView struct {
	backtest.Metrics
	Evaluations []backtest.Evaluation `json:"evaluations,omitempty"`
}

func newPredictionView(mp *service.MatchPrediction) PredictionView {
	m, p := mp.Match, mp.Prediction
	top := p.TopScorelines
	if len(top) > apiTopScorelines {
		top = top[:apiTopScorelines]
	}
	return PredictionView{
		MatchID:        m.ID,
		League:         m.League,
		Home:           m.HomeTeam,
		Away:           m.AwayTeam,
		HomeLogo:       m.HomeCrest,
		AwayLogo:       m.AwayCrest,
		Kickoff:        m.Date,
		Status:         m.Status,
		Probs:          [3]float64{p.HomeWinProb, p.DrawProb, p.AwayWinProb},
		Predicted:      p.Predicted,
		ExpectedGoals:  [2]float64{p.ExpectedGoalsHome, p.ExpectedGoalsAway},
		TopScorelines:  top,
		OverTwoAndHalf: p.OverTwoAndHalf,
		BothTeamsScore: p.BothTeamsScore,
		Cards:          p.Cards,
		HistorySize:    p.HistorySize,
	}
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Predictions == nil {
		writeError(w, http.StatusServiceUnavailable, "predictions unavailable")
		return
	}

	list, err := s.cfg.Predictions.Upcoming(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to list predictions")
		writeError(w, http.StatusInternalServerError, "failed to compute predictions")
		return
	}

	views := make([]PredictionView, 0, len(list))
	for _, mp := range list {
		views = append(views, newPredictionView(mp))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handlePrediction(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Predictions == nil {
		writeError(w, http.StatusServiceUnavailable, "predictions unavailable")
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid match id")
		return
	}
	runs, seed, err := cardSimulationParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mp, err := s.cfg.Predictions.PredictByID(r.Context(), id)
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "match not found")
		return
	case errors.Is(err, models.ErrInvalidID), errors.Is(err, models.ErrInvalidMatch):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.WithError(err).WithField("match_id", id).Error("Failed to predict match")
		writeError(w, http.StatusInternalServerError, "failed to compute prediction")
		return
	}

	view := newPredictionView(mp)
	if runs > 0 {
		sim := prediction.SimulateCards(mp.Prediction.Cards, seed, runs)
		view.CardSimulation = &sim
	}
	writeJSON(w, http.StatusOK, view)
}

// cardSimulationParams reads the optional simulate and seed query values.
// runs is zero when no simulation was asked for.
func cardSimulationParams(r *http.Request) (runs int, seed int64, err error) {
	q := r.URL.Query()
	seed = defaultCardSeed
	if v := q.Get("simulate"); v != "" {
		runs, err = strconv.Atoi(v)
		if err != nil || runs < 1 || runs > maxCardRuns {
			return 0, 0, fmt.Errorf("simulate must be between 1 and %d", maxCardRuns)
		}
	}
	if v := q.Get("seed"); v != "" {
		seed, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid seed %q", v)
		}
	}
	return runs, seed, nil
}

func (s *Server) handleAccuracy(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Accuracy == nil {
		writeError(w, http.StatusServiceUnavailable, "accuracy unavailable")
		return
	}

	report, err := s.cfg.Accuracy.ScoreStored(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to score stored predictions")
		writeError(w, http.StatusInternalServerError, "failed to compute accuracy")
		return
	}

	view := AccuracyView{Metrics: report.Metrics}
	if detail, _ := strconv.ParseBool(r.URL.Query().Get("detail")); detail {
		view.Evaluations = report.Evaluations
	}
	writeJSON(w, http.StatusOK, view)
}
