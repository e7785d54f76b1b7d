package backtest

import (
	"time"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
)

// Mode names how the predictions being scored were obtained.
type Mode string

const (
	ModeReplay Mode = "replay"
	ModeStored Mode = "stored"
)

// Evaluation is the outcome of scoring one finished match
type Evaluation struct {
	MatchID     int64          `json:"match_id"`
	HomeTeam    string         `json:"home_team"`
	AwayTeam    string         `json:"away_team"`
	League      string         `json:"league"`
	Date        time.Time      `json:"match_date"`
	Predicted   models.Outcome `json:"predicted"`
	Actual      models.Outcome `json:"actual"`
	Correct     bool           `json:"correct"`
	HomeWinProb float64        `json:"home_win_prob"`
	DrawProb    float64        `json:"draw_prob"`
	AwayWinProb float64        `json:"away_win_prob"`
}

func newEvaluation(m models.Match, predicted models.Outcome, home, draw, away float64) Evaluation {
	actual := models.OutcomeFromScore(*m.HomeScore, *m.AwayScore)
	return Evaluation{
		MatchID:     m.ID,
		HomeTeam:    m.HomeTeam,
		AwayTeam:    m.AwayTeam,
		League:      m.League,
		Date:        m.Date,
		Predicted:   predicted,
		Actual:      actual,
		Correct:     predicted == actual,
		HomeWinProb: home,
		DrawProb:    draw,
		AwayWinProb: away,
	}
}

// probOf returns the probability the evaluation assigned to o.
func (e Evaluation) probOf(o models.Outcome) float64 {
	switch o {
	case models.OutcomeHome:
		return e.HomeWinProb
	case models.OutcomeDraw:
		return e.DrawProb
	case models.OutcomeAway:
		return e.AwayWinProb
	}
	return 0
}

// SkippedItem records a match that could not be scored.
type SkippedItem struct {
	MatchID int64  `json:"match_id"`
	Reason  string `json:"reason"`
}

// Report is the full result of an accuracy run
type Report struct {
	Metrics
	Evaluations  []Evaluation     `json:"evaluations"`
	SkippedItems []SkippedItem    `json:"skipped_items"`
	WalkForward  []Window         `json:"walk_forward,omitempty"`
	Bootstrap    *BootstrapResult `json:"bootstrap,omitempty"`
}

// replayState holds one slot per target so workers never share a write.
type replayState struct {
	evaluations []Evaluation
	failures    []error
	done        []bool
}

func newReplayState(n int) *replayState {
	return &replayState{
		evaluations: make([]Evaluation, n),
		failures:    make([]error, n),
		done:        make([]bool, n),
	}
}
