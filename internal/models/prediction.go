package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// probabilityPlaces matches the NUMERIC(6,5) columns of the predictions table
const probabilityPlaces = 5

// StoredPrediction is the persisted pre-match prediction for a fixture.
// At most one row exists per match and it is never overwritten.
type StoredPrediction struct {
	MatchID         int64           `db:"match_id" json:"match_id" validate:"required,gt=0"`
	HomeWinProb     decimal.Decimal `db:"home_win_prob" json:"home_win_prob"`
	DrawProb        decimal.Decimal `db:"draw_prob" json:"draw_prob"`
	AwayWinProb     decimal.Decimal `db:"away_win_prob" json:"away_win_prob"`
	PredictedResult Outcome         `db:"predicted_result" json:"predicted_result" validate:"required,oneof=1 X 2"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// NewStoredPrediction rounds the probabilities to the persisted precision.
func NewStoredPrediction(matchID int64, home, draw, away float64, result Outcome) *StoredPrediction {
	return &StoredPrediction{
		MatchID:         matchID,
		HomeWinProb:     decimal.NewFromFloat(home).Round(probabilityPlaces),
		DrawProb:        decimal.NewFromFloat(draw).Round(probabilityPlaces),
		AwayWinProb:     decimal.NewFromFloat(away).Round(probabilityPlaces),
		PredictedResult: result,
	}
}

// Probabilities returns the stored 1X2 probabilities as floats.
func (p *StoredPrediction) Probabilities() (home, draw, away float64) {
	return p.HomeWinProb.InexactFloat64(), p.DrawProb.InexactFloat64(), p.AwayWinProb.InexactFloat64()
}
