package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
)

// DataValidator checks fetched matches before they are stored
type DataValidator struct {
	validate *validator.Validate
}

// NewDataValidator creates a new data validator
func NewDataValidator() *DataValidator {
	return &DataValidator{validate: validator.New()}
}

// ValidateMatch returns every problem found with the match
func (v *DataValidator) ValidateMatch(m *models.Match) []string {
	if m == nil {
		return []string{"match is nil"}
	}

	var problems []string
	if err := v.validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				problems = append(problems, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
		} else {
			problems = append(problems, err.Error())
		}
	}
	if err := m.CheckScores(); err != nil {
		problems = append(problems, err.Error())
	}
	if m.HomeScore != nil && *m.HomeScore > 30 || m.AwayScore != nil && *m.AwayScore > 30 {
		problems = append(problems, "score out of range")
	}
	return problems
}

// ValidatePrediction checks the stored probabilities form a distribution
func (v *DataValidator) ValidatePrediction(p *models.StoredPrediction) []string {
	if p == nil {
		return []string{"prediction is nil"}
	}

	var problems []string
	if err := v.validate.Struct(p); err != nil {
		problems = append(problems, err.Error())
	}
	home, draw, away := p.Probabilities()
	for name, prob := range map[string]float64{"home_win_prob": home, "draw_prob": draw, "away_win_prob": away} {
		if prob < 0 || prob > 1 {
			problems = append(problems, fmt.Sprintf("%s out of range: %v", name, prob))
		}
	}
	// five-decimal rounding can move the sum by at most 1.5e-5
	if sum := home + draw + away; sum < 0.9999 || sum > 1.0001 {
		problems = append(problems, fmt.Sprintf("probabilities sum to %v", sum))
	}
	return problems
}
