package backtest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/prediction"
)

// minLogLossProb keeps log loss finite when a stored probability is 0.
const minLogLossProb = 1e-15

// OutcomeStats counts predictions and results for one outcome class
type OutcomeStats struct {
	Predicted int `json:"predicted"`
	Actual    int `json:"actual"`
	Correct   int `json:"correct"`
}

// LeagueStats is accuracy within one competition
type LeagueStats struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// Metrics represents aggregate prediction accuracy
type Metrics struct {
	RunID      uuid.UUID                        `json:"run_id"`
	Mode       Mode                             `json:"mode"`
	Total      int                              `json:"total"`
	Correct    int                              `json:"correct"`
	Skipped    int                              `json:"skipped"`
	Warmup     int                              `json:"warmup"`
	Accuracy   float64                          `json:"accuracy"`
	BrierScore float64                          `json:"brier_score"`
	LogLoss    float64                          `json:"log_loss"`
	ByOutcome  map[models.Outcome]*OutcomeStats `json:"by_outcome"`
	ByLeague   map[string]*LeagueStats          `json:"by_league"`

	ParameterHash string `json:"parameter_hash,omitempty"`
}

// CalculateMetrics aggregates evaluations. Brier score is the multi-class
// form summed over the three outcomes.
func CalculateMetrics(evals []Evaluation, skipped int) Metrics {
	m := Metrics{
		Total:     len(evals),
		Skipped:   skipped,
		ByOutcome: map[models.Outcome]*OutcomeStats{},
		ByLeague:  map[string]*LeagueStats{},
	}
	for _, o := range []models.Outcome{models.OutcomeHome, models.OutcomeDraw, models.OutcomeAway} {
		m.ByOutcome[o] = &OutcomeStats{}
	}
	if len(evals) == 0 {
		return m
	}

	brier, logLoss := 0.0, 0.0
	for _, e := range evals {
		if e.Correct {
			m.Correct++
		}
		if s, ok := m.ByOutcome[e.Predicted]; ok {
			s.Predicted++
			if e.Correct {
				s.Correct++
			}
		}
		if s, ok := m.ByOutcome[e.Actual]; ok {
			s.Actual++
		}

		league := m.ByLeague[e.League]
		if league == nil {
			league = &LeagueStats{}
			m.ByLeague[e.League] = league
		}
		league.Total++
		if e.Correct {
			league.Correct++
		}

		brier += brierTerm(e)
		logLoss -= math.Log(math.Max(e.probOf(e.Actual), minLogLossProb))
	}

	n := float64(len(evals))
	m.Accuracy = float64(m.Correct) / n
	m.BrierScore = brier / n
	m.LogLoss = logLoss / n
	for _, l := range m.ByLeague {
		l.Accuracy = float64(l.Correct) / float64(l.Total)
	}
	return m
}

func brierTerm(e Evaluation) float64 {
	sum := 0.0
	for _, o := range []models.Outcome{models.OutcomeHome, models.OutcomeDraw, models.OutcomeAway} {
		hit := 0.0
		if o == e.Actual {
			hit = 1
		}
		d := e.probOf(o) - hit
		sum += d * d
	}
	return sum
}

// ToJSON renders metrics for logs and exports
func (m Metrics) ToJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}

// HashParameters fingerprints the model constants a run used so reports
// can be compared across configuration changes.
func HashParameters(p prediction.Params) string {
	data, _ := json.Marshal(p)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:8])
}

func sortEvaluations(evals []Evaluation) {
	sort.SliceStable(evals, func(i, j int) bool {
		if evals[i].Date.Equal(evals[j].Date) {
			return evals[i].MatchID < evals[j].MatchID
		}
		return evals[i].Date.Before(evals[j].Date)
	})
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
