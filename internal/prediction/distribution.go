package prediction

import (
	"fmt"
	"math"
	"sort"
)

// ScorelineMatrix holds P(home=i, away=j) for i, j in [0, MaxGoals] under
// independent Poisson goal counts. Probability beyond the ceiling is not
// captured; see TailMass.
type ScorelineMatrix struct {
	MaxGoals int         `json:"max_goals"`
	Cells    [][]float64 `json:"cells"`

	// conditional holds the grid renormalized to the captured region
	conditional [][]float64
}

// NewScorelineMatrix builds the truncated outer product of the two
// sides' Poisson distributions.
func NewScorelineMatrix(xg ExpectedGoals, maxGoals int) *ScorelineMatrix {
	home := make([]float64, maxGoals+1)
	away := make([]float64, maxGoals+1)
	for k := 0; k <= maxGoals; k++ {
		home[k] = PoissonPMF(xg.Home, k)
		away[k] = PoissonPMF(xg.Away, k)
	}

	return &ScorelineMatrix{
		MaxGoals:    maxGoals,
		Cells:       outer(home, away),
		conditional: outer(TruncatedPMF(xg.Home, maxGoals), TruncatedPMF(xg.Away, maxGoals)),
	}
}

func outer(home, away []float64) [][]float64 {
	cells := make([][]float64, len(home))
	for i := range cells {
		cells[i] = make([]float64, len(away))
		for j := range cells[i] {
			cells[i][j] = home[i] * away[j]
		}
	}
	return cells
}

// Prob returns the unnormalized probability of the exact score i-j.
func (m *ScorelineMatrix) Prob(i, j int) float64 {
	if i < 0 || j < 0 || i > m.MaxGoals || j > m.MaxGoals {
		return 0
	}
	return m.Cells[i][j]
}

// Total is the probability mass captured by the grid.
func (m *ScorelineMatrix) Total() float64 {
	total := 0.0
	for i := range m.Cells {
		for j := range m.Cells[i] {
			total += m.Cells[i][j]
		}
	}
	return total
}

// TailMass is the probability of either side exceeding MaxGoals.
func (m *ScorelineMatrix) TailMass() float64 {
	return math.Max(0, 1-m.Total())
}

// OutcomeProbabilities are renormalized 1X2 probabilities.
type OutcomeProbabilities struct {
	Home float64 `json:"home_win_prob"`
	Draw float64 `json:"draw_prob"`
	Away float64 `json:"away_win_prob"`
}

// Outcomes sums the lower triangle, diagonal and upper triangle of the
// renormalized grid.
func (m *ScorelineMatrix) Outcomes() OutcomeProbabilities {
	var home, draw, away float64
	for i := range m.conditional {
		for j, p := range m.conditional[i] {
			switch {
			case i > j:
				home += p
			case i == j:
				draw += p
			default:
				away += p
			}
		}
	}

	sum := home + draw + away
	return OutcomeProbabilities{Home: home / sum, Draw: draw / sum, Away: away / sum}
}

// Scoreline is an exact score with its renormalized probability.
type Scoreline struct {
	Home int     `json:"home"`
	Away int     `json:"away"`
	Prob float64 `json:"prob"`
}

func (s Scoreline) String() string {
	return fmt.Sprintf("%d-%d", s.Home, s.Away)
}

// MostLikely returns the n most probable exact scores. Equal probabilities
// keep row-major order so the result is stable.
func (m *ScorelineMatrix) MostLikely(n int) []Scoreline {
	if n <= 0 {
		return nil
	}

	all := make([]Scoreline, 0, (m.MaxGoals+1)*(m.MaxGoals+1))
	for i := range m.conditional {
		for j, p := range m.conditional[i] {
			all = append(all, Scoreline{Home: i, Away: j, Prob: p})
		}
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].Prob > all[b].Prob })

	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}

// OverGoals is the renormalized probability that total goals exceed line.
func (m *ScorelineMatrix) OverGoals(line float64) float64 {
	over := 0.0
	for i := range m.conditional {
		for j, p := range m.conditional[i] {
			if float64(i+j) > line {
				over += p
			}
		}
	}
	return over
}

// BothTeamsScore is the renormalized probability that neither side is
// held to zero.
func (m *ScorelineMatrix) BothTeamsScore() float64 {
	both := 0.0
	for i := 1; i <= m.MaxGoals; i++ {
		for j := 1; j <= m.MaxGoals; j++ {
			both += m.conditional[i][j]
		}
	}
	return both
}
