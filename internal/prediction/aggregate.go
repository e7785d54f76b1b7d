package prediction

import (
	"fmt"
	"strconv"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
)

// Classify picks the most likely outcome. Probabilities within eps of the
// maximum are treated as tied and resolved HOME, then DRAW, then AWAY.
func Classify(p OutcomeProbabilities, eps float64) models.Outcome {
	best := p.Home
	if p.Draw > best {
		best = p.Draw
	}
	if p.Away > best {
		best = p.Away
	}

	switch {
	case p.Home >= best-eps:
		return models.OutcomeHome
	case p.Draw >= best-eps:
		return models.OutcomeDraw
	default:
		return models.OutcomeAway
	}
}

// Bucket is one bar of a discrete distribution.
type Bucket struct {
	Label string  `json:"label"`
	Prob  float64 `json:"prob"`
}

// Marginal returns P(X=0) .. P(X=k-1) followed by P(X>=k) labelled "k+".
func Marginal(lambda float64, k int) []Bucket {
	out := make([]Bucket, 0, k+1)
	for i := 0; i < k; i++ {
		out = append(out, Bucket{Label: strconv.Itoa(i), Prob: PoissonPMF(lambda, i)})
	}
	return append(out, Bucket{Label: fmt.Sprintf("%d+", k), Prob: PoissonCCDF(lambda, k)})
}
