package prediction

import (
	"math"
	"math/rand"
)

// yellowBuckets is the number of exact yellow card counts reported before
// the open-ended bucket.
const yellowBuckets = 6

// minIntensityFactor stops a very low scoring forecast from driving card
// rates to zero.
const minIntensityFactor = 0.1

// CardEstimate is a low-fidelity card forecast driven only by total
// expected goals; no card history is modelled.
type CardEstimate struct {
	Intensity      float64  `json:"intensity"`
	ExpectedYellow float64  `json:"expected_yellow"`
	YellowDist     []Bucket `json:"yellow_dist"`
	ExpectedRed    float64  `json:"expected_red"`
	RedCardProb    float64  `json:"red_card_prob"`
}

// EstimateCards scales the base card rates linearly with match intensity.
// The result depends only on its arguments.
func EstimateCards(xg ExpectedGoals, p Params) CardEstimate {
	intensity := xg.Total() / p.ReferenceTotalGoals
	factor := math.Max(minIntensityFactor, 1+p.CardIntensitySensitivity*(intensity-1))

	yellow := p.YellowCardBase * factor
	red := p.RedCardBase * factor

	return CardEstimate{
		Intensity:      intensity,
		ExpectedYellow: yellow,
		YellowDist:     Marginal(yellow, yellowBuckets),
		ExpectedRed:    red,
		RedCardProb:    1 - PoissonPMF(red, 0),
	}
}

// CardSimulation summarizes sampled card counts.
type CardSimulation struct {
	Seed       int64   `json:"seed"`
	Runs       int     `json:"runs"`
	MeanYellow float64 `json:"mean_yellow"`
	RedShare   float64 `json:"red_share"`
}

// SimulateCards samples card counts from est. It is separate from the
// deterministic forecast and reproducible for a given seed.
func SimulateCards(est CardEstimate, seed int64, runs int) CardSimulation {
	sim := CardSimulation{Seed: seed, Runs: runs}
	if runs <= 0 {
		return sim
	}

	rng := rand.New(rand.NewSource(seed))
	yellowTotal, redMatches := 0, 0
	for i := 0; i < runs; i++ {
		yellowTotal += samplePoisson(rng, est.ExpectedYellow)
		if samplePoisson(rng, est.ExpectedRed) > 0 {
			redMatches++
		}
	}

	sim.MeanYellow = float64(yellowTotal) / float64(runs)
	sim.RedShare = float64(redMatches) / float64(runs)
	return sim
}

// samplePoisson uses Knuth's multiplication method, adequate for the
// small rates used here.
func samplePoisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}
