package backtest

import (
	"fmt"
	"math/rand"
)

// BootstrapConfig configures resampling of evaluated matches
type BootstrapConfig struct {
	Iterations int
	Seed       int64
}

// Interval is a two-sided confidence interval
type Interval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// BootstrapResult describes the sampling spread of the accuracy ratio
type BootstrapResult struct {
	Iterations          int                 `json:"iterations"`
	Seed                int64               `json:"seed"`
	MeanAccuracy        float64             `json:"mean_accuracy"`
	StdAccuracy         float64             `json:"std_accuracy"`
	ConfidenceIntervals map[string]Interval `json:"confidence_intervals"`
}

// RunBootstrap resamples evaluations with replacement. The seed is always
// explicit so the same inputs give the same intervals.
func RunBootstrap(evals []Evaluation, cfg BootstrapConfig) BootstrapResult {
	result := BootstrapResult{Iterations: cfg.Iterations, Seed: cfg.Seed}
	if cfg.Iterations <= 0 || len(evals) == 0 {
		return result
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	distribution := make([]float64, cfg.Iterations)
	for i := range distribution {
		correct := 0
		for range evals {
			if evals[rng.Intn(len(evals))].Correct {
				correct++
			}
		}
		distribution[i] = float64(correct) / float64(len(evals))
	}

	result.MeanAccuracy, result.StdAccuracy = meanStd(distribution)
	result.ConfidenceIntervals = CalculateConfidenceIntervals(distribution, []float64{0.9, 0.95})
	return result
}

// CalculateConfidenceIntervals computes percentile intervals for a distribution
func CalculateConfidenceIntervals(distribution []float64, levels []float64) map[string]Interval {
	results := make(map[string]Interval, len(levels))
	for _, level := range levels {
		p := (1.0 - level) / 2.0
		results[formatPercent(level)] = Interval{
			Low:  percentile(distribution, p),
			High: percentile(distribution, 1.0-p),
		}
	}
	return results
}

func formatPercent(level float64) string {
	return fmt.Sprintf("%.0f%%", level*100)
}
