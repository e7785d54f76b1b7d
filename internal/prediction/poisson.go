package prediction

import "math"

// PoissonPMF returns P(X = k) for X ~ Poisson(lambda), evaluated in log
// space so large k does not overflow.
func PoissonPMF(lambda float64, k int) float64 {
	if k < 0 {
		return 0
	}
	if lambda <= 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	logProb := float64(k)*math.Log(lambda) - lambda - logFactorial(k)
	return math.Exp(logProb)
}

// PoissonCCDF returns P(X >= k).
func PoissonCCDF(lambda float64, k int) float64 {
	if k <= 0 {
		return 1
	}
	cdf := 0.0
	for i := 0; i < k; i++ {
		cdf += PoissonPMF(lambda, i)
	}
	return math.Max(0, 1-cdf)
}

func logFactorial(n int) float64 {
	if n <= 1 {
		return 0
	}
	lg, _ := math.Lgamma(float64(n) + 1)
	return lg
}

// TruncatedPMF returns P(X = k | X <= maxGoals) for k in [0, maxGoals].
// Normalization uses log-sum-exp, so it stays defined when every
// unconditional pmf underflows to 0.
func TruncatedPMF(lambda float64, maxGoals int) []float64 {
	out := make([]float64, maxGoals+1)
	if lambda <= 0 {
		out[0] = 1
		return out
	}

	logs := make([]float64, maxGoals+1)
	peak := math.Inf(-1)
	logLambda := math.Log(lambda)
	for k := range logs {
		logs[k] = float64(k)*logLambda - logFactorial(k)
		peak = math.Max(peak, logs[k])
	}

	sum := 0.0
	for k, l := range logs {
		out[k] = math.Exp(l - peak)
		sum += out[k]
	}
	for k := range out {
		out[k] /= sum
	}
	return out
}
