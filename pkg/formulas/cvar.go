package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// CVaR calculates Conditional Value at Risk (expected shortfall) at the
// specified confidence level: the average of the returns in the worst
// (1-confidence) tail of the distribution.
//
// The result is negative for loss tails. Empty input returns 0.
func CVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	if len(returns) == 1 {
		return returns[0]
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	tailCount := int(math.Ceil(float64(len(sorted)) * (1 - confidence)))
	if tailCount < 1 {
		tailCount = 1
	}
	if tailCount > len(sorted) {
		tailCount = len(sorted)
	}

	sum := 0.0
	for _, r := range sorted[:tailCount] {
		sum += r
	}
	return sum / float64(tailCount)
}

// MonteCarloCVaR estimates portfolio CVaR by sampling portfolio returns from
// a normal distribution parameterized by the weighted expected return and the
// portfolio variance w' * Cov * w.
//
// This is a parametric cross-check used by the optimizer diagnostics; it is
// deliberately simpler than a full multivariate simulation, which the small
// symbol universes here do not warrant.
func MonteCarloCVaR(
	covMatrix [][]float64,
	expectedReturns map[string]float64,
	weights map[string]float64,
	symbols []string,
	numSimulations int,
	confidence float64,
) float64 {
	n := len(symbols)
	if n == 0 || len(covMatrix) != n || numSimulations <= 0 {
		return 0
	}

	mu := make([]float64, n)
	w := make([]float64, n)
	for i, symbol := range symbols {
		mu[i] = expectedReturns[symbol]
		w[i] = weights[symbol]
	}

	portfolioMu := 0.0
	for i := 0; i < n; i++ {
		portfolioMu += w[i] * mu[i]
	}

	portfolioVariance := 0.0
	for i := 0; i < n; i++ {
		if len(covMatrix[i]) != n {
			return 0
		}
		for j := 0; j < n; j++ {
			portfolioVariance += w[i] * w[j] * covMatrix[i][j]
		}
	}

	normal := distuv.Normal{
		Mu:    portfolioMu,
		Sigma: math.Sqrt(math.Max(portfolioVariance, 1e-10)),
	}

	simulated := make([]float64, numSimulations)
	for i := range simulated {
		simulated[i] = normal.Rand()
	}

	return CVaR(simulated, confidence)
}
