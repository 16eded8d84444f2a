package optimization

import (
	"math"

	"github.com/coinsight/engine/pkg/formulas"
)

// Parametric VaR z-scores and the expected-shortfall multiplier. ES as a
// fixed 1.2x of VaR is a documented approximation for a normal tail.
const (
	zScore95            = 1.645
	zScore99            = 2.326
	shortfallMultiplier = 1.2
	cvarSimulations     = 2000
)

// diagnostics fills the analytic sections of the result from the solved
// weights and the current allocation.
func diagnostics(result *OptimizationResult, m *model, weights, currentWeights []float64, constraints Constraints) {
	var expectedReturn float64
	for i, w := range weights {
		expectedReturn += w * m.returns[i]
	}
	variance := m.portfolioVariance(weights)
	risk := math.Sqrt(math.Max(variance, 0))

	result.ExpectedReturn = expectedReturn
	result.ExpectedRisk = risk

	if risk > 0 {
		result.SharpeRatio = (expectedReturn - constraints.RiskFreeRate) / risk
		// Downside volatility is taken as total volatility over sqrt(2),
		// and max drawdown as half the annualized volatility. Both are
		// snapshot heuristics, not measured path statistics.
		result.SortinoRatio = result.SharpeRatio * math.Sqrt2
		result.CalmarRatio = expectedReturn / (risk / 2)
	}

	result.Diversification = diversification(m, weights)
	for _, w := range weights {
		result.Concentration += w * w
	}

	dailyVol := risk / math.Sqrt(365)
	result.ValueAtRisk95 = zScore95 * dailyVol
	result.ValueAtRisk99 = zScore99 * dailyVol
	result.ExpectedShortfall95 = shortfallMultiplier * result.ValueAtRisk95
	result.ExpectedShortfall99 = shortfallMultiplier * result.ValueAtRisk99

	returnsBySymbol := make(map[string]float64, len(m.symbols))
	weightsBySymbol := make(map[string]float64, len(m.symbols))
	for i, symbol := range m.symbols {
		returnsBySymbol[symbol] = m.returns[i]
		weightsBySymbol[symbol] = weights[i]
	}
	result.MonteCarloCVaR95 = formulas.MonteCarloCVaR(
		m.cov, returnsBySymbol, weightsBySymbol, m.symbols, cvarSimulations, 0.95)

	result.RiskContributions = riskContributions(m, weights, variance)
	result.Attribution = attribution(m, weights, currentWeights)
}

// diversification is 1 minus the weight-averaged pairwise correlation.
// A single-asset portfolio has no pairs and scores 0.
func diversification(m *model, weights []float64) float64 {
	var weightedCorr, weightSum float64
	for i := range weights {
		for j := range weights {
			if i == j {
				continue
			}
			pair := weights[i] * weights[j]
			weightedCorr += pair * m.corr[i][j]
			weightSum += pair
		}
	}
	if weightSum <= 0 {
		return 0
	}
	return 1 - weightedCorr/weightSum
}

// riskContributions returns each asset's fractional share of portfolio
// variance: RC_i = w_i * (Cov*w)_i / (w'*Cov*w). The shares sum to 1.
func riskContributions(m *model, weights []float64, variance float64) map[string]float64 {
	contributions := make(map[string]float64, len(weights))
	if variance <= 0 {
		for _, symbol := range m.symbols {
			contributions[symbol] = 0
		}
		return contributions
	}
	marginal := m.covTimesWeights(weights)
	for i, symbol := range m.symbols {
		contributions[symbol] = weights[i] * marginal[i] / variance
	}
	return contributions
}

// attribution splits the projected return improvement over the current
// allocation with a fixed 60/30/10 allocation/selection/interaction ratio.
func attribution(m *model, weights, currentWeights []float64) Attribution {
	var target, current float64
	for i := range weights {
		target += weights[i] * m.returns[i]
		current += currentWeights[i] * m.returns[i]
	}
	delta := target - current
	return Attribution{
		Allocation:  0.6 * delta,
		Selection:   0.3 * delta,
		Interaction: 0.1 * delta,
	}
}
