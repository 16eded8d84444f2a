package optimization

import (
	"math"

	"github.com/coinsight/engine/pkg/formulas"
)

const riskParityPasses = 100

// solveWeights dispatches to the selected objective and returns raw weights
// over the model's symbol order. Callers clamp and renormalize afterwards.
func solveWeights(objective Objective, m *model, marketWeights []float64, constraints Constraints) []float64 {
	switch objective {
	case ObjectiveMinVariance:
		return solveMinVariance(m)
	case ObjectiveMaxSharpe:
		return solveMaxSharpe(m, constraints.RiskFreeRate)
	case ObjectiveRiskParity:
		return solveRiskParity(m, constraints)
	case ObjectiveBlackLitterman:
		return solveBlackLitterman(m, marketWeights)
	default:
		return solveMeanVariance(m)
	}
}

func equalWeights(n int) []float64 {
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1 / float64(n)
	}
	return weights
}

// solveMeanVariance allocates inversely to volatility: cheaper risk gets
// more capital.
func solveMeanVariance(m *model) []float64 {
	weights := make([]float64, len(m.vols))
	for i, vol := range m.vols {
		if vol <= 0 {
			vol = 1
		}
		weights[i] = 1 / vol
	}
	return normalize(weights)
}

// solveMinVariance computes the analytical minimum-variance portfolio
// w = Cov⁻¹·1 / (1'·Cov⁻¹·1). A singular covariance matrix inverts to the
// identity, which degrades this toward equal weighting rather than failing.
func solveMinVariance(m *model) []float64 {
	inv := formulas.Invert(m.cov)
	n := len(m.symbols)

	weights := make([]float64, n)
	var denom float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			weights[i] += inv[i][j]
		}
		denom += weights[i]
	}
	if math.Abs(denom) < 1e-12 {
		return equalWeights(n)
	}
	for i := range weights {
		weights[i] /= denom
	}
	return weights
}

// solveMaxSharpe points the portfolio along Cov⁻¹·(μ − r_f).
func solveMaxSharpe(m *model, riskFreeRate float64) []float64 {
	inv := formulas.Invert(m.cov)
	n := len(m.symbols)

	excess := make([]float64, n)
	for i, r := range m.returns {
		excess[i] = r - riskFreeRate
	}

	weights := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			weights[i] += inv[i][j] * excess[j]
		}
		sum += weights[i]
	}
	if math.Abs(sum) < 1e-12 {
		return equalWeights(n)
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// solveRiskParity runs a damped fixed-point iteration toward equal risk
// contributions. Each pass nudges every weight by (target/RC_i)^0.1 and
// re-clamps so the iteration stays inside the constraint box.
func solveRiskParity(m *model, constraints Constraints) []float64 {
	n := len(m.symbols)
	weights := equalWeights(n)
	target := 1 / float64(n)

	for pass := 0; pass < riskParityPasses; pass++ {
		variance := m.portfolioVariance(weights)
		if variance <= 0 {
			break
		}
		marginal := m.covTimesWeights(weights)
		for i := range weights {
			rc := weights[i] * marginal[i] / variance
			if rc <= 0 {
				continue
			}
			weights[i] *= math.Pow(target/rc, 0.1)
		}
		weights = clampAndNormalize(weights, constraints.MinPositionWeight, constraints.MaxPositionWeight)
	}
	return weights
}

// solveBlackLitterman with no explicit views collapses to the market-weight
// prior, or equal weights when the caller holds nothing yet.
func solveBlackLitterman(m *model, marketWeights []float64) []float64 {
	var total float64
	for _, w := range marketWeights {
		total += w
	}
	if total <= 0 {
		return equalWeights(len(m.symbols))
	}
	weights := make([]float64, len(marketWeights))
	for i, w := range marketWeights {
		weights[i] = w / total
	}
	return weights
}

func normalize(weights []float64) []float64 {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return equalWeights(len(weights))
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// clampAndNormalize clamps each weight into [min, max] and rescales the
// result to sum to 1. Renormalization can push weights slightly past max
// again when many were clamped at once; that approximation is accepted in
// place of a simplex projection.
func clampAndNormalize(weights []float64, min, max float64) []float64 {
	clamped := make([]float64, len(weights))
	for i, w := range weights {
		if w < min {
			w = min
		}
		if w > max {
			w = max
		}
		clamped[i] = w
	}
	return normalize(clamped)
}
