package optimization

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinsight/engine/pkg/logger"
)

// stubEstimator fixes volatilities and returns per symbol with a constant
// pairwise correlation, so objective math can be checked against hand
// calculations.
type stubEstimator struct {
	vols    map[string]float64
	returns map[string]float64
	corr    float64
}

func (e stubEstimator) Estimate(symbol string, _ Quote) Estimate {
	return Estimate{ExpectedReturn: e.returns[symbol], Volatility: e.vols[symbol]}
}

func (e stubEstimator) Correlation(_, _ Quote) float64 { return e.corr }

func threeAssetSnapshot() Snapshot {
	return Snapshot{
		"AAA": {Price: 100, Change24h: 0.01},
		"BBB": {Price: 50, Change24h: 0.02},
		"CCC": {Price: 10, Change24h: -0.03},
	}
}

func newTestService(est Estimator, cache *Cache) *Service {
	return NewService(est, cache, logger.Nop())
}

func TestParseObjective(t *testing.T) {
	obj, err := ParseObjective("")
	require.NoError(t, err)
	assert.Equal(t, ObjectiveMeanVariance, obj)

	obj, err = ParseObjective("riskParity")
	require.NoError(t, err)
	assert.Equal(t, ObjectiveRiskParity, obj)

	_, err = ParseObjective("sharpeMax")
	assert.Error(t, err)
}

func TestOptimize_EmptySnapshot(t *testing.T) {
	_, err := newTestService(nil, nil).Optimize(nil, Snapshot{}, 10_000, DefaultConstraints(), ObjectiveMeanVariance)
	assert.Error(t, err)
}

func TestOptimize_WeightInvariant(t *testing.T) {
	objectives := []Objective{
		ObjectiveMeanVariance,
		ObjectiveMinVariance,
		ObjectiveMaxSharpe,
		ObjectiveRiskParity,
		ObjectiveBlackLitterman,
	}
	svc := newTestService(nil, nil)
	constraints := DefaultConstraints()

	for _, objective := range objectives {
		result, err := svc.Optimize(nil, threeAssetSnapshot(), 10_000, constraints, objective)
		require.NoError(t, err, "objective %s", objective)

		var sum float64
		for symbol, w := range result.Weights {
			sum += w
			assert.GreaterOrEqual(t, w, constraints.MinPositionWeight, "%s/%s", objective, symbol)
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "objective %s", objective)
	}
}

func TestOptimize_MinVarianceOrdering(t *testing.T) {
	est := stubEstimator{
		vols:    map[string]float64{"AAA": 0.1, "BBB": 0.2, "CCC": 0.4},
		returns: map[string]float64{"AAA": 0.05, "BBB": 0.05, "CCC": 0.05},
		corr:    0,
	}
	constraints := Constraints{MaxPositionWeight: 0.9, MinPositionWeight: 0, RiskFreeRate: 0.02}

	result, err := newTestService(est, nil).Optimize(nil, threeAssetSnapshot(), 10_000, constraints, ObjectiveMinVariance)
	require.NoError(t, err)

	// Lower volatility earns strictly more weight.
	assert.Greater(t, result.Weights["AAA"], result.Weights["BBB"])
	assert.Greater(t, result.Weights["BBB"], result.Weights["CCC"])

	var sum float64
	for _, w := range result.Weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	// Uncorrelated analytical solution: weights proportional to 1/variance.
	assert.InDelta(t, (1/0.01)/(1/0.01+1/0.04+1/0.16), result.Weights["AAA"], 1e-6)
}

func TestOptimize_SingularCovarianceDegradesGracefully(t *testing.T) {
	// Perfect correlation with equal volatility makes the covariance matrix
	// singular; inversion substitutes identity and the solve still returns
	// a valid weighting.
	est := stubEstimator{
		vols:    map[string]float64{"AAA": 0.2, "BBB": 0.2, "CCC": 0.2},
		returns: map[string]float64{"AAA": 0.05, "BBB": 0.05, "CCC": 0.05},
		corr:    1,
	}

	result, err := newTestService(est, nil).Optimize(nil, threeAssetSnapshot(), 10_000, DefaultConstraints(), ObjectiveMinVariance)
	require.NoError(t, err)

	var sum float64
	for _, w := range result.Weights {
		sum += w
		assert.InDelta(t, 1.0/3, w, 0.1)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestOptimize_RiskParityEqualizesContributions(t *testing.T) {
	est := stubEstimator{
		vols:    map[string]float64{"AAA": 0.1, "BBB": 0.3, "CCC": 0.2},
		returns: map[string]float64{"AAA": 0.05, "BBB": 0.08, "CCC": 0.06},
		corr:    0,
	}
	constraints := Constraints{MaxPositionWeight: 0.9, MinPositionWeight: 0, RiskFreeRate: 0.02}

	result, err := newTestService(est, nil).Optimize(nil, threeAssetSnapshot(), 10_000, constraints, ObjectiveRiskParity)
	require.NoError(t, err)

	// The least volatile asset carries the most weight.
	assert.Greater(t, result.Weights["AAA"], result.Weights["CCC"])
	assert.Greater(t, result.Weights["CCC"], result.Weights["BBB"])

	var sum float64
	for _, rc := range result.RiskContributions {
		sum += rc
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	for symbol, rc := range result.RiskContributions {
		assert.InDelta(t, 1.0/3, rc, 0.05, "risk contribution of %s", symbol)
	}
}

func TestOptimize_MaxSharpeFavorsReturn(t *testing.T) {
	est := stubEstimator{
		vols:    map[string]float64{"AAA": 0.2, "BBB": 0.2, "CCC": 0.2},
		returns: map[string]float64{"AAA": 0.12, "BBB": 0.06, "CCC": 0.04},
		corr:    0,
	}
	constraints := Constraints{MaxPositionWeight: 0.9, MinPositionWeight: 0, RiskFreeRate: 0.02}

	result, err := newTestService(est, nil).Optimize(nil, threeAssetSnapshot(), 10_000, constraints, ObjectiveMaxSharpe)
	require.NoError(t, err)

	assert.Greater(t, result.Weights["AAA"], result.Weights["BBB"])
	assert.Greater(t, result.Weights["BBB"], result.Weights["CCC"])
}

func TestOptimize_BlackLittermanUsesMarketPrior(t *testing.T) {
	svc := newTestService(nil, nil)
	snapshot := threeAssetSnapshot()
	constraints := Constraints{MaxPositionWeight: 0.9, MinPositionWeight: 0, RiskFreeRate: 0.02}

	// No holdings: equal-weight prior.
	result, err := svc.Optimize(nil, snapshot, 10_000, constraints, ObjectiveBlackLitterman)
	require.NoError(t, err)
	for _, w := range result.Weights {
		assert.InDelta(t, 1.0/3, w, 1e-9)
	}

	// Holdings valued at 2:1:1 become the prior.
	positions := map[string]float64{"AAA": 20, "BBB": 20, "CCC": 100}
	result, err = svc.Optimize(positions, snapshot, 10_000, constraints, ObjectiveBlackLitterman)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, result.Weights["AAA"], 1e-9)
	assert.InDelta(t, 0.25, result.Weights["BBB"], 1e-9)
	assert.InDelta(t, 0.25, result.Weights["CCC"], 1e-9)
}

func TestOptimize_DiagnosticsPopulated(t *testing.T) {
	result, err := newTestService(nil, nil).Optimize(nil, threeAssetSnapshot(), 10_000, DefaultConstraints(), ObjectiveMeanVariance)
	require.NoError(t, err)

	assert.Greater(t, result.ExpectedRisk, 0.0)
	assert.Greater(t, result.Concentration, 0.0)
	assert.LessOrEqual(t, result.Concentration, 1.0)
	assert.Greater(t, result.ValueAtRisk99, result.ValueAtRisk95)
	assert.InDelta(t, 1.2*result.ValueAtRisk95, result.ExpectedShortfall95, 1e-12)
	assert.False(t, result.GeneratedAt.IsZero())
	assert.Len(t, result.RiskContributions, 3)
	assert.False(t, math.IsNaN(result.MonteCarloCVaR95))
	assert.Less(t, result.MonteCarloCVaR95, result.ExpectedReturn)
}

func TestRebalanceActions_Thresholds(t *testing.T) {
	m := &model{symbols: []string{"AAA", "BBB"}}
	current := []float64{0.50, 0.50}
	target := []float64{0.53, 0.40}

	// A three-point drift stays put; a ten-point drift is an urgent sell.
	actions := rebalanceActions(m, target, current, 100_000, 0.05)
	require.Len(t, actions, 1)

	action := actions[0]
	assert.Equal(t, "BBB", action.Symbol)
	assert.Equal(t, "SELL", action.Action)
	assert.Equal(t, "high", action.Priority)
	assert.InDelta(t, 10_000, action.AmountToTrade, 1e-6)
	assert.InDelta(t, 10, action.EstimatedCost, 1e-6)
	assert.InDelta(t, -0.10, action.WeightDelta, 1e-9)
}

func TestRebalanceActions_SortedByNotional(t *testing.T) {
	m := &model{symbols: []string{"AAA", "BBB", "CCC"}}
	current := []float64{0.10, 0.50, 0.40}
	target := []float64{0.30, 0.42, 0.28}

	actions := rebalanceActions(m, target, current, 100_000, 0.05)
	require.Len(t, actions, 3)
	assert.Equal(t, "AAA", actions[0].Symbol)
	assert.Equal(t, "CCC", actions[1].Symbol)
	assert.Equal(t, "BBB", actions[2].Symbol)
	for i := 1; i < len(actions); i++ {
		assert.GreaterOrEqual(t, actions[i-1].AmountToTrade, actions[i].AmountToTrade)
	}
}

func TestOptimize_CacheRoundTrip(t *testing.T) {
	cache := NewCache(time.Hour)
	svc := newTestService(nil, cache)
	snapshot := threeAssetSnapshot()

	first, err := svc.Optimize(nil, snapshot, 10_000, DefaultConstraints(), ObjectiveMeanVariance)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	second, err := svc.Optimize(nil, snapshot, 10_000, DefaultConstraints(), ObjectiveMeanVariance)
	require.NoError(t, err)
	assert.Equal(t, first.Weights, second.Weights)
	assert.Equal(t, 1, cache.Len())

	// A different objective is a different key.
	_, err = svc.Optimize(nil, snapshot, 10_000, DefaultConstraints(), ObjectiveMinVariance)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())
}

func TestSnapshotEstimator(t *testing.T) {
	est := NewSnapshotEstimator()

	quiet := est.Estimate("AAA", Quote{Price: 100, Change24h: 0})
	assert.Equal(t, minSnapshotVolatility, quiet.Volatility)

	wild := est.Estimate("BBB", Quote{Price: 100, Change24h: 0.5})
	assert.Equal(t, maxSnapshotVolatility, wild.Volatility)

	up := Quote{Change24h: 0.02}
	down := Quote{Change24h: -0.01}
	assert.Equal(t, 0.6, est.Correlation(up, up))
	assert.Equal(t, 0.2, est.Correlation(up, down))
}
