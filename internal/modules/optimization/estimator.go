package optimization

import "math"

// Estimate is one symbol's return and risk forecast. Volatility is
// annualized and always positive.
type Estimate struct {
	ExpectedReturn float64
	Volatility     float64
}

// Estimator turns snapshot quotes into return/risk/correlation forecasts.
// The optimizer math never assumes a specific estimator; anything satisfying
// this contract can drive an allocation.
type Estimator interface {
	Estimate(symbol string, quote Quote) Estimate
	Correlation(a, b Quote) float64
}

// Volatility floor and ceiling for the snapshot proxy. A dead quote still
// carries some risk; a 300% annualized volatility is already uninvestable.
const (
	minSnapshotVolatility = 0.05
	maxSnapshotVolatility = 3.0
)

// SnapshotEstimator derives coarse forecasts from a single 24h quote. The
// volatility proxy annualizes the absolute daily change; the return forecast
// is the daily change plus a small premium proportional to that risk.
type SnapshotEstimator struct{}

// NewSnapshotEstimator creates the default snapshot-based estimator.
func NewSnapshotEstimator() *SnapshotEstimator {
	return &SnapshotEstimator{}
}

// Estimate implements Estimator.
func (e *SnapshotEstimator) Estimate(_ string, quote Quote) Estimate {
	vol := math.Abs(quote.Change24h) * math.Sqrt(365)
	if vol < minSnapshotVolatility {
		vol = minSnapshotVolatility
	}
	if vol > maxSnapshotVolatility {
		vol = maxSnapshotVolatility
	}
	return Estimate{
		ExpectedReturn: quote.Change24h + 0.05*vol,
		Volatility:     vol,
	}
}

// Correlation implements Estimator. With only one quote per symbol there is
// no return series to correlate, so symbols moving the same direction over
// the last day are assumed moderately correlated and divergent ones weakly.
func (e *SnapshotEstimator) Correlation(a, b Quote) float64 {
	if a.Change24h*b.Change24h >= 0 {
		return 0.6
	}
	return 0.2
}
