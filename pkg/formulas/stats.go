// Package formulas provides the shared statistics library used by the
// backtest simulator and the portfolio optimizer. Every function is pure and
// total: degenerate inputs (empty slices, zero variance, mismatched lengths)
// return documented fallback values instead of panicking, so both consumers
// share identical risk semantics.
package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization factor for daily return series.
const TradingDaysPerYear = 252

// Mean calculates the arithmetic mean of a slice of float64 values.
// Returns 0 for an empty slice.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// Variance calculates the population variance of a slice of float64 values.
// Returns 0 for slices with fewer than one element.
func Variance(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m := stat.Mean(data, nil)
	sum := 0.0
	for _, x := range data {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(data))
}

// StdDev calculates the population standard deviation.
func StdDev(data []float64) float64 {
	return math.Sqrt(Variance(data))
}

// Covariance calculates the population covariance between two equally sized
// datasets. Returns 0 for empty or mismatched inputs.
func Covariance(x, y []float64) float64 {
	if len(x) == 0 || len(x) != len(y) {
		return 0
	}
	mx := stat.Mean(x, nil)
	my := stat.Mean(y, nil)
	sum := 0.0
	for i := range x {
		sum += (x[i] - mx) * (y[i] - my)
	}
	return sum / float64(len(x))
}

// Correlation calculates the Pearson correlation coefficient between two
// datasets. Returns 0 for empty, mismatched, or zero-variance inputs.
func Correlation(x, y []float64) float64 {
	if len(x) == 0 || len(x) != len(y) {
		return 0
	}
	sx := StdDev(x)
	sy := StdDev(y)
	if sx == 0 || sy == 0 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// CalculateReturns converts prices to simple percentage returns.
// Returns[i] = (Price[i+1] - Price[i]) / Price[i]. Zero-price steps yield 0.
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}
	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}
	return returns
}

// AnnualizedVolatility calculates annualized volatility from daily returns.
func AnnualizedVolatility(dailyReturns []float64) float64 {
	if len(dailyReturns) == 0 {
		return 0
	}
	return StdDev(dailyReturns) * math.Sqrt(TradingDaysPerYear)
}

// SharpeRatio calculates the Sharpe ratio of a return series against a
// per-period risk-free rate: mean(excess) / stddev(excess).
// Returns 0 when the excess-return volatility is 0.
func SharpeRatio(returns []float64, riskFreeRate float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - riskFreeRate
	}
	sd := StdDev(excess)
	if sd == 0 {
		return 0
	}
	return Mean(excess) / sd
}

// SortinoRatio calculates the Sortino ratio: mean excess return over the
// downside deviation of returns below target. When no return falls below the
// target, the ratio is +Inf if the mean excess is positive and 0 otherwise.
func SortinoRatio(returns []float64, target float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	meanExcess := Mean(returns) - target

	var downsideSquaredSum float64
	downsideCount := 0
	for _, r := range returns {
		if r < target {
			d := r - target
			downsideSquaredSum += d * d
			downsideCount++
		}
	}

	if downsideCount == 0 {
		if meanExcess > 0 {
			return math.Inf(1)
		}
		return 0
	}

	downsideDeviation := math.Sqrt(downsideSquaredSum / float64(downsideCount))
	if downsideDeviation == 0 {
		return 0
	}
	return meanExcess / downsideDeviation
}

// CalmarRatio calculates annualized return (mean x 252) over the maximum
// drawdown of the compounded equity path implied by the returns.
// Returns 0 when the path never draws down.
func CalmarRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	// Rebuild the equity path to measure drawdown on the same series the
	// annualized return is computed from.
	equity := make([]float64, len(returns)+1)
	equity[0] = 1.0
	for i, r := range returns {
		equity[i+1] = equity[i] * (1 + r)
	}

	maxDD := MaxDrawdown(equity)
	if maxDD == 0 {
		return 0
	}
	return Mean(returns) * TradingDaysPerYear / maxDD
}

// ValueAtRisk calculates the historical Value-at-Risk at the given confidence
// level: the loss magnitude at the empirical (1-confidence) quantile of the
// return distribution. Gains at the quantile mean no loss is expected at that
// confidence, so 0 is returned.
func ValueAtRisk(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	idx := int(math.Floor((1 - confidence) * float64(len(sorted))))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	q := sorted[idx]
	if q >= 0 {
		return 0
	}
	return math.Abs(q)
}
