package formulas

// DrawdownMetrics represents drawdown analysis results for an equity curve.
type DrawdownMetrics struct {
	MaxDrawdown     float64 `json:"max_drawdown"`     // Largest peak-to-trough decline (0.25 = 25%)
	CurrentDrawdown float64 `json:"current_drawdown"` // Decline from peak to the final value
	BarsInDrawdown  int     `json:"bars_in_drawdown"` // Bars since the running peak
	PeakValue       float64 `json:"peak_value"`
	CurrentValue    float64 `json:"current_value"`
}

// MaxDrawdown calculates the largest running peak-to-trough relative decline
// of a value series via a single forward scan.
//
// The result is always in [0, 1]; a non-decreasing series yields 0, as do
// series too short to decline.
func MaxDrawdown(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	maxDrawdown := 0.0
	peak := values[0]

	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return maxDrawdown
}

// DrawdownAnalysis calculates full drawdown metrics for an equity curve,
// including the current distance from the running peak.
func DrawdownAnalysis(values []float64) DrawdownMetrics {
	if len(values) < 2 {
		return DrawdownMetrics{}
	}

	maxDrawdown := 0.0
	peak := values[0]
	peakIndex := 0
	current := values[len(values)-1]

	for i, v := range values {
		if v > peak {
			peak = v
			peakIndex = i
		}
		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	currentDrawdown := 0.0
	if peak > 0 {
		currentDrawdown = (peak - current) / peak
	}

	return DrawdownMetrics{
		MaxDrawdown:     maxDrawdown,
		CurrentDrawdown: currentDrawdown,
		BarsInDrawdown:  len(values) - 1 - peakIndex,
		PeakValue:       peak,
		CurrentValue:    current,
	}
}
