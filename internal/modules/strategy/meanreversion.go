package strategy

import (
	"fmt"
	"math"

	"github.com/markcheno/go-talib"

	"github.com/coinsight/engine/internal/domain"
)

// MeanReversion signals against Bollinger band excursions: a close below the
// lower band is treated as oversold (buy), a close above the upper band as
// overbought (sell). Confidence scales with the distance beyond the band
// relative to the band width.
type MeanReversion struct {
	period int
	width  float64
}

// NewMeanReversion creates a band-based mean-reversion strategy. width is
// the band width in standard deviations (2.0 is the conventional setting).
func NewMeanReversion(period int, width float64) (*MeanReversion, error) {
	if period < 2 {
		return nil, fmt.Errorf("invalid mean-reversion period: %d", period)
	}
	if width <= 0 {
		return nil, fmt.Errorf("invalid band width: %f", width)
	}
	return &MeanReversion{period: period, width: width}, nil
}

// Name implements Strategy.
func (s *MeanReversion) Name() string {
	return fmt.Sprintf("mean_reversion_%d", s.period)
}

// MinimumLookback implements Strategy.
func (s *MeanReversion) MinimumLookback() int {
	return s.period
}

// Evaluate implements Strategy.
func (s *MeanReversion) Evaluate(window Window) domain.Signal {
	if window.Len() < s.MinimumLookback() {
		return domain.Hold("insufficient data")
	}

	upper, middle, lower := talib.BBands(window.Prices, s.period, s.width, s.width, talib.SMA)

	last := window.Prices[len(window.Prices)-1]
	up := upper[len(upper)-1]
	mid := middle[len(middle)-1]
	low := lower[len(lower)-1]

	bandWidth := up - low
	if bandWidth <= 0 || math.IsNaN(bandWidth) {
		// Zero-variance window: no band to revert to.
		return domain.Hold("flat band")
	}

	switch {
	case last < low:
		confidence := clamp01(0.5 + (low-last)/bandWidth)
		return domain.Signal{
			Action:     domain.ActionBuy,
			Confidence: confidence,
			Detail:     fmt.Sprintf("price %.4f below lower band %.4f (mid %.4f)", last, low, mid),
		}
	case last > up:
		confidence := clamp01(0.5 + (last-up)/bandWidth)
		return domain.Signal{
			Action:     domain.ActionSell,
			Confidence: confidence,
			Detail:     fmt.Sprintf("price %.4f above upper band %.4f (mid %.4f)", last, up, mid),
		}
	default:
		return domain.Hold("price inside bands")
	}
}
