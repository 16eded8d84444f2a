package strategy

import (
	"fmt"
	"math"

	"github.com/markcheno/go-talib"

	"github.com/coinsight/engine/internal/domain"
)

// RSIMomentum signals on Relative Strength Index extremes: oversold readings
// produce buys, overbought readings produce sells. Confidence scales with
// how deep the reading is into the extreme zone.
type RSIMomentum struct {
	period     int
	oversold   float64
	overbought float64
}

// NewRSIMomentum creates an RSI strategy. The conventional configuration is
// period 14 with 30/70 thresholds.
func NewRSIMomentum(period int, oversold, overbought float64) (*RSIMomentum, error) {
	if period < 2 {
		return nil, fmt.Errorf("invalid RSI period: %d", period)
	}
	if oversold <= 0 || overbought >= 100 || oversold >= overbought {
		return nil, fmt.Errorf("invalid RSI thresholds: oversold=%f overbought=%f", oversold, overbought)
	}
	return &RSIMomentum{period: period, oversold: oversold, overbought: overbought}, nil
}

// Name implements Strategy.
func (s *RSIMomentum) Name() string {
	return fmt.Sprintf("rsi_momentum_%d", s.period)
}

// MinimumLookback implements Strategy.
// RSI needs one extra bar to seed the first gain/loss average.
func (s *RSIMomentum) MinimumLookback() int {
	return s.period + 1
}

// Evaluate implements Strategy.
func (s *RSIMomentum) Evaluate(window Window) domain.Signal {
	if window.Len() < s.MinimumLookback() {
		return domain.Hold("insufficient data")
	}

	rsi := talib.Rsi(window.Prices, s.period)
	value := rsi[len(rsi)-1]
	if math.IsNaN(value) {
		return domain.Hold("degenerate RSI")
	}

	switch {
	case value < s.oversold:
		confidence := clamp01((s.oversold - value) / s.oversold)
		return domain.Signal{
			Action:     domain.ActionBuy,
			Confidence: confidence,
			Detail:     fmt.Sprintf("RSI %.2f below %.0f", value, s.oversold),
		}
	case value > s.overbought:
		confidence := clamp01((value - s.overbought) / (100 - s.overbought))
		return domain.Signal{
			Action:     domain.ActionSell,
			Confidence: confidence,
			Detail:     fmt.Sprintf("RSI %.2f above %.0f", value, s.overbought),
		}
	default:
		return domain.Hold("RSI neutral")
	}
}
