package strategy

import (
	"fmt"

	"github.com/coinsight/engine/internal/domain"
	"github.com/coinsight/engine/pkg/formulas"
)

// volumeConfirmationRatio is the multiple of average window volume above
// which a breakout is considered volume-confirmed.
const volumeConfirmationRatio = 1.2

// Breakout signals when the latest close escapes the prior range: above the
// trailing high is a buy, below the trailing low is a sell. A breakout on
// above-average volume earns extra confidence.
type Breakout struct {
	lookback int
}

// NewBreakout creates a range-breakout strategy over the given trailing
// range length.
func NewBreakout(lookback int) (*Breakout, error) {
	if lookback < 2 {
		return nil, fmt.Errorf("invalid breakout lookback: %d", lookback)
	}
	return &Breakout{lookback: lookback}, nil
}

// Name implements Strategy.
func (s *Breakout) Name() string {
	return fmt.Sprintf("breakout_%d", s.lookback)
}

// MinimumLookback implements Strategy.
// One extra bar is required so the latest close has a prior range to break.
func (s *Breakout) MinimumLookback() int {
	return s.lookback + 1
}

// Evaluate implements Strategy.
func (s *Breakout) Evaluate(window Window) domain.Signal {
	if window.Len() < s.MinimumLookback() {
		return domain.Hold("insufficient data")
	}

	prices := window.Prices
	last := prices[len(prices)-1]
	prior := prices[len(prices)-1-s.lookback : len(prices)-1]

	high := prior[0]
	low := prior[0]
	for _, p := range prior {
		if p > high {
			high = p
		}
		if p < low {
			low = p
		}
	}

	confidence := 0.6
	if confirmed := s.volumeConfirmed(window); confirmed {
		confidence = 0.8
	}

	switch {
	case last > high:
		return domain.Signal{
			Action:     domain.ActionBuy,
			Confidence: confidence,
			Detail:     fmt.Sprintf("close %.4f above %d-bar high %.4f", last, s.lookback, high),
		}
	case last < low:
		return domain.Signal{
			Action:     domain.ActionSell,
			Confidence: confidence,
			Detail:     fmt.Sprintf("close %.4f below %d-bar low %.4f", last, s.lookback, low),
		}
	default:
		return domain.Hold("price inside range")
	}
}

// volumeConfirmed reports whether the breakout bar traded above-average
// volume. Missing or mismatched volume data never confirms.
func (s *Breakout) volumeConfirmed(window Window) bool {
	if len(window.Volumes) != len(window.Prices) || len(window.Volumes) == 0 {
		return false
	}
	lastVolume := window.Volumes[len(window.Volumes)-1]
	avg := formulas.Mean(window.Volumes)
	return avg > 0 && lastVolume > avg*volumeConfirmationRatio
}
