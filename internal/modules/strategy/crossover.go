package strategy

import (
	"fmt"
	"math"

	"github.com/markcheno/go-talib"

	"github.com/coinsight/engine/internal/domain"
)

// MovingAverageCrossover signals on the relation between a short and a long
// simple moving average: short above long is bullish, short below long is
// bearish. Confidence scales with the normalized spread between the two
// averages, capped below certainty.
type MovingAverageCrossover struct {
	shortPeriod int
	longPeriod  int
}

// NewMovingAverageCrossover creates a crossover strategy. The long period
// must exceed the short period.
func NewMovingAverageCrossover(shortPeriod, longPeriod int) (*MovingAverageCrossover, error) {
	if shortPeriod < 1 || longPeriod <= shortPeriod {
		return nil, fmt.Errorf("invalid crossover periods: short=%d long=%d", shortPeriod, longPeriod)
	}
	return &MovingAverageCrossover{shortPeriod: shortPeriod, longPeriod: longPeriod}, nil
}

// Name implements Strategy.
func (s *MovingAverageCrossover) Name() string {
	return fmt.Sprintf("ma_crossover_%d_%d", s.shortPeriod, s.longPeriod)
}

// MinimumLookback implements Strategy.
func (s *MovingAverageCrossover) MinimumLookback() int {
	return s.longPeriod
}

// Evaluate implements Strategy.
func (s *MovingAverageCrossover) Evaluate(window Window) domain.Signal {
	if window.Len() < s.MinimumLookback() {
		return domain.Hold("insufficient data")
	}

	shortMA := talib.Sma(window.Prices, s.shortPeriod)
	longMA := talib.Sma(window.Prices, s.longPeriod)

	short := shortMA[len(shortMA)-1]
	long := longMA[len(longMA)-1]
	if long <= 0 || math.IsNaN(short) || math.IsNaN(long) {
		return domain.Hold("degenerate moving averages")
	}

	spread := (short - long) / long
	confidence := clamp01(math.Min(0.95, 0.5+math.Abs(spread)*5))

	switch {
	case spread > 0:
		return domain.Signal{
			Action:     domain.ActionBuy,
			Confidence: confidence,
			Detail:     fmt.Sprintf("short MA %.4f above long MA %.4f", short, long),
		}
	case spread < 0:
		return domain.Signal{
			Action:     domain.ActionSell,
			Confidence: confidence,
			Detail:     fmt.Sprintf("short MA %.4f below long MA %.4f", short, long),
		}
	default:
		return domain.Hold("moving averages flat")
	}
}
