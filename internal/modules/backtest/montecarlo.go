package backtest

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/coinsight/engine/internal/domain"
	"github.com/coinsight/engine/internal/modules/strategy"
	"github.com/coinsight/engine/pkg/formulas"
)

// RunMonteCarlo replays the same observation set many times, shuffling the
// observation order before each replay, and aggregates the distribution of
// total returns. Shuffling deliberately destroys chronology; the spread of
// outcomes measures how much the strategy's result depends on the specific
// path rather than the return population.
//
// A non-nil seed makes the shuffle sequence deterministic. The context is
// checked between iterations so long runs can be cancelled.
func (s *Simulator) RunMonteCarlo(
	ctx context.Context,
	observations []domain.MarketObservation,
	strat strategy.Strategy,
	cfg Config,
	iterations int,
	seed *int64,
) (*MonteCarloResult, error) {
	if strat == nil {
		return nil, fmt.Errorf("monte carlo requires a strategy")
	}
	if iterations <= 0 {
		return nil, fmt.Errorf("monte carlo requires positive iterations, got %d", iterations)
	}

	src := time.Now().UnixNano()
	if seed != nil {
		src = *seed
	}
	rng := rand.New(rand.NewSource(src))

	base := domain.SanitizeObservations(observations)
	shuffled := make([]domain.MarketObservation, len(base))

	returns := make([]float64, 0, iterations)
	wins := 0
	best := math.Inf(-1)
	worst := math.Inf(1)

	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("monte carlo cancelled after %d iterations: %w", i, err)
		}

		copy(shuffled, base)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		report, err := s.Run(shuffled, strat, cfg)
		if err != nil {
			return nil, fmt.Errorf("monte carlo iteration %d: %w", i, err)
		}

		r := report.TotalReturn
		returns = append(returns, r)
		if r > 0 {
			wins++
		}
		if r > best {
			best = r
		}
		if r < worst {
			worst = r
		}
	}

	result := &MonteCarloResult{
		Iterations:     iterations,
		MeanReturn:     formulas.Mean(returns),
		StdDevReturn:   formulas.StdDev(returns),
		BestReturn:     best,
		WorstReturn:    worst,
		WinProbability: float64(wins) / float64(iterations),
		Returns:        returns,
	}

	s.log.Info().
		Int("iterations", iterations).
		Float64("mean_return", result.MeanReturn).
		Float64("win_probability", result.WinProbability).
		Msg("monte carlo complete")
	return result, nil
}
