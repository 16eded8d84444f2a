package optimization

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Service is the optimizer entry point. It is stateless apart from the
// optional cache; concurrent calls are independent.
type Service struct {
	estimator Estimator
	cache     *Cache
	log       zerolog.Logger
}

// NewService creates an optimizer. A nil estimator selects the snapshot
// estimator; a nil cache disables memoization.
func NewService(estimator Estimator, cache *Cache, log zerolog.Logger) *Service {
	if estimator == nil {
		estimator = NewSnapshotEstimator()
	}
	return &Service{
		estimator: estimator,
		cache:     cache,
		log:       log.With().Str("component", "optimization").Logger(),
	}
}

// Optimize solves the allocation for the snapshot universe. positions maps
// symbol to held quantity and may be empty for a fresh portfolio; capital is
// the total deployable notional used to size rebalance trades.
func (s *Service) Optimize(
	positions map[string]float64,
	snapshot Snapshot,
	capital float64,
	constraints Constraints,
	objective Objective,
) (*OptimizationResult, error) {
	if len(snapshot) == 0 {
		return nil, fmt.Errorf("optimization requires a non-empty market snapshot")
	}
	if _, err := ParseObjective(string(objective)); err != nil {
		return nil, fmt.Errorf("optimization: %w", err)
	}
	if objective == "" {
		objective = ObjectiveMeanVariance
	}
	constraints = constraints.withDefaults()

	symbols := make([]string, 0, len(snapshot))
	for symbol := range snapshot {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	now := time.Now()
	var cacheKey string
	if s.cache != nil {
		cacheKey = s.cache.key(symbols, objective, now)
		if cached, ok := s.cache.get(cacheKey, now); ok {
			s.log.Debug().Str("objective", string(objective)).Msg("cache hit")
			return cached, nil
		}
	}

	m := buildModel(symbols, snapshot, s.estimator)
	currentWeights := currentWeights(symbols, positions, snapshot)

	raw := solveWeights(objective, m, currentWeights, constraints)
	weights := clampAndNormalize(raw, constraints.MinPositionWeight, constraints.MaxPositionWeight)

	result := &OptimizationResult{
		Objective:   objective,
		Weights:     make(map[string]float64, len(symbols)),
		GeneratedAt: now,
	}
	for i, symbol := range symbols {
		result.Weights[symbol] = weights[i]
	}

	diagnostics(result, m, weights, currentWeights, constraints)
	result.RebalanceActions = rebalanceActions(m, weights, currentWeights, capital, constraints.RebalanceThreshold)

	if s.cache != nil {
		s.cache.set(cacheKey, result, now)
	}

	s.log.Info().
		Str("objective", string(objective)).
		Int("symbols", len(symbols)).
		Float64("expected_return", result.ExpectedReturn).
		Float64("expected_risk", result.ExpectedRisk).
		Int("rebalance_actions", len(result.RebalanceActions)).
		Msg("optimization complete")
	return result, nil
}

// currentWeights values each held position at the snapshot price and
// normalizes by total portfolio value. An empty portfolio is all zeros.
func currentWeights(symbols []string, positions map[string]float64, snapshot Snapshot) []float64 {
	values := make([]float64, len(symbols))
	var total float64
	for i, symbol := range symbols {
		qty := positions[symbol]
		if qty <= 0 {
			continue
		}
		values[i] = qty * snapshot[symbol].Price
		total += values[i]
	}
	if total <= 0 {
		return values
	}
	for i := range values {
		values[i] /= total
	}
	return values
}
