// Package optimization allocates capital across a symbol universe. Given
// current positions, a market snapshot, and constraints, it estimates
// return/volatility/correlation, builds a covariance matrix, solves one of
// several allocation objectives, and emits diagnostics plus prioritized
// rebalance actions.
package optimization

import (
	"fmt"
	"time"
)

// Quote is one symbol's slice of the market snapshot.
type Quote struct {
	Price     float64 `json:"price"`
	Change24h float64 `json:"change_24h"` // fractional, 0.05 == +5%
	Volume24h float64 `json:"volume_24h"`
	High24h   float64 `json:"high_24h,omitempty"`
	Low24h    float64 `json:"low_24h,omitempty"`
}

// Snapshot maps symbol to its current quote.
type Snapshot map[string]Quote

// Objective selects the weight solver.
type Objective string

// Allocation objectives.
const (
	ObjectiveMeanVariance   Objective = "meanVariance"
	ObjectiveMinVariance    Objective = "minVariance"
	ObjectiveMaxSharpe      Objective = "maxSharpe"
	ObjectiveRiskParity     Objective = "riskParity"
	ObjectiveBlackLitterman Objective = "blackLitterman"
)

// ParseObjective maps a caller-supplied selector to an Objective. The empty
// string selects the default mean-variance objective.
func ParseObjective(s string) (Objective, error) {
	switch Objective(s) {
	case "":
		return ObjectiveMeanVariance, nil
	case ObjectiveMeanVariance, ObjectiveMinVariance, ObjectiveMaxSharpe,
		ObjectiveRiskParity, ObjectiveBlackLitterman:
		return Objective(s), nil
	default:
		return "", fmt.Errorf("unknown objective %q", s)
	}
}

// Constraints bound the solved weights. Immutable per call.
type Constraints struct {
	MaxPositionWeight float64 `json:"max_position_weight"`
	MinPositionWeight float64 `json:"min_position_weight"`
	MaxRisk           float64 `json:"max_risk"`
	RiskFreeRate      float64 `json:"risk_free_rate"`
	// RebalanceThreshold is the minimum |target - current| weight delta
	// that triggers a rebalance action.
	RebalanceThreshold float64 `json:"rebalance_threshold"`
	TargetReturn       float64 `json:"target_return,omitempty"`
	MaxTurnover        float64 `json:"max_turnover,omitempty"`
}

// DefaultConstraints returns permissive bounds suitable for small universes.
func DefaultConstraints() Constraints {
	return Constraints{
		MaxPositionWeight:  0.40,
		MinPositionWeight:  0.01,
		MaxRisk:            1.0,
		RiskFreeRate:       0.02,
		RebalanceThreshold: 0.05,
	}
}

func (c Constraints) withDefaults() Constraints {
	d := DefaultConstraints()
	if c.MaxPositionWeight <= 0 || c.MaxPositionWeight > 1 {
		c.MaxPositionWeight = d.MaxPositionWeight
	}
	if c.MinPositionWeight < 0 || c.MinPositionWeight >= c.MaxPositionWeight {
		c.MinPositionWeight = 0
	}
	if c.MaxRisk <= 0 {
		c.MaxRisk = d.MaxRisk
	}
	if c.RebalanceThreshold <= 0 {
		c.RebalanceThreshold = d.RebalanceThreshold
	}
	return c
}

// RebalanceAction is one prioritized trade moving the portfolio toward its
// target weights.
type RebalanceAction struct {
	Symbol        string  `json:"symbol"`
	Action        string  `json:"action"` // BUY or SELL
	CurrentWeight float64 `json:"current_weight"`
	TargetWeight  float64 `json:"target_weight"`
	WeightDelta   float64 `json:"weight_delta"`
	AmountToTrade float64 `json:"amount_to_trade"`
	EstimatedCost float64 `json:"estimated_cost"`
	Priority      string  `json:"priority"` // high, medium, low
	Rationale     string  `json:"rationale"`
}

// Attribution is a simplified decomposition of the projected return delta
// against current weights. It is a fixed 60/30/10 split, not a rigorous
// Brinson attribution.
type Attribution struct {
	Allocation  float64 `json:"allocation"`
	Selection   float64 `json:"selection"`
	Interaction float64 `json:"interaction"`
}

// OptimizationResult is the fully populated outcome of one optimizer call,
// suitable for direct serialization by a calling layer.
type OptimizationResult struct {
	Objective Objective          `json:"objective"`
	Weights   map[string]float64 `json:"weights"`

	ExpectedReturn float64 `json:"expected_return"`
	ExpectedRisk   float64 `json:"expected_risk"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	SortinoRatio   float64 `json:"sortino_ratio"`
	CalmarRatio    float64 `json:"calmar_ratio"`

	// Diversification is 1 minus the weighted average pairwise correlation.
	Diversification float64 `json:"diversification"`
	// Concentration is the Herfindahl index of the weights.
	Concentration float64 `json:"concentration"`

	ValueAtRisk95       float64            `json:"value_at_risk_95"`
	ValueAtRisk99       float64            `json:"value_at_risk_99"`
	ExpectedShortfall95 float64            `json:"expected_shortfall_95"`
	ExpectedShortfall99 float64            `json:"expected_shortfall_99"`
	// MonteCarloCVaR95 is a sampled cross-check of the parametric tail
	// numbers above. It fluctuates between calls.
	MonteCarloCVaR95  float64            `json:"monte_carlo_cvar_95"`
	RiskContributions map[string]float64 `json:"risk_contributions"`

	Attribution      Attribution       `json:"attribution"`
	RebalanceActions []RebalanceAction `json:"rebalance_actions"`

	GeneratedAt time.Time `json:"generated_at"`
}
