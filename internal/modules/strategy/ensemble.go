package strategy

import (
	"fmt"
	"strings"

	"github.com/coinsight/engine/internal/domain"
)

// ensembleScoreThreshold is the minimum weighted score the winning side must
// exceed before the ensemble commits to a direction. Together with the
// strict-dominance rule it governs downstream trade frequency, so changing
// it changes every backtest built on an ensemble.
const ensembleScoreThreshold = 0.3

// Member is one weighted voter in an ensemble.
type Member struct {
	Strategy Strategy
	Weight   float64
}

// Ensemble composes strategies into a weighted vote. Each member contributes
// confidence x weight to a buy score or a sell score; the ensemble emits
// buy/sell only when the winning score exceeds the threshold and strictly
// dominates the opposing side, otherwise it holds.
type Ensemble struct {
	members []Member
}

// NewEnsemble creates an ensemble from weighted members. Weights are
// normalized to sum to 1 so scores stay in [0, 1] regardless of member
// count. An empty member set, a nil strategy, or a non-positive weight is a
// caller contract violation and errors.
func NewEnsemble(members []Member) (*Ensemble, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("ensemble requires at least one member strategy")
	}

	total := 0.0
	for i, m := range members {
		if m.Strategy == nil {
			return nil, fmt.Errorf("ensemble member %d has nil strategy", i)
		}
		if m.Weight <= 0 {
			return nil, fmt.Errorf("ensemble member %q has non-positive weight %f", m.Strategy.Name(), m.Weight)
		}
		total += m.Weight
	}

	normalized := make([]Member, len(members))
	for i, m := range members {
		normalized[i] = Member{Strategy: m.Strategy, Weight: m.Weight / total}
	}
	return &Ensemble{members: normalized}, nil
}

// Name implements Strategy.
func (e *Ensemble) Name() string {
	names := make([]string, len(e.members))
	for i, m := range e.members {
		names[i] = m.Strategy.Name()
	}
	return "ensemble(" + strings.Join(names, ",") + ")"
}

// MinimumLookback implements Strategy. The ensemble needs the longest
// lookback among its members; shorter windows make every member hold anyway.
func (e *Ensemble) MinimumLookback() int {
	max := 0
	for _, m := range e.members {
		if lb := m.Strategy.MinimumLookback(); lb > max {
			max = lb
		}
	}
	return max
}

// Evaluate implements Strategy.
func (e *Ensemble) Evaluate(window Window) domain.Signal {
	var buyScore, sellScore float64
	for _, m := range e.members {
		signal := m.Strategy.Evaluate(window)
		switch signal.Action {
		case domain.ActionBuy:
			buyScore += signal.Confidence * m.Weight
		case domain.ActionSell:
			sellScore += signal.Confidence * m.Weight
		}
	}

	switch {
	case buyScore > ensembleScoreThreshold && buyScore > sellScore:
		return domain.Signal{
			Action:     domain.ActionBuy,
			Confidence: clamp01(buyScore),
			Detail:     fmt.Sprintf("buy score %.3f vs sell score %.3f", buyScore, sellScore),
		}
	case sellScore > ensembleScoreThreshold && sellScore > buyScore:
		return domain.Signal{
			Action:     domain.ActionSell,
			Confidence: clamp01(sellScore),
			Detail:     fmt.Sprintf("sell score %.3f vs buy score %.3f", sellScore, buyScore),
		}
	default:
		return domain.Hold(fmt.Sprintf("no dominant side (buy %.3f, sell %.3f)", buyScore, sellScore))
	}
}
