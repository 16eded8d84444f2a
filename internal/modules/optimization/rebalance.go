package optimization

import (
	"fmt"
	"math"
	"sort"
)

// Priority band on the absolute weight delta and the fixed cost rate
// applied to traded notional.
const (
	highPriorityDelta = 0.10
	rebalanceCostRate = 0.001
)

// rebalanceActions emits one action per symbol whose target weight deviates
// from the current weight by more than the trigger threshold, largest
// notional first.
func rebalanceActions(m *model, weights, currentWeights []float64, capital, threshold float64) []RebalanceAction {
	actions := make([]RebalanceAction, 0)
	for i, symbol := range m.symbols {
		delta := weights[i] - currentWeights[i]
		if math.Abs(delta) <= threshold {
			continue
		}

		action := "BUY"
		if delta < 0 {
			action = "SELL"
		}
		// The high band is inclusive of a full ten-point move; float noise
		// on the subtraction must not demote it.
		priority := "medium"
		if math.Abs(delta) >= highPriorityDelta-1e-9 {
			priority = "high"
		}

		amount := math.Abs(delta) * capital
		actions = append(actions, RebalanceAction{
			Symbol:        symbol,
			Action:        action,
			CurrentWeight: currentWeights[i],
			TargetWeight:  weights[i],
			WeightDelta:   delta,
			AmountToTrade: amount,
			EstimatedCost: amount * rebalanceCostRate,
			Priority:      priority,
			Rationale: fmt.Sprintf("%s %.1f%% to move from %.1f%% toward %.1f%%",
				action, math.Abs(delta)*100, currentWeights[i]*100, weights[i]*100),
		})
	}

	sort.Slice(actions, func(a, b int) bool {
		return actions[a].AmountToTrade > actions[b].AmountToTrade
	})
	return actions
}
