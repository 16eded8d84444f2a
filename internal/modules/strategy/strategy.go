// Package strategy defines the trading signal contract and the reference
// strategies that ship with the engine. A strategy is a pure, named function
// of a bounded price/volume window; it never retains state between calls, so
// a signal at bar i can only depend on data strictly before i.
package strategy

import (
	"github.com/coinsight/engine/internal/domain"
)

// Window is the trailing slice of market data a strategy is evaluated on.
// Prices and Volumes are parallel slices ordered oldest to newest.
type Window struct {
	Prices  []float64
	Volumes []float64
}

// Len returns the number of bars in the window.
func (w Window) Len() int {
	return len(w.Prices)
}

// Strategy is the closed signal-source contract. Implementations must
// degrade to a hold/zero-confidence signal when the window is shorter than
// MinimumLookback rather than erroring.
type Strategy interface {
	// Name identifies the strategy in reports and logs.
	Name() string

	// MinimumLookback is the smallest window length the strategy can
	// evaluate meaningfully.
	MinimumLookback() int

	// Evaluate maps a window to a signal. Pure: no retained state, no I/O.
	Evaluate(window Window) domain.Signal
}

// clamp01 bounds a confidence value to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
