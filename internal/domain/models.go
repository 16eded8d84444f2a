// Package domain holds the value objects shared by the backtest simulator
// and the portfolio optimizer. The domain layer is pure: no infrastructure
// dependencies, no hidden state.
package domain

import (
	"math"
	"time"
)

// SignalAction is the action a strategy recommends for the next bar.
type SignalAction string

// Signal actions.
const (
	ActionBuy  SignalAction = "buy"
	ActionSell SignalAction = "sell"
	ActionHold SignalAction = "hold"
)

// Signal is a single strategy recommendation for one evaluation window.
// Strategies never retain state across calls; everything a Signal carries is
// derived from the window it was evaluated on.
type Signal struct {
	Action     SignalAction `json:"action"`
	Confidence float64      `json:"confidence"` // 0..1
	Detail     string       `json:"detail,omitempty"`
}

// Hold returns the neutral signal used when a strategy cannot or will not
// act (short window, flat indicator, degenerate input).
func Hold(detail string) Signal {
	return Signal{Action: ActionHold, Confidence: 0, Detail: detail}
}

// MarketObservation is one externally supplied market data point. The
// sequence handed to the simulator is expected to be time-ordered; the
// engine neither fetches nor caches market data itself.
type MarketObservation struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Volume    float64   `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
	High      float64   `json:"high,omitempty"`
	Low       float64   `json:"low,omitempty"`
	Bid       float64   `json:"bid,omitempty"`
	Ask       float64   `json:"ask,omitempty"`
}

// PositionSide is the side of the single open position.
type PositionSide string

// Position sides.
const (
	SideNone  PositionSide = "none"
	SideLong  PositionSide = "long"
	SideShort PositionSide = "short"
)

// Position is the simulator's single open position. It is mutated only by
// the simulator's execution step; exactly one side is open at any simulated
// instant.
type Position struct {
	Side       PositionSide `json:"side"`
	EntryPrice float64      `json:"entry_price"`
	Quantity   float64      `json:"quantity"`
}

// Open reports whether a position is currently held.
func (p Position) Open() bool {
	return p.Side == SideLong || p.Side == SideShort
}

// Trade is one append-only ledger entry, created on every position-state
// transition. RealizedPnL is set only on entries that close a position.
type Trade struct {
	ID          string       `json:"id"`
	Action      SignalAction `json:"action"`
	Price       float64      `json:"price"`
	Quantity    float64      `json:"quantity"`
	Timestamp   time.Time    `json:"timestamp"`
	Cost        float64      `json:"cost"`
	Slippage    float64      `json:"slippage"`
	RealizedPnL *float64     `json:"realized_pnl,omitempty"`
}

// SanitizeObservations filters a market data sequence down to the
// observations the simulator can act on. Malformed prices (NaN, infinite,
// non-positive) drop the observation; malformed volumes are coerced to 0 so
// the bar still participates in price-driven decisions.
func SanitizeObservations(observations []MarketObservation) []MarketObservation {
	clean := make([]MarketObservation, 0, len(observations))
	for _, obs := range observations {
		if math.IsNaN(obs.Price) || math.IsInf(obs.Price, 0) || obs.Price <= 0 {
			continue
		}
		if math.IsNaN(obs.Volume) || math.IsInf(obs.Volume, 0) || obs.Volume < 0 {
			obs.Volume = 0
		}
		clean = append(clean, obs)
	}
	return clean
}
