package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeObservations(t *testing.T) {
	now := time.Now()
	observations := []MarketObservation{
		{Symbol: "BTC", Price: 50000, Volume: 10, Timestamp: now},
		{Symbol: "BTC", Price: math.NaN(), Volume: 10, Timestamp: now},
		{Symbol: "BTC", Price: -1, Volume: 10, Timestamp: now},
		{Symbol: "BTC", Price: 0, Volume: 10, Timestamp: now},
		{Symbol: "BTC", Price: math.Inf(1), Volume: 10, Timestamp: now},
		{Symbol: "BTC", Price: 50100, Volume: math.NaN(), Timestamp: now},
	}

	clean := SanitizeObservations(observations)

	require.Len(t, clean, 2, "only well-formed prices survive")
	assert.Equal(t, 50000.0, clean[0].Price)
	assert.Equal(t, 50100.0, clean[1].Price)
	assert.Equal(t, 0.0, clean[1].Volume, "malformed volume coerced to 0")
}

func TestPositionOpen(t *testing.T) {
	assert.False(t, Position{Side: SideNone}.Open())
	assert.True(t, Position{Side: SideLong, Quantity: 1}.Open())
	assert.True(t, Position{Side: SideShort, Quantity: 1}.Open())
}

func TestHoldSignal(t *testing.T) {
	signal := Hold("window too short")

	assert.Equal(t, ActionHold, signal.Action)
	assert.Equal(t, 0.0, signal.Confidence)
	assert.Equal(t, "window too short", signal.Detail)
}
