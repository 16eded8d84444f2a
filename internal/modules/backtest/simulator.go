// Package backtest replays historical market observations through a signal
// strategy and produces an execution report with risk-adjusted performance
// metrics, plus a Monte Carlo resampling mode for robustness checks.
package backtest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coinsight/engine/internal/domain"
	"github.com/coinsight/engine/internal/modules/strategy"
)

// positionFraction caps how much of current equity a single entry may
// commit before confidence scaling.
const positionFraction = 0.10

// Simulator runs event-driven backtests over sanitized observations. It is
// stateless between runs and safe for concurrent use.
type Simulator struct {
	log zerolog.Logger
}

// NewSimulator creates a simulator that logs through the given logger.
func NewSimulator(log zerolog.Logger) *Simulator {
	return &Simulator{
		log: log.With().Str("component", "backtest").Logger(),
	}
}

// account is the mutable state of a single run.
type account struct {
	cfg      Config
	cash     float64
	position domain.Position
	trades   []domain.Trade
}

// Run replays observations through the strategy and returns a report.
// Observations are sanitized first; malformed entries are dropped rather
// than failing the run. The only error condition is a nil strategy.
func (s *Simulator) Run(observations []domain.MarketObservation, strat strategy.Strategy, cfg Config) (*Report, error) {
	if strat == nil {
		return nil, fmt.Errorf("backtest requires a strategy")
	}
	cfg = cfg.withDefaults()

	obs := domain.SanitizeObservations(observations)
	lookback := strat.MinimumLookback()

	s.log.Debug().
		Str("strategy", strat.Name()).
		Int("observations", len(obs)).
		Int("lookback", lookback).
		Msg("starting run")

	acct := &account{
		cfg:      cfg,
		cash:     cfg.InitialCapital,
		position: domain.Position{Side: domain.SideNone},
	}
	equityCurve := []float64{cfg.InitialCapital}

	for i := lookback; i < len(obs); i++ {
		window := buildWindow(obs[i-lookback : i])
		signal := strat.Evaluate(window)
		acct.apply(signal, obs[i])
		equityCurve = append(equityCurve, acct.equity(obs[i].Price))
	}

	// Open exposure is liquidated at the final observed price so the
	// report reflects realized results only.
	if acct.position.Open() && len(obs) > 0 {
		last := obs[len(obs)-1]
		acct.closePosition(last.Price, last.Timestamp)
		equityCurve[len(equityCurve)-1] = acct.cash
	}

	report := buildReport(strat.Name(), obs, acct, equityCurve)
	s.log.Info().
		Str("strategy", strat.Name()).
		Float64("total_return", report.TotalReturn).
		Int("trades", report.TotalTrades).
		Msg("run complete")
	return report, nil
}

func buildWindow(obs []domain.MarketObservation) strategy.Window {
	prices := make([]float64, len(obs))
	volumes := make([]float64, len(obs))
	for i, o := range obs {
		prices[i] = o.Price
		volumes[i] = o.Volume
	}
	return strategy.Window{Prices: prices, Volumes: volumes}
}

// apply advances the position state machine by one signal. An opposing
// signal against an open position closes it first, then opens the new side.
func (a *account) apply(signal domain.Signal, obs domain.MarketObservation) {
	switch signal.Action {
	case domain.ActionBuy:
		if a.position.Side == domain.SideLong {
			return
		}
		if a.position.Side == domain.SideShort {
			a.closePosition(obs.Price, obs.Timestamp)
		}
		a.openPosition(domain.SideLong, signal.Confidence, obs)
	case domain.ActionSell:
		if a.position.Side == domain.SideShort {
			return
		}
		if a.position.Side == domain.SideLong {
			a.closePosition(obs.Price, obs.Timestamp)
		}
		a.openPosition(domain.SideShort, signal.Confidence, obs)
	}
}

// equity marks the account to the given price. Short positions are carried
// as escrowed cash, so their value is entry gain mirrored around the entry.
func (a *account) equity(price float64) float64 {
	switch a.position.Side {
	case domain.SideLong:
		return a.cash + a.position.Quantity*price
	case domain.SideShort:
		return a.cash + a.position.Quantity*(2*a.position.EntryPrice-price)
	default:
		return a.cash
	}
}

func (a *account) openPosition(side domain.PositionSide, confidence float64, obs domain.MarketObservation) {
	price := obs.Price
	spendable := a.cash / (1 + a.cfg.CostRate + a.cfg.SlippageRate)
	investment := positionFraction * a.equity(price)
	if spendable < investment {
		investment = spendable
	}
	investment *= confidence
	if investment <= 0 {
		return
	}
	quantity := investment / price

	notional := quantity * price
	cost := notional * a.cfg.CostRate
	slippage := notional * a.cfg.SlippageRate

	var entry float64
	var action domain.SignalAction
	if side == domain.SideLong {
		// Slippage worsens the effective entry; cash leaves at that price.
		entry = price * (1 + a.cfg.SlippageRate)
		action = domain.ActionBuy
		a.cash -= quantity*entry + cost
	} else {
		entry = price * (1 - a.cfg.SlippageRate)
		action = domain.ActionSell
		// Short proceeds stay escrowed until the position closes.
		a.cash -= quantity*(2*entry-price) + cost + slippage
	}

	a.position = domain.Position{Side: side, EntryPrice: entry, Quantity: quantity}
	a.trades = append(a.trades, domain.Trade{
		ID:        uuid.New().String(),
		Action:    action,
		Price:     entry,
		Quantity:  quantity,
		Timestamp: obs.Timestamp,
		Cost:      cost,
		Slippage:  slippage,
	})
}

func (a *account) closePosition(price float64, ts time.Time) {
	if !a.position.Open() {
		return
	}
	quantity := a.position.Quantity
	entry := a.position.EntryPrice
	notional := quantity * price
	cost := notional * a.cfg.CostRate
	slippage := notional * a.cfg.SlippageRate

	var realized float64
	var action domain.SignalAction
	if a.position.Side == domain.SideLong {
		realized = quantity*(price-entry) - cost - slippage
		action = domain.ActionSell
		a.cash += notional - cost - slippage
	} else {
		realized = quantity*(entry-price) - cost - slippage
		action = domain.ActionBuy
		a.cash += quantity*(2*entry-price) - cost - slippage
	}

	a.position = domain.Position{Side: domain.SideNone}
	a.trades = append(a.trades, domain.Trade{
		ID:          uuid.New().String(),
		Action:      action,
		Price:       price,
		Quantity:    quantity,
		Timestamp:   ts,
		Cost:        cost,
		Slippage:    slippage,
		RealizedPnL: &realized,
	})
}
