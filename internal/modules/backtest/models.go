package backtest

import (
	"time"

	"github.com/coinsight/engine/internal/domain"
)

// Config controls a simulation run. Zero or negative fields fall back to
// the package defaults when the simulator starts.
type Config struct {
	// InitialCapital is the starting cash balance.
	InitialCapital float64
	// CostRate is the proportional transaction cost charged on every
	// execution, applied to traded notional.
	CostRate float64
	// SlippageRate is the proportional price impact applied against the
	// trade direction, also charged on traded notional.
	SlippageRate float64
}

// DefaultConfig returns the conventional simulation parameters: 10k capital,
// 10bp cost, 5bp slippage.
func DefaultConfig() Config {
	return Config{
		InitialCapital: 10_000,
		CostRate:       0.001,
		SlippageRate:   0.0005,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.InitialCapital <= 0 {
		c.InitialCapital = d.InitialCapital
	}
	if c.CostRate < 0 {
		c.CostRate = d.CostRate
	}
	if c.SlippageRate < 0 {
		c.SlippageRate = d.SlippageRate
	}
	return c
}

// Report is the full result of a simulation run.
type Report struct {
	Strategy       string    `json:"strategy"`
	Symbol         string    `json:"symbol"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	InitialCapital float64   `json:"initial_capital"`
	FinalEquity    float64   `json:"final_equity"`

	// TotalReturn is (final equity - initial capital) / initial capital.
	TotalReturn   float64 `json:"total_return"`
	TotalCost     float64 `json:"total_cost"`
	TotalSlippage float64 `json:"total_slippage"`

	// Trade statistics over closed round trips.
	TotalTrades   int     `json:"total_trades"`
	ClosedTrades  int     `json:"closed_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`
	AverageWin    float64 `json:"average_win"`
	AverageLoss   float64 `json:"average_loss"`
	// ProfitFactor is gross profit over gross loss. It is +Inf when there
	// are wins and no losses, and 0 when there are no wins.
	ProfitFactor float64 `json:"profit_factor"`

	// Risk-adjusted metrics over the per-step equity returns.
	SharpeRatio   float64 `json:"sharpe_ratio"`
	SortinoRatio  float64 `json:"sortino_ratio"`
	CalmarRatio   float64 `json:"calmar_ratio"`
	ValueAtRisk95 float64 `json:"value_at_risk_95"`
	MaxDrawdown   float64 `json:"max_drawdown"`

	Trades      []domain.Trade `json:"trades"`
	EquityCurve []float64      `json:"equity_curve"`
	Returns     []float64      `json:"returns"`
}

// MonteCarloResult summarizes the distribution of total returns across
// shuffled replays of the same observation set.
type MonteCarloResult struct {
	Iterations   int     `json:"iterations"`
	MeanReturn   float64 `json:"mean_return"`
	StdDevReturn float64 `json:"std_dev_return"`
	BestReturn   float64 `json:"best_return"`
	WorstReturn  float64 `json:"worst_return"`
	// WinProbability is the fraction of iterations that ended profitable.
	WinProbability float64   `json:"win_probability"`
	Returns        []float64 `json:"returns"`
}
