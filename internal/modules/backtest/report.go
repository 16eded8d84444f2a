package backtest

import (
	"math"

	"github.com/coinsight/engine/internal/domain"
	"github.com/coinsight/engine/pkg/formulas"
)

func buildReport(strategyName string, obs []domain.MarketObservation, acct *account, equityCurve []float64) *Report {
	report := &Report{
		Strategy:       strategyName,
		InitialCapital: acct.cfg.InitialCapital,
		FinalEquity:    equityCurve[len(equityCurve)-1],
		Trades:         acct.trades,
		EquityCurve:    equityCurve,
	}
	if len(obs) > 0 {
		report.Symbol = obs[0].Symbol
		report.Start = obs[0].Timestamp
		report.End = obs[len(obs)-1].Timestamp
	}

	report.TotalReturn = (report.FinalEquity - report.InitialCapital) / report.InitialCapital
	for _, t := range acct.trades {
		report.TotalCost += t.Cost
		report.TotalSlippage += t.Slippage
	}

	fillTradeStats(report, acct.trades)

	report.Returns = formulas.CalculateReturns(equityCurve)
	report.SharpeRatio = formulas.SharpeRatio(report.Returns, 0)
	report.SortinoRatio = formulas.SortinoRatio(report.Returns, 0)
	report.CalmarRatio = formulas.CalmarRatio(report.Returns)
	report.ValueAtRisk95 = formulas.ValueAtRisk(report.Returns, 0.95)
	report.MaxDrawdown = formulas.MaxDrawdown(equityCurve)
	return report
}

// fillTradeStats aggregates the closed round trips. A closing trade is any
// ledger entry carrying realized profit and loss.
func fillTradeStats(report *Report, trades []domain.Trade) {
	report.TotalTrades = len(trades)

	var grossProfit, grossLoss float64
	for _, t := range trades {
		if t.RealizedPnL == nil {
			continue
		}
		report.ClosedTrades++
		pnl := *t.RealizedPnL
		if pnl > 0 {
			report.WinningTrades++
			grossProfit += pnl
		} else {
			report.LosingTrades++
			grossLoss += -pnl
		}
	}

	if report.ClosedTrades > 0 {
		report.WinRate = float64(report.WinningTrades) / float64(report.ClosedTrades)
	}
	if report.WinningTrades > 0 {
		report.AverageWin = grossProfit / float64(report.WinningTrades)
	}
	if report.LosingTrades > 0 {
		report.AverageLoss = grossLoss / float64(report.LosingTrades)
	}

	switch {
	case report.WinningTrades == 0:
		report.ProfitFactor = 0
	case grossLoss == 0:
		report.ProfitFactor = math.Inf(1)
	default:
		report.ProfitFactor = grossProfit / grossLoss
	}
}
