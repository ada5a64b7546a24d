package backtest

import (
	"math"

	"github.com/rustyeddy/intraday/risk"
)

// tradingDaysPerYear annualizes the Sharpe ratio.
const tradingDaysPerYear = 252

// dailyReturns computes period-over-period returns of the equity curve.
// A zero previous equity contributes no return.
func dailyReturns(curve []EquityPoint) []float64 {
	if len(curve) < 2 {
		return nil
	}
	out := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev == 0 {
			continue
		}
		out = append(out, (curve[i].Equity-prev)/prev)
	}
	return out
}

// sharpeRatio annualizes mean/std of the daily returns. Zero when there
// are no returns or the deviation is zero.
func sharpeRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))
	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(tradingDaysPerYear)
}

// maxDrawdown is the worst peak-to-trough decline as a fraction of the
// peak. The peak is seeded with the initial capital so a curve that only
// falls from day one still registers.
func maxDrawdown(initial float64, curve []EquityPoint) float64 {
	peak := initial
	worst := 0.0
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak <= 0 {
			continue
		}
		dd := (peak - p.Equity) / peak
		if dd > worst {
			worst = dd
		}
	}
	return worst
}

// buildReport aggregates the run into the report record.
func (e *Engine) buildReport() *Report {
	finalValue := e.cfg.InitialCapital
	if n := len(e.equity); n > 0 {
		finalValue = e.equity[n-1].Equity
	}

	totalReturn := 0.0
	if e.cfg.InitialCapital != 0 {
		totalReturn = (finalValue - e.cfg.InitialCapital) / e.cfg.InitialCapital
	}

	returns := dailyReturns(e.equity)
	dd := maxDrawdown(e.cfg.InitialCapital, e.equity)

	wins := 0
	closed := 0
	grossProfit := 0.0
	grossLoss := 0.0
	totalPnL := 0.0
	for _, tr := range e.trades {
		if tr.Action != risk.Sell {
			continue
		}
		closed++
		totalPnL += tr.PnL
		if tr.PnL > 0 {
			wins++
			grossProfit += tr.PnL
		} else if tr.PnL < 0 {
			grossLoss += -tr.PnL
		}
	}

	winRate := 0.0
	avgTrade := 0.0
	if closed > 0 {
		winRate = float64(wins) / float64(closed)
		avgTrade = totalPnL / float64(closed)
	}
	profitFactor := 0.0
	if grossLoss > 0 {
		profitFactor = grossProfit / grossLoss
	}

	// Copies, so later engine use cannot mutate the report.
	curve := make([]EquityPoint, len(e.equity))
	copy(curve, e.equity)
	trades := make([]TradeRecord, len(e.trades))
	copy(trades, e.trades)

	return &Report{
		Summary: Summary{
			InitialCapital: e.cfg.InitialCapital,
			FinalValue:     finalValue,
			TotalReturn:    totalReturn,
			TotalReturnPct: totalReturn * 100,
			SharpeRatio:    sharpeRatio(returns),
			MaxDrawdown:    dd,
			MaxDrawdownPct: dd * 100,
		},
		TradeStatistics: TradeStatistics{
			TotalTrades:  closed,
			WinRate:      winRate,
			ProfitFactor: profitFactor,
			AvgTrade:     avgTrade,
		},
		EquityCurve:  curve,
		Trades:       trades,
		DailyReturns: returns,
	}
}
