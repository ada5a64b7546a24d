package backtest

import (
	"encoding/json"
	"math"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/intraday/risk"
)

func curve(equities ...float64) []EquityPoint {
	out := make([]EquityPoint, len(equities))
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, eq := range equities {
		out[i] = EquityPoint{Date: day.AddDate(0, 0, i), Equity: eq}
	}
	return out
}

func TestDailyReturns(t *testing.T) {
	t.Parallel()

	got := dailyReturns(curve(1000, 1100, 990))
	require.Len(t, got, 2)
	assert.InDelta(t, 0.10, got[0], 1e-9)
	assert.InDelta(t, -0.10, got[1], 1e-9)

	assert.Nil(t, dailyReturns(curve(1000)))
	assert.Nil(t, dailyReturns(nil))
}

func TestSharpeRatio(t *testing.T) {
	t.Parallel()

	assert.Zero(t, sharpeRatio(nil))
	// zero deviation
	assert.Zero(t, sharpeRatio([]float64{0.01, 0.01, 0.01}))

	// mean 0.01, population std 0.01 -> 1 * sqrt(252)
	got := sharpeRatio([]float64{0.0, 0.02})
	assert.InDelta(t, math.Sqrt(252), got, 1e-9)
}

func TestMaxDrawdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		initial float64
		curve   []EquityPoint
		want    float64
	}{
		{"flat", 1000, curve(1000, 1000), 0},
		{"down from initial peak", 1000, curve(900, 950), 0.10},
		{"peak then trough", 1000, curve(1200, 900, 1100), 0.25},
		{"recovery does not shrink", 1000, curve(1200, 600, 1200), 0.50},
		{"empty", 1000, nil, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, maxDrawdown(tt.initial, tt.curve), 1e-9)
		})
	}
}

func TestBuildReportStatistics(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 1_000_000, risk.DefaultLimits())
	e.equity = curve(1_000_000, 1_010_000, 1_004_000)
	e.trades = []TradeRecord{
		{Action: risk.Buy, Symbol: "A", Value: 100},
		{Action: risk.Sell, Symbol: "A", PnL: 6000},
		{Action: risk.Buy, Symbol: "B", Value: 100},
		{Action: risk.Sell, Symbol: "B", PnL: -2000},
		{Action: risk.Buy, Symbol: "C", Value: 100},
		{Action: risk.Sell, Symbol: "C", PnL: 2000},
	}

	r := e.buildReport()

	assert.InDelta(t, 1_000_000, r.Summary.InitialCapital, 1e-9)
	assert.InDelta(t, 1_004_000, r.Summary.FinalValue, 1e-9)
	assert.InDelta(t, 0.004, r.Summary.TotalReturn, 1e-9)
	assert.InDelta(t, 0.4, r.Summary.TotalReturnPct, 1e-9)

	assert.Equal(t, 3, r.TradeStatistics.TotalTrades)
	assert.InDelta(t, 2.0/3.0, r.TradeStatistics.WinRate, 1e-9)
	assert.InDelta(t, 4.0, r.TradeStatistics.ProfitFactor, 1e-9) // 8000 / 2000
	assert.InDelta(t, 2000, r.TradeStatistics.AvgTrade, 1e-9)

	require.Len(t, r.DailyReturns, 2)
	assert.Len(t, r.EquityCurve, 3)
	assert.Len(t, r.Trades, 6)
}

func TestBuildReportNoLossesProfitFactorZero(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 1_000_000, risk.DefaultLimits())
	e.equity = curve(1_000_000, 1_005_000)
	e.trades = []TradeRecord{
		{Action: risk.Buy, Symbol: "A"},
		{Action: risk.Sell, Symbol: "A", PnL: 5000},
	}

	r := e.buildReport()
	assert.Zero(t, r.TradeStatistics.ProfitFactor)
	assert.InDelta(t, 1.0, r.TradeStatistics.WinRate, 1e-9)
}

func TestBuildReportEmptyRun(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 1_000_000, risk.DefaultLimits())
	r := e.buildReport()

	assert.InDelta(t, 1_000_000, r.Summary.FinalValue, 1e-9)
	assert.Zero(t, r.Summary.TotalReturn)
	assert.Zero(t, r.Summary.SharpeRatio)
	assert.Zero(t, r.TradeStatistics.TotalTrades)
}

func TestReportWriteFile(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 1_000_000, risk.DefaultLimits())
	e.equity = curve(1_000_000, 1_002_000)
	r := e.buildReport()

	dir := t.TempDir()
	path, err := r.WriteFile(dir)
	require.NoError(t, err)
	assert.Contains(t, path, "backtest_report_")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"summary", "trade_statistics", "equity_curve", "trades", "daily_returns"} {
		assert.Contains(t, decoded, key)
	}
}
