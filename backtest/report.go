package backtest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Summary is the headline block of a run report.
type Summary struct {
	InitialCapital float64 `json:"initial_capital"`
	FinalValue     float64 `json:"final_value"`
	TotalReturn    float64 `json:"total_return"`
	TotalReturnPct float64 `json:"total_return_pct"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	MaxDrawdown    float64 `json:"max_drawdown"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
}

// TradeStatistics aggregates the closed trades of a run.
type TradeStatistics struct {
	TotalTrades  int     `json:"total_trades"`
	WinRate      float64 `json:"win_rate"`
	ProfitFactor float64 `json:"profit_factor"`
	AvgTrade     float64 `json:"avg_trade"`
}

// Report is the full output of one backtest run. The JSON shape is
// consumed by downstream analysis tools and must stay stable.
type Report struct {
	Summary         Summary         `json:"summary"`
	TradeStatistics TradeStatistics `json:"trade_statistics"`
	EquityCurve     []EquityPoint   `json:"equity_curve"`
	Trades          []TradeRecord   `json:"trades"`
	DailyReturns    []float64       `json:"daily_returns"`
}

// WriteFile serializes the report to a timestamped JSON artifact in dir,
// creating dir if needed, and returns the path written.
func (r *Report) WriteFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("report: %w", err)
	}

	name := fmt.Sprintf("backtest_report_%s.json", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("report: %w", err)
	}
	return path, nil
}
