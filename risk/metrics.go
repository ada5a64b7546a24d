package risk

import "math"

// Metrics is the portfolio-level risk snapshot.
type Metrics struct {
	TotalValue          float64 `json:"total_value"`
	TotalPnL            float64 `json:"total_pnl"`
	PortfolioVolatility float64 `json:"portfolio_volatility"`
	VaR95               float64 `json:"var_95"`
	MaxDrawdown         float64 `json:"max_drawdown"`
	DailyPnL            float64 `json:"daily_pnl"`
	DailyTrades         int     `json:"daily_trade_count"`
	PositionCount       int     `json:"position_count"`
}

// Report pairs the metrics snapshot with the configured limits and the
// session's current trading status.
type Report struct {
	Metrics Metrics `json:"portfolio_metrics"`
	Limits  Limits  `json:"risk_limits"`
	Status  Status  `json:"current_status"`
}

type Status struct {
	DailyPnL      float64 `json:"daily_pnl"`
	DailyTrades   int     `json:"daily_trade_count"`
	PositionCount int     `json:"position_count"`
	CanTrade      bool    `json:"can_trade"`
}

// PortfolioMetrics computes the risk snapshot and tightens the running max
// drawdown. The drawdown only ever moves further negative: it is updated when
// cumulative realized P&L falls below the stored value and never resets
// within a run.
func (m *Manager) PortfolioMetrics() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	totalValue := 0.0
	for _, lot := range m.lots {
		totalValue += lot.Value
	}

	// Dispersion of position weights scaled by an assumed 20% single-name
	// volatility. Crude, but it is the measure the VaR figure keys off.
	volatility := 0.0
	if n := len(m.lots); n > 0 && totalValue > 0 {
		weights := make([]float64, 0, n)
		mean := 0.0
		for _, lot := range m.lots {
			w := lot.Value / totalValue
			weights = append(weights, w)
			mean += w
		}
		mean /= float64(n)

		sum := 0.0
		for _, w := range weights {
			d := w - mean
			sum += d * d
		}
		volatility = math.Sqrt(sum/float64(n)) * 0.2
	}

	if m.realizedPnL < m.maxDrawdown {
		m.maxDrawdown = m.realizedPnL
	}

	return Metrics{
		TotalValue:          totalValue,
		TotalPnL:            m.realizedPnL,
		PortfolioVolatility: volatility,
		VaR95:               totalValue * volatility * 1.645,
		MaxDrawdown:         m.maxDrawdown,
		DailyPnL:            m.dailyPnL,
		DailyTrades:         m.dailyTrades,
		PositionCount:       len(m.lots),
	}
}

// RiskReport builds the full status report served by the dashboard API.
func (m *Manager) RiskReport() Report {
	metrics := m.PortfolioMetrics()

	m.mu.Lock()
	canTrade := m.checkDailyLimitsLocked()
	m.mu.Unlock()

	return Report{
		Metrics: metrics,
		Limits:  m.limits,
		Status: Status{
			DailyPnL:      metrics.DailyPnL,
			DailyTrades:   metrics.DailyTrades,
			PositionCount: metrics.PositionCount,
			CanTrade:      canTrade,
		},
	}
}
