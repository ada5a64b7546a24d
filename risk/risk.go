// Package risk owns portfolio-level risk state: tracked lots, daily P&L and
// trade counters, exposure and sector-concentration checks, and stop-loss /
// take-profit bookkeeping. The Manager is the sole arbiter of whether a
// proposed trade is admissible; it never touches the engine's equity curve.
package risk

// Action is the ledger-facing side of a trade. Opens are recorded as BUY and
// closes as SELL regardless of position direction.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// Direction is the side of an open position.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// Limits is the immutable set of risk constraints a Manager enforces.
type Limits struct {
	// MaxPositionValue is the absolute cap on a single position's value.
	MaxPositionValue float64 `json:"max_position_value" yaml:"max_position_value"`
	// StopLossPct and TakeProfitPct are percentages (2.0 means 2%).
	StopLossPct   float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	TakeProfitPct float64 `json:"take_profit_pct" yaml:"take_profit_pct"`
	// MaxDailyLoss halts new trades once the day's realized loss passes it.
	MaxDailyLoss   float64 `json:"max_daily_loss" yaml:"max_daily_loss"`
	MaxDailyTrades int     `json:"max_daily_trades" yaml:"max_daily_trades"`
	// MaxPortfolioRisk is the fraction of portfolio value risked per trade.
	MaxPortfolioRisk float64 `json:"max_portfolio_risk" yaml:"max_portfolio_risk"`
	// MaxExposurePct caps summed open position value against portfolio value.
	MaxExposurePct float64 `json:"max_exposure_pct" yaml:"max_exposure_pct"`
	// MaxPositionPct caps one position's value against portfolio value.
	MaxPositionPct float64 `json:"max_position_pct" yaml:"max_position_pct"`
	// MaxSectorPositions caps concurrent positions per sector. This stands in
	// for a statistical correlation check on purpose; see market.Sector.
	MaxSectorPositions int `json:"max_sector_positions" yaml:"max_sector_positions"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxPositionValue:   100_000,
		StopLossPct:        2.0,
		TakeProfitPct:      3.0,
		MaxDailyLoss:       50_000,
		MaxDailyTrades:     10,
		MaxPortfolioRisk:   0.02,
		MaxExposurePct:     0.80,
		MaxPositionPct:     0.10,
		MaxSectorPositions: 3,
	}
}

// Rejection reasons reported by ValidateTrade, first failing check wins.
const (
	ReasonDailyLoss     = "daily loss limit exceeded"
	ReasonDailyTrades   = "daily trade limit exceeded"
	ReasonExposure      = "portfolio exposure limit exceeded"
	ReasonSector        = "sector concentration limit exceeded"
	ReasonPositionValue = "position value exceeds maximum limit"
	ReasonPositionPct   = "position too large relative to portfolio"
	ReasonInvalidOrder  = "invalid order parameters"
	ReasonAccepted      = "trade validated"
)
