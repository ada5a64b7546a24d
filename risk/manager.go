package risk

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/rustyeddy/intraday/analyzer"
	"github.com/rustyeddy/intraday/market"
)

// Lot is the Manager's view of one open holding: volume-weighted entry,
// remaining quantity, and the stop/take thresholds attached at entry.
type Lot struct {
	Symbol      string
	Direction   Direction
	Quantity    int
	AvgPrice    float64
	Value       float64
	RealizedPnL float64
	EntryTime   time.Time
	StopLoss    *float64
	TakeProfit  *float64
}

// Manager tracks lots and daily counters and vets every proposed trade.
// All methods are safe for concurrent use; the backtest drives it from a
// single goroutine, the live agent shares it with the HTTP status handlers.
type Manager struct {
	mu     sync.Mutex
	limits Limits
	log    *slog.Logger

	portfolioValue float64
	lots           map[string]*Lot

	dailyPnL    float64
	dailyTrades int

	realizedPnL float64
	maxDrawdown float64
}

// NewManager creates a Manager for a portfolio of the given starting value.
func NewManager(portfolioValue float64, limits Limits, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		limits:         limits,
		log:            log,
		portfolioValue: portfolioValue,
		lots:           make(map[string]*Lot),
	}
}

// Limits returns the configured constraints.
func (m *Manager) Limits() Limits { return m.limits }

// PositionSize computes how many shares to buy so that the capital at risk
// (price move to the stop) is riskFraction of portfolio value, clamped to the
// absolute position-value cap. Degenerate inputs yield 0, never an error.
func (m *Manager) PositionSize(price, riskFraction, stopLossPct float64) int {
	if price <= 0 || stopLossPct <= 0 || riskFraction <= 0 ||
		math.IsNaN(price) || math.IsNaN(riskFraction) || math.IsNaN(stopLossPct) {
		m.log.Debug("degenerate sizing input", "price", price, "risk", riskFraction, "stop_pct", stopLossPct)
		return 0
	}

	m.mu.Lock()
	pv := m.portfolioValue
	m.mu.Unlock()

	riskAmount := pv * riskFraction
	perShareRisk := price * stopLossPct / 100
	qty := riskAmount / perShareRisk

	maxShares := m.limits.MaxPositionValue / price
	if qty > maxShares {
		qty = maxShares
	}
	if math.IsNaN(qty) || math.IsInf(qty, 0) || qty < 0 {
		return 0
	}
	return int(qty)
}

// StopLoss returns the 2xATR protective stop for an entry.
func StopLoss(entry, atr float64, d Direction) float64 {
	if d == Short {
		return entry + 2*atr
	}
	return entry - 2*atr
}

// TakeProfit returns the 3xATR profit target for an entry.
func TakeProfit(entry, atr float64, d Direction) float64 {
	if d == Short {
		return entry - 3*atr
	}
	return entry + 3*atr
}

// ValidateTrade runs the admissibility checks in a fixed order and reports
// the first failure. Malformed input rejects rather than panics.
func (m *Manager) ValidateTrade(symbol string, action Action, quantity int, price float64, rm analyzer.RiskMetrics) (bool, string) {
	if quantity <= 0 || price <= 0 || math.IsNaN(price) {
		m.log.Debug("rejecting malformed order", "symbol", symbol, "qty", quantity, "price", price)
		return false, ReasonInvalidOrder
	}
	_ = rm // volatility already applied upstream in candidate filtering

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dailyPnL < -m.limits.MaxDailyLoss {
		return false, ReasonDailyLoss
	}
	if m.dailyTrades >= m.limits.MaxDailyTrades {
		return false, ReasonDailyTrades
	}

	value := float64(quantity) * price

	exposure := 0.0
	for _, lot := range m.lots {
		exposure += lot.Value
	}
	if exposure+value > m.limits.MaxExposurePct*m.portfolioValue {
		return false, ReasonExposure
	}

	if action == Buy {
		sector := market.Sector(symbol)
		count := 0
		for sym := range m.lots {
			if market.Sector(sym) == sector {
				count++
			}
		}
		if count >= m.limits.MaxSectorPositions {
			return false, ReasonSector
		}
	}

	if value > m.limits.MaxPositionValue {
		return false, ReasonPositionValue
	}
	if value > m.limits.MaxPositionPct*m.portfolioValue {
		return false, ReasonPositionPct
	}

	return true, ReasonAccepted
}

// CheckDailyLimits reports whether the session may still open trades.
func (m *Manager) CheckDailyLimits() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkDailyLimitsLocked()
}

func (m *Manager) checkDailyLimitsLocked() bool {
	if m.dailyPnL < -m.limits.MaxDailyLoss {
		return false
	}
	if m.dailyTrades >= m.limits.MaxDailyTrades {
		return false
	}
	return true
}

// UpdatePosition applies a fill to the tracked lots. BUY opens or extends a
// lot at a volume-weighted average price; SELL realizes P&L against the lot
// (mirrored sign for shorts), shrinking and finally deleting it. The daily
// trade counter increments for every call.
func (m *Manager) UpdatePosition(symbol string, action Action, direction Direction, quantity int, price float64, ts time.Time) {
	if quantity <= 0 || price <= 0 || math.IsNaN(price) {
		m.log.Warn("ignoring malformed fill", "symbol", symbol, "action", action, "qty", quantity, "price", price)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch action {
	case Buy:
		lot, ok := m.lots[symbol]
		if !ok {
			lot = &Lot{Symbol: symbol, Direction: direction}
			m.lots[symbol] = lot
		}
		cost := float64(lot.Quantity)*lot.AvgPrice + float64(quantity)*price
		lot.Quantity += quantity
		lot.AvgPrice = cost / float64(lot.Quantity)
		lot.Value = float64(lot.Quantity) * price
		lot.EntryTime = ts

	case Sell:
		lot, ok := m.lots[symbol]
		if !ok || lot.Quantity == 0 {
			break
		}
		closed := quantity
		if closed > lot.Quantity {
			closed = lot.Quantity
		}

		pnl := (price - lot.AvgPrice) * float64(closed)
		if lot.Direction == Short {
			pnl = (lot.AvgPrice - price) * float64(closed)
		}

		lot.RealizedPnL += pnl
		m.realizedPnL += pnl
		m.dailyPnL += pnl

		lot.Quantity -= closed
		lot.Value = float64(lot.Quantity) * price
		if lot.Quantity == 0 {
			delete(m.lots, symbol)
		}
	}

	m.dailyTrades++
}

// SetBrackets attaches ATR-derived stop-loss and take-profit levels to an
// open lot. A non-positive ATR leaves the lot unprotected.
func (m *Manager) SetBrackets(symbol string, entry, atr float64) {
	if atr <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	lot, ok := m.lots[symbol]
	if !ok {
		return
	}
	stop := StopLoss(entry, atr, lot.Direction)
	take := TakeProfit(entry, atr, lot.Direction)
	lot.StopLoss = &stop
	lot.TakeProfit = &take
}

// CheckStopLoss reports whether price has crossed the lot's protective stop.
// False when there is no lot or no stop.
func (m *Manager) CheckStopLoss(symbol string, price float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	lot, ok := m.lots[symbol]
	if !ok || lot.StopLoss == nil {
		return false
	}
	if lot.Direction == Short {
		return price >= *lot.StopLoss
	}
	return price <= *lot.StopLoss
}

// CheckTakeProfit reports whether price has reached the lot's profit target.
func (m *Manager) CheckTakeProfit(symbol string, price float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	lot, ok := m.lots[symbol]
	if !ok || lot.TakeProfit == nil {
		return false
	}
	if lot.Direction == Short {
		return price <= *lot.TakeProfit
	}
	return price >= *lot.TakeProfit
}

// ResetDailyMetrics zeroes the per-session counters. Called exactly once at
// the start of each simulated session.
func (m *Manager) ResetDailyMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dailyPnL = 0
	m.dailyTrades = 0
}

// Lot returns a copy of the tracked lot for symbol.
func (m *Manager) Lot(symbol string) (Lot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lot, ok := m.lots[symbol]
	if !ok {
		return Lot{}, false
	}
	return *lot, true
}

// DailyPnL returns the session's realized profit and loss so far.
func (m *Manager) DailyPnL() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dailyPnL
}

// DailyTrades returns the session's trade count so far.
func (m *Manager) DailyTrades() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dailyTrades
}
