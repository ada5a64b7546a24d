package backtest

import (
	"fmt"
	"time"

	"github.com/rustyeddy/intraday/analyzer"
	"github.com/rustyeddy/intraday/risk"
)

// CloseReason tags why a position left the book.
type CloseReason string

const (
	ReasonStopLoss      CloseReason = "StopLoss"
	ReasonTakeProfit    CloseReason = "TakeProfit"
	ReasonBearishSignal CloseReason = "BearishSignal"
	ReasonBullishSignal CloseReason = "BullishSignal"
	ReasonEndOfDay      CloseReason = "EndOfDay"
)

// Position is one open lot. Exactly one per symbol at a time; constructed
// only through NewPosition so the field invariants hold for the lifetime
// of the lot.
type Position struct {
	Symbol        string
	Direction     risk.Direction
	Quantity      int
	EntryPrice    float64
	EntryDate     time.Time
	StopLoss      *float64
	TakeProfit    *float64
	UnrealizedPnL float64
}

// NewPosition validates and builds an open lot.
func NewPosition(symbol string, d risk.Direction, quantity int, entry float64, date time.Time) (*Position, error) {
	if symbol == "" {
		return nil, fmt.Errorf("position: empty symbol")
	}
	if d != risk.Long && d != risk.Short {
		return nil, fmt.Errorf("position %s: invalid direction %q", symbol, d)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("position %s: quantity must be positive, got %d", symbol, quantity)
	}
	if entry <= 0 {
		return nil, fmt.Errorf("position %s: entry price must be positive, got %f", symbol, entry)
	}
	return &Position{
		Symbol:     symbol,
		Direction:  d,
		Quantity:   quantity,
		EntryPrice: entry,
		EntryDate:  date,
	}, nil
}

// MarkToMarket refreshes and returns the unrealized P&L at price.
func (p *Position) MarkToMarket(price float64) float64 {
	if p.Direction == risk.Short {
		p.UnrealizedPnL = (p.EntryPrice - price) * float64(p.Quantity)
	} else {
		p.UnrealizedPnL = (price - p.EntryPrice) * float64(p.Quantity)
	}
	return p.UnrealizedPnL
}

// pnlAt is MarkToMarket without mutating the lot.
func (p *Position) pnlAt(price float64) float64 {
	if p.Direction == risk.Short {
		return (p.EntryPrice - price) * float64(p.Quantity)
	}
	return (price - p.EntryPrice) * float64(p.Quantity)
}

// TradeRecord is one immutable ledger row. Opens are BUY rows; closes are
// SELL rows carrying realized pnl and the close reason.
type TradeRecord struct {
	TradeID   string         `json:"trade_id"`
	Date      time.Time      `json:"date"`
	Symbol    string         `json:"symbol"`
	Action    risk.Action    `json:"action"`
	Direction risk.Direction `json:"direction"`
	Quantity  int            `json:"quantity"`
	Price     float64        `json:"price"`
	Value     float64        `json:"value"`
	PnL       float64        `json:"pnl"`
	Reason    CloseReason    `json:"reason,omitempty"`
}

// Candidate is a scored trade opportunity, scoped to one scan cycle.
type Candidate struct {
	Symbol  string
	Price   float64
	Volume  float64
	Signals analyzer.Signals
	Risk    analyzer.RiskMetrics
	Trend   analyzer.TrendAnalysis
	Score   float64
}

// EquityPoint is one equity-curve sample, appended once per trading date.
type EquityPoint struct {
	Date   time.Time `json:"date"`
	Equity float64   `json:"equity"`
}
