// journal/journal.go
package journal

import "time"

// TradeRecord is one executed fill as persisted to the ledger. Entries
// and exits are separate rows; an exit row carries the realized P&L and
// the reason the position was closed.
type TradeRecord struct {
	TradeID   string
	Date      time.Time
	Symbol    string
	Action    string
	Direction string
	Quantity  int
	Price     float64
	Value     float64
	PnL       float64
	Reason    string
}

// EquitySnapshot is the account state at the end of a session.
type EquitySnapshot struct {
	Time          time.Time
	Cash          float64
	Equity        float64
	OpenPositions int
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards everything. Used when journaling is disabled.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error     { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error                      { return nil }
