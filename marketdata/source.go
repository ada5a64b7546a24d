// Package marketdata supplies historical OHLCV series to the engine and the
// live agent. Sources never fail across the boundary: a symbol with no data
// yields an empty series and the caller decides whether that matters.
package marketdata

import (
	"context"
	"time"

	"github.com/rustyeddy/intraday/market"
)

// Source returns the daily history of a symbol up to and including a date.
type Source interface {
	// History returns all available candles for symbol with Time <= through,
	// oldest first. A missing symbol returns an empty series and nil error.
	History(ctx context.Context, symbol string, through time.Time) (market.Series, error)
}
