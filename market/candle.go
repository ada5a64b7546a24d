// Package market provides OHLCV data types, the tradable symbol universe,
// and the trading calendar.
package market

import "time"

// Candle represents one daily OHLCV (Open, High, Low, Close, Volume) bar.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series is a date-ordered sequence of candles, oldest first.
type Series []Candle

// Last returns the most recent candle. ok is false for an empty series.
func (s Series) Last() (Candle, bool) {
	if len(s) == 0 {
		return Candle{}, false
	}
	return s[len(s)-1], true
}

// Closes returns the close prices in series order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}

// Volumes returns the volumes in series order.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Volume
	}
	return out
}

// Returns computes simple period-over-period returns of the close prices.
// A zero previous close contributes no return.
func (s Series) Returns() []float64 {
	if len(s) < 2 {
		return nil
	}
	out := make([]float64, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		prev := s[i-1].Close
		if prev == 0 {
			continue
		}
		out = append(out, (s[i].Close-prev)/prev)
	}
	return out
}

// Through returns the prefix of the series with candles at or before t.
func (s Series) Through(t time.Time) Series {
	n := len(s)
	for n > 0 && s[n-1].Time.After(t) {
		n--
	}
	return s[:n]
}
