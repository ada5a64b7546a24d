package indicators

import (
	"math"

	"github.com/rustyeddy/intraday/market"
)

// ATR computes the Average True Range with Wilder smoothing. Needs period+1
// candles because the true range references the previous close.
func ATR(s market.Series, period int) (float64, bool) {
	if period <= 0 || len(s) < period+1 {
		return 0, false
	}

	trs := make([]float64, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		trs = append(trs, trueRange(s[i], s[i-1]))
	}

	atr := 0.0
	for _, tr := range trs[:period] {
		atr += tr
	}
	atr /= float64(period)

	for _, tr := range trs[period:] {
		atr = (atr*float64(period-1) + tr) / float64(period)
	}
	return atr, true
}

func trueRange(current, previous market.Candle) float64 {
	highLow := current.High - current.Low
	highClose := math.Abs(current.High - previous.Close)
	lowClose := math.Abs(current.Low - previous.Close)
	return math.Max(highLow, math.Max(highClose, lowClose))
}
