// Package indicators provides technical analysis indicators computed over
// daily candle series. Every function is pure and deterministic; insufficient
// history reports ok=false instead of an error or a panic.
package indicators

import "math"

// SMA returns the simple moving average of the last period values.
func SMA(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), true
}

// EMA returns the exponential moving average of the values, seeded with the
// SMA of the first period values.
func EMA(values []float64, period int) (float64, bool) {
	series, ok := emaSeries(values, period)
	if !ok {
		return 0, false
	}
	return series[len(series)-1], true
}

// emaSeries returns the EMA at every index from period-1 onward.
func emaSeries(values []float64, period int) ([]float64, bool) {
	if period <= 0 || len(values) < period {
		return nil, false
	}

	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}
	seed /= float64(period)

	k := 2.0 / (float64(period) + 1)
	out := make([]float64, 0, len(values)-period+1)
	out = append(out, seed)

	ema := seed
	for _, v := range values[period:] {
		ema = (v-ema)*k + ema
		out = append(out, ema)
	}
	return out, true
}

// stdDev returns the population standard deviation of the last period values
// around their mean.
func stdDev(values []float64, period int) (float64, bool) {
	mean, ok := SMA(values, period)
	if !ok {
		return 0, false
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(period)), true
}
