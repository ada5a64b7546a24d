package indicators

// Bands holds Bollinger band levels at the most recent bar.
type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// Bollinger computes Bollinger bands: an SMA middle band with upper/lower
// bands mult standard deviations away.
func Bollinger(values []float64, period int, mult float64) (Bands, bool) {
	mid, ok := SMA(values, period)
	if !ok {
		return Bands{}, false
	}
	sd, ok := stdDev(values, period)
	if !ok {
		return Bands{}, false
	}
	return Bands{
		Upper:  mid + mult*sd,
		Middle: mid,
		Lower:  mid - mult*sd,
	}, true
}
