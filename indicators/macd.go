package indicators

// MACDResult holds the MACD line, its signal line, and the histogram
// (line minus signal) at the most recent bar.
type MACDResult struct {
	Line      float64
	Signal    float64
	Histogram float64
}

// MACD computes the Moving Average Convergence Divergence of the values.
// Requires slow+signal-1 values so the signal line has a full seed.
func MACD(values []float64, fast, slow, signal int) (MACDResult, bool) {
	if fast <= 0 || slow <= fast || signal <= 0 {
		return MACDResult{}, false
	}
	if len(values) < slow+signal-1 {
		return MACDResult{}, false
	}

	fastSeries, _ := emaSeries(values, fast)
	slowSeries, _ := emaSeries(values, slow)

	// Align the two EMA series on the slow start and form the MACD line.
	offset := slow - fast
	line := make([]float64, len(slowSeries))
	for i := range slowSeries {
		line[i] = fastSeries[i+offset] - slowSeries[i]
	}

	signalSeries, ok := emaSeries(line, signal)
	if !ok {
		return MACDResult{}, false
	}

	m := line[len(line)-1]
	s := signalSeries[len(signalSeries)-1]
	return MACDResult{Line: m, Signal: s, Histogram: m - s}, true
}
