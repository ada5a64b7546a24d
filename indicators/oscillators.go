package indicators

import "github.com/rustyeddy/intraday/market"

// RSI returns the Wilder-smoothed Relative Strength Index over the close
// values. Requires period+1 values.
func RSI(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period+1 {
		return 0, false
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := values[i] - values[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(values); i++ {
		d := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// Stochastic returns the %K and %D lines of the stochastic oscillator.
// %K compares the last close to the kPeriod high/low range; %D is the SMA of
// the last dPeriod %K values.
func Stochastic(s market.Series, kPeriod, dPeriod int) (k, d float64, ok bool) {
	if kPeriod <= 0 || dPeriod <= 0 || len(s) < kPeriod+dPeriod-1 {
		return 0, 0, false
	}

	kAt := func(end int) (float64, bool) {
		lo := s[end].Low
		hi := s[end].High
		for _, c := range s[end-kPeriod+1 : end+1] {
			if c.Low < lo {
				lo = c.Low
			}
			if c.High > hi {
				hi = c.High
			}
		}
		if hi == lo {
			return 0, false
		}
		return (s[end].Close - lo) / (hi - lo) * 100, true
	}

	last := len(s) - 1
	k, ok = kAt(last)
	if !ok {
		return 0, 0, false
	}

	sum := 0.0
	for i := 0; i < dPeriod; i++ {
		v, vok := kAt(last - i)
		if !vok {
			return 0, 0, false
		}
		sum += v
	}
	return k, sum / float64(dPeriod), true
}
