package analyzer

import (
	"math"

	"github.com/rustyeddy/intraday/indicators"
	"github.com/rustyeddy/intraday/market"
)

// RiskMetrics carries the per-symbol risk inputs used for eligibility
// filtering and stop placement.
type RiskMetrics struct {
	// Volatility is the annualized standard deviation of daily returns.
	Volatility float64 `json:"volatility"`
	ATR        float64 `json:"atr"`
	// MaxLoss is the stop level implied by a 2xATR stop below the last close.
	MaxLoss float64 `json:"max_loss"`
}

// RiskMetrics derives volatility and ATR-based loss bounds for the series.
func (a *Analyzer) RiskMetrics(s market.Series, ind *indicators.Set) RiskMetrics {
	var rm RiskMetrics

	returns := s.Returns()
	if len(returns) > 1 {
		mean := 0.0
		for _, r := range returns {
			mean += r
		}
		mean /= float64(len(returns))

		sum := 0.0
		for _, r := range returns {
			d := r - mean
			sum += d * d
		}
		rm.Volatility = math.Sqrt(sum/float64(len(returns)-1)) * math.Sqrt(252)
	}

	if ind != nil && ind.HasATR {
		rm.ATR = ind.ATR
	}

	if last, ok := s.Last(); ok && rm.ATR > 0 {
		rm.MaxLoss = last.Close - 2*rm.ATR
	}
	return rm
}
