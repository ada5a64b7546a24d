package analyzer

import (
	"math"

	"github.com/rustyeddy/intraday/indicators"
	"github.com/rustyeddy/intraday/market"
)

// TrendAnalysis classifies a symbol's prevailing direction and reports
// Bollinger-derived support/resistance levels.
type TrendAnalysis struct {
	Trend      Trend   `json:"trend"`
	Strength   float64 `json:"strength"`
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`
}

// Trend votes the EMA stack, price-versus-SMA ordering, and MACD sign, then
// classifies the normalized tally against the configured band.
func (a *Analyzer) Trend(s market.Series, ind *indicators.Set) TrendAnalysis {
	ta := TrendAnalysis{Trend: TrendNeutral}
	if ind == nil {
		return ta
	}
	last, ok := s.Last()
	if !ok {
		return ta
	}

	votes := 0
	total := 0

	if ind.HasEMAFast && ind.HasEMA50 {
		if ind.EMA9 > ind.EMA21 && ind.EMA21 > ind.EMA50 {
			votes++
		} else if ind.EMA9 < ind.EMA21 && ind.EMA21 < ind.EMA50 {
			votes--
		}
		total++
	}

	if ind.HasSMA20 && ind.HasSMA50 {
		if last.Close > ind.SMA20 && ind.SMA20 > ind.SMA50 {
			votes++
		} else if last.Close < ind.SMA20 && ind.SMA20 < ind.SMA50 {
			votes--
		}
		total++
	}

	if ind.HasMACD {
		if ind.MACD.Line > 0 {
			votes++
		} else {
			votes--
		}
		total++
	}

	if total > 0 {
		strength := float64(votes) / float64(total)
		switch {
		case strength > a.cfg.TrendBand:
			ta.Trend = TrendBullish
			ta.Strength = strength
		case strength < -a.cfg.TrendBand:
			ta.Trend = TrendBearish
			ta.Strength = math.Abs(strength)
		default:
			ta.Trend = TrendNeutral
			ta.Strength = math.Abs(strength)
		}
	}

	if ind.HasBollinger {
		ta.Support = ind.Bollinger.Lower
		ta.Resistance = ind.Bollinger.Upper
	}
	return ta
}
