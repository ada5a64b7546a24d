package analyzer

import (
	"fmt"
	"math"

	"github.com/rustyeddy/intraday/indicators"
	"github.com/rustyeddy/intraday/market"
)

// Signals is the aggregate trading signal for one symbol at one bar.
// Strength is a signed score in [-1, 1]; Confidence is in [0, 1]. The tag
// slices carry human-readable rationale for each contributing vote.
type Signals struct {
	Strength   float64  `json:"strength"`
	Confidence float64  `json:"confidence"`
	BuyTags    []string `json:"buy_signals"`
	SellTags   []string `json:"sell_signals"`
}

// Signals votes each available indicator bullish or bearish and normalizes
// the tally. Indicators without enough history simply do not vote.
func (a *Analyzer) Signals(s market.Series, ind *indicators.Set) Signals {
	var sig Signals
	if ind == nil {
		return sig
	}
	last, ok := s.Last()
	if !ok {
		return sig
	}

	votes := 0.0
	total := 0

	if ind.HasRSI {
		switch {
		case ind.RSI < a.cfg.RSIOversold:
			sig.BuyTags = append(sig.BuyTags, fmt.Sprintf("RSI oversold: %.2f", ind.RSI))
			votes++
		case ind.RSI > a.cfg.RSIOverbought:
			sig.SellTags = append(sig.SellTags, fmt.Sprintf("RSI overbought: %.2f", ind.RSI))
			votes--
		}
		total++
	}

	if ind.HasMACD {
		if ind.MACD.Line > ind.MACD.Signal {
			sig.BuyTags = append(sig.BuyTags, "MACD bullish crossover")
			votes++
		} else if ind.MACD.Line < ind.MACD.Signal {
			sig.SellTags = append(sig.SellTags, "MACD bearish crossover")
			votes--
		}
		total++
	}

	if ind.HasBollinger {
		switch {
		case last.Close <= ind.Bollinger.Lower:
			sig.BuyTags = append(sig.BuyTags, "price at Bollinger lower band")
			votes++
		case last.Close >= ind.Bollinger.Upper:
			sig.SellTags = append(sig.SellTags, "price at Bollinger upper band")
			votes--
		}
		total++
	}

	if ind.HasEMAFast {
		if ind.EMA9 > ind.EMA21 {
			sig.BuyTags = append(sig.BuyTags, "EMA 9 > EMA 21")
			votes++
		} else {
			sig.SellTags = append(sig.SellTags, "EMA 9 < EMA 21")
			votes--
		}
		total++
	}

	if ind.HasStochastic {
		switch {
		case ind.StochK < a.cfg.StochOversold && ind.StochD < a.cfg.StochOversold:
			sig.BuyTags = append(sig.BuyTags, "stochastic oversold")
			votes++
		case ind.StochK > a.cfg.StochOverbought && ind.StochD > a.cfg.StochOverbought:
			sig.SellTags = append(sig.SellTags, "stochastic overbought")
			votes--
		}
		total++
	}

	// A volume surge reinforces whichever way the tally already leans.
	if ind.HasVolumeSMA && last.Volume > ind.VolumeSMA*a.cfg.VolumeSurge {
		if votes > 0 {
			sig.BuyTags = append(sig.BuyTags, "high volume confirmation")
			votes += 0.5
		} else if votes < 0 {
			sig.SellTags = append(sig.SellTags, "high volume confirmation")
			votes -= 0.5
		}
		total++
	}

	if total > 0 {
		sig.Strength = votes / float64(total)
		sig.Confidence = math.Min(math.Abs(votes)/float64(total), 1)
	}
	return sig
}
