// Package analyzer turns an indicator snapshot into trading signals, risk
// metrics, and a trend classification. All methods are pure: identical inputs
// always produce identical outputs.
package analyzer

import (
	"github.com/rustyeddy/intraday/indicators"
	"github.com/rustyeddy/intraday/market"
)

// Trend labels the prevailing direction of a symbol.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// Config holds the signal thresholds.
type Config struct {
	RSIOverbought   float64 `json:"rsi_overbought" yaml:"rsi_overbought"`
	RSIOversold     float64 `json:"rsi_oversold" yaml:"rsi_oversold"`
	StochOverbought float64 `json:"stoch_overbought" yaml:"stoch_overbought"`
	StochOversold   float64 `json:"stoch_oversold" yaml:"stoch_oversold"`
	VolumeSurge     float64 `json:"volume_surge" yaml:"volume_surge"`
	TrendBand       float64 `json:"trend_band" yaml:"trend_band"`

	Indicators indicators.Config `json:"indicators" yaml:"indicators"`
}

func DefaultConfig() Config {
	return Config{
		RSIOverbought:   70,
		RSIOversold:     30,
		StochOverbought: 80,
		StochOversold:   20,
		VolumeSurge:     1.5,
		TrendBand:       0.3,
		Indicators:      indicators.DefaultConfig(),
	}
}

// Analyzer evaluates series against the configured thresholds.
type Analyzer struct {
	cfg Config
}

func New(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Indicators computes the indicator set for the series, or nil when the
// series is too short.
func (a *Analyzer) Indicators(s market.Series) *indicators.Set {
	return indicators.Compute(s, a.cfg.Indicators)
}
