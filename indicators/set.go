package indicators

import "github.com/rustyeddy/intraday/market"

// MinBars is the minimum history a series needs before any indicator set is
// computed at all. Symbols with less are skipped for the cycle.
const MinBars = 20

// Config holds the lookback windows for the full indicator set.
type Config struct {
	RSIPeriod       int     `json:"rsi_period" yaml:"rsi_period"`
	MACDFast        int     `json:"macd_fast" yaml:"macd_fast"`
	MACDSlow        int     `json:"macd_slow" yaml:"macd_slow"`
	MACDSignal      int     `json:"macd_signal" yaml:"macd_signal"`
	BollingerPeriod int     `json:"bollinger_period" yaml:"bollinger_period"`
	BollingerStd    float64 `json:"bollinger_std" yaml:"bollinger_std"`
	StochasticK     int     `json:"stochastic_k" yaml:"stochastic_k"`
	StochasticD     int     `json:"stochastic_d" yaml:"stochastic_d"`
	ATRPeriod       int     `json:"atr_period" yaml:"atr_period"`
	VolumePeriod    int     `json:"volume_period" yaml:"volume_period"`
}

func DefaultConfig() Config {
	return Config{
		RSIPeriod:       14,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		BollingerPeriod: 20,
		BollingerStd:    2,
		StochasticK:     14,
		StochasticD:     3,
		ATRPeriod:       14,
		VolumePeriod:    20,
	}
}

// Set is the full indicator snapshot at a series' most recent bar. Each group
// carries its own availability flag: with a short history some longer-window
// indicators are missing while the rest remain usable.
type Set struct {
	RSI    float64
	HasRSI bool

	MACD    MACDResult
	HasMACD bool

	Bollinger    Bands
	HasBollinger bool

	StochK        float64
	StochD        float64
	HasStochastic bool

	ATR    float64
	HasATR bool

	EMA9       float64
	EMA21      float64
	HasEMAFast bool
	EMA50      float64
	HasEMA50   bool

	SMA20    float64
	HasSMA20 bool
	SMA50    float64
	HasSMA50 bool

	VolumeSMA    float64
	HasVolumeSMA bool
}

// Compute evaluates the full indicator set over the series. Returns nil when
// the series has fewer than MinBars candles.
func Compute(s market.Series, cfg Config) *Set {
	if len(s) < MinBars {
		return nil
	}

	closes := s.Closes()
	set := &Set{}

	set.RSI, set.HasRSI = RSI(closes, cfg.RSIPeriod)
	set.MACD, set.HasMACD = MACD(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	set.Bollinger, set.HasBollinger = Bollinger(closes, cfg.BollingerPeriod, cfg.BollingerStd)
	set.StochK, set.StochD, set.HasStochastic = Stochastic(s, cfg.StochasticK, cfg.StochasticD)
	set.ATR, set.HasATR = ATR(s, cfg.ATRPeriod)

	ema9, ok9 := EMA(closes, 9)
	ema21, ok21 := EMA(closes, 21)
	set.EMA9, set.EMA21, set.HasEMAFast = ema9, ema21, ok9 && ok21
	set.EMA50, set.HasEMA50 = EMA(closes, 50)

	set.SMA20, set.HasSMA20 = SMA(closes, 20)
	set.SMA50, set.HasSMA50 = SMA(closes, 50)

	set.VolumeSMA, set.HasVolumeSMA = SMA(s.Volumes(), cfg.VolumePeriod)

	return set
}
