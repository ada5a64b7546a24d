package backtest

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/rustyeddy/intraday/analyzer"
	"github.com/rustyeddy/intraday/indicators"
	"github.com/rustyeddy/intraday/internal/id"
	"github.com/rustyeddy/intraday/journal"
	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/marketdata"
	"github.com/rustyeddy/intraday/risk"
)

// Config controls the simulation loop. Limits that belong to the risk
// checks live in risk.Limits; these are the engine's own knobs.
type Config struct {
	InitialCapital   float64 `json:"initial_capital" yaml:"initial_capital"`
	MaxOpenPositions int     `json:"max_open_positions" yaml:"max_open_positions"`
	MinPrice         float64 `json:"min_price" yaml:"min_price"`
	MinVolume        float64 `json:"min_volume" yaml:"min_volume"`
	MinStrength      float64 `json:"min_strength" yaml:"min_strength"`
	MaxVolatility    float64 `json:"max_volatility" yaml:"max_volatility"`
}

func DefaultConfig() Config {
	return Config{
		InitialCapital:   1_000_000,
		MaxOpenPositions: 5,
		MinPrice:         100,
		MinVolume:        100_000,
		MinStrength:      0.3,
		MaxVolatility:    0.5,
	}
}

// Engine simulates intraday trading over a range of dates. All state is
// owned by the single goroutine driving Run; nothing here locks.
type Engine struct {
	cfg     Config
	source  marketdata.Source
	an      *analyzer.Analyzer
	rm      *risk.Manager
	cal     *market.Calendar
	jrnl    journal.Journal
	log     *slog.Logger
	symbols []string

	cash      float64
	positions map[string]*Position
	trades    []TradeRecord
	equity    []EquityPoint
}

func NewEngine(cfg Config, src marketdata.Source, an *analyzer.Analyzer, rm *risk.Manager, symbols []string, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		cfg:       cfg,
		source:    src,
		an:        an,
		rm:        rm,
		cal:       market.DefaultCalendar(),
		jrnl:      journal.Nop{},
		log:       log,
		symbols:   symbols,
		cash:      cfg.InitialCapital,
		positions: make(map[string]*Position),
	}
}

// SetJournal replaces the default no-op journal. Call before Run.
func (e *Engine) SetJournal(j journal.Journal) {
	if j != nil {
		e.jrnl = j
	}
}

// SetCalendar replaces the default trading calendar. Call before Run.
func (e *Engine) SetCalendar(c *market.Calendar) {
	if c != nil {
		e.cal = c
	}
}

// Run simulates every trading date in [start, end] and returns the
// aggregated report. The only fatal errors are misconfiguration; anything
// that goes wrong for one symbol or one date is logged and skipped.
//
// Cancelling ctx stops the run between dates; the report then covers the
// dates completed so far and the context error is returned alongside it.
func (e *Engine) Run(ctx context.Context, start, end time.Time) (*Report, error) {
	if e.source == nil {
		return nil, fmt.Errorf("backtest: data source is required")
	}
	if e.an == nil || e.rm == nil {
		return nil, fmt.Errorf("backtest: analyzer and risk manager are required")
	}
	if end.Before(start) {
		return nil, fmt.Errorf("backtest: end %s is before start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	dates := e.cal.TradingDates(start, end)
	if len(dates) == 0 {
		return nil, fmt.Errorf("backtest: no trading dates between %s and %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	e.log.Info("backtest starting",
		"start", dates[0].Format("2006-01-02"),
		"end", dates[len(dates)-1].Format("2006-01-02"),
		"days", len(dates),
		"symbols", len(e.symbols),
		"capital", e.cfg.InitialCapital)

	for _, date := range dates {
		if err := ctx.Err(); err != nil {
			e.log.Warn("backtest cancelled", "completed_days", len(e.equity))
			return e.buildReport(), err
		}
		e.runDay(ctx, date)
	}

	return e.buildReport(), nil
}

// runDay executes the seven per-date stages in order. Errors inside a
// stage never escape; the date always completes and contributes an
// equity point.
func (e *Engine) runDay(ctx context.Context, date time.Time) {
	e.rm.ResetDailyMetrics()

	histories := e.fetch(ctx, date.Add(24*time.Hour-time.Nanosecond))
	candidates := e.scan(histories)
	e.execute(date, candidates)
	e.monitor(date, histories)
	e.closeAll(date, histories)
	e.snapshotEquity(date)
}

// snapshotEquity appends the equity-curve point for date and journals it.
func (e *Engine) snapshotEquity(date time.Time) {
	equity := e.cash
	for _, p := range e.positions {
		equity += p.UnrealizedPnL
	}
	e.equity = append(e.equity, EquityPoint{Date: date, Equity: equity})

	if err := e.jrnl.RecordEquity(journal.EquitySnapshot{
		Time:          date,
		Cash:          e.cash,
		Equity:        equity,
		OpenPositions: len(e.positions),
	}); err != nil {
		e.log.Warn("journal equity failed", "date", date.Format("2006-01-02"), "error", err)
	}
}

// fetch pulls history through the given instant for every universe
// symbol. Symbols with errors, no data, or fewer than the indicator
// minimum are skipped for this cycle only.
func (e *Engine) fetch(ctx context.Context, through time.Time) map[string]market.Series {
	out := make(map[string]market.Series, len(e.symbols))
	for _, sym := range e.symbols {
		s, err := e.source.History(ctx, sym, through)
		if err != nil {
			e.log.Warn("history fetch failed", "symbol", sym, "error", err)
			continue
		}
		if len(s) < indicators.MinBars {
			continue
		}
		out[sym] = s
	}
	return out
}

// scan evaluates each symbol in universe order, applies the eligibility
// filter, and returns candidates sorted descending by score. The sort is
// stable so ties keep their scan order.
func (e *Engine) scan(histories map[string]market.Series) []Candidate {
	var out []Candidate
	for _, sym := range e.symbols {
		s, ok := histories[sym]
		if !ok {
			continue
		}
		c, ok := e.evaluate(sym, s)
		if !ok {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func (e *Engine) evaluate(sym string, s market.Series) (Candidate, bool) {
	ind := e.an.Indicators(s)
	if ind == nil {
		return Candidate{}, false
	}
	last, ok := s.Last()
	if !ok {
		return Candidate{}, false
	}

	sig := e.an.Signals(s, ind)
	rmx := e.an.RiskMetrics(s, ind)
	ta := e.an.Trend(s, ind)

	if last.Close < e.cfg.MinPrice ||
		last.Volume < e.cfg.MinVolume ||
		math.Abs(sig.Strength) < e.cfg.MinStrength ||
		rmx.Volatility > e.cfg.MaxVolatility ||
		ta.Trend == analyzer.TrendNeutral {
		return Candidate{}, false
	}

	return Candidate{
		Symbol:  sym,
		Price:   last.Close,
		Volume:  last.Volume,
		Signals: sig,
		Risk:    rmx,
		Trend:   ta,
		Score:   Score(sig, ta, rmx),
	}, true
}

// Score is the composite candidate ranking. It is a pure function of its
// inputs: signal strength (0.4), confidence (0.2), trend alignment (0.2)
// and a volatility penalty complement (0.2). Degenerate volatility maps
// to a neutral score contribution rather than NaN.
func Score(sig analyzer.Signals, ta analyzer.TrendAnalysis, rm analyzer.RiskMetrics) float64 {
	trendTerm := 0.0
	switch ta.Trend {
	case analyzer.TrendBullish:
		trendTerm = ta.Strength
	case analyzer.TrendBearish:
		trendTerm = -ta.Strength
	}

	vol := rm.Volatility
	if math.IsNaN(vol) || vol < 0 {
		vol = 0
	}
	if vol > 1 {
		vol = 1
	}

	score := 0.4*sig.Strength + 0.2*sig.Confidence + 0.2*trendTerm + 0.2*(1-vol)
	if math.IsNaN(score) {
		return 0
	}
	return score
}

// execute opens up to MaxOpenPositions top-ranked candidates, skipping
// symbols already in the book. Every open passes Risk Manager
// admissibility first; rejections are logged, not errors.
func (e *Engine) execute(date time.Time, candidates []Candidate) {
	opened := 0
	limits := e.rm.Limits()

	for _, c := range candidates {
		if opened >= e.cfg.MaxOpenPositions {
			break
		}
		if _, open := e.positions[c.Symbol]; open {
			continue
		}
		if !e.rm.CheckDailyLimits() {
			e.log.Info("daily limits reached, no further opens",
				"date", date.Format("2006-01-02"))
			break
		}

		var dir risk.Direction
		switch {
		case c.Signals.Strength > e.cfg.MinStrength:
			dir = risk.Long
		case c.Signals.Strength < -e.cfg.MinStrength:
			dir = risk.Short
		default:
			continue
		}

		qty := e.rm.PositionSize(c.Price, limits.MaxPortfolioRisk, limits.StopLossPct)
		if qty <= 0 {
			continue
		}

		value := float64(qty) * c.Price
		if value > e.cash {
			e.log.Debug("insufficient cash",
				"symbol", c.Symbol, "value", value, "cash", e.cash)
			continue
		}

		ok, reason := e.rm.ValidateTrade(c.Symbol, risk.Buy, qty, c.Price, c.Risk)
		if !ok {
			e.log.Debug("trade rejected", "symbol", c.Symbol, "reason", reason)
			continue
		}

		pos, err := NewPosition(c.Symbol, dir, qty, c.Price, date)
		if err != nil {
			e.log.Warn("position construction failed", "symbol", c.Symbol, "error", err)
			continue
		}
		if c.Risk.ATR > 0 {
			sl := risk.StopLoss(c.Price, c.Risk.ATR, dir)
			tp := risk.TakeProfit(c.Price, c.Risk.ATR, dir)
			pos.StopLoss = &sl
			pos.TakeProfit = &tp
		}

		e.cash -= value
		e.positions[c.Symbol] = pos
		e.rm.UpdatePosition(c.Symbol, risk.Buy, dir, qty, c.Price, date)
		e.rm.SetBrackets(c.Symbol, c.Price, c.Risk.ATR)

		e.appendTrade(TradeRecord{
			TradeID:   id.New(),
			Date:      date,
			Symbol:    c.Symbol,
			Action:    risk.Buy,
			Direction: dir,
			Quantity:  qty,
			Price:     c.Price,
			Value:     value,
		})
		opened++

		e.log.Info("position opened",
			"symbol", c.Symbol, "direction", string(dir),
			"quantity", qty, "price", c.Price, "score", c.Score)
	}
}

// monitor marks every open position to market and applies the exit
// checks in strict order: stop-loss, take-profit, opposite signal. The
// first hit closes the lot and the rest are skipped for that symbol.
func (e *Engine) monitor(date time.Time, histories map[string]market.Series) {
	for _, sym := range e.openSymbols() {
		pos, ok := e.positions[sym]
		if !ok {
			continue
		}
		s, ok := histories[sym]
		if !ok {
			continue
		}
		last, ok := s.Last()
		if !ok {
			continue
		}
		price := last.Close
		pos.MarkToMarket(price)

		switch {
		case e.rm.CheckStopLoss(sym, price):
			e.closePosition(pos, price, date, ReasonStopLoss)
		case e.rm.CheckTakeProfit(sym, price):
			e.closePosition(pos, price, date, ReasonTakeProfit)
		default:
			ind := e.an.Indicators(s)
			if ind == nil {
				continue
			}
			sig := e.an.Signals(s, ind)
			if reason, hit := oppositeSignalExit(pos.Direction, sig.Strength, e.cfg.MinStrength); hit {
				e.closePosition(pos, price, date, reason)
			}
		}
	}
}

// oppositeSignalExit reports whether a signal flip past the threshold
// closes a held position, and under which reason.
func oppositeSignalExit(d risk.Direction, strength, threshold float64) (CloseReason, bool) {
	if d == risk.Long && strength < -threshold {
		return ReasonBearishSignal, true
	}
	if d == risk.Short && strength > threshold {
		return ReasonBullishSignal, true
	}
	return "", false
}

// closeAll force-closes everything still open at session end. If a
// symbol has no data for the date its entry price is used, making the
// close flat.
func (e *Engine) closeAll(date time.Time, histories map[string]market.Series) {
	for _, sym := range e.openSymbols() {
		pos, ok := e.positions[sym]
		if !ok {
			continue
		}
		price := pos.EntryPrice
		if s, ok := histories[sym]; ok {
			if last, ok := s.Last(); ok {
				price = last.Close
			}
		}
		e.closePosition(pos, price, date, ReasonEndOfDay)
	}
}

func (e *Engine) closePosition(pos *Position, price float64, date time.Time, reason CloseReason) {
	pnl := pos.pnlAt(price)
	entryValue := float64(pos.Quantity) * pos.EntryPrice

	e.cash += entryValue + pnl
	e.rm.UpdatePosition(pos.Symbol, risk.Sell, pos.Direction, pos.Quantity, price, date)
	delete(e.positions, pos.Symbol)

	e.appendTrade(TradeRecord{
		TradeID:   id.New(),
		Date:      date,
		Symbol:    pos.Symbol,
		Action:    risk.Sell,
		Direction: pos.Direction,
		Quantity:  pos.Quantity,
		Price:     price,
		Value:     float64(pos.Quantity) * price,
		PnL:       pnl,
		Reason:    reason,
	})

	e.log.Info("position closed",
		"symbol", pos.Symbol, "direction", string(pos.Direction),
		"price", price, "pnl", pnl, "reason", string(reason))
}

func (e *Engine) appendTrade(tr TradeRecord) {
	e.trades = append(e.trades, tr)
	if err := e.jrnl.RecordTrade(journal.TradeRecord{
		TradeID:   tr.TradeID,
		Date:      tr.Date,
		Symbol:    tr.Symbol,
		Action:    string(tr.Action),
		Direction: string(tr.Direction),
		Quantity:  tr.Quantity,
		Price:     tr.Price,
		Value:     tr.Value,
		PnL:       tr.PnL,
		Reason:    string(tr.Reason),
	}); err != nil {
		e.log.Warn("journal trade failed", "trade_id", tr.TradeID, "error", err)
	}
}

// openSymbols returns the open book in sorted order so monitoring and
// closing are deterministic across runs.
func (e *Engine) openSymbols() []string {
	syms := make([]string, 0, len(e.positions))
	for sym := range e.positions {
		syms = append(syms, sym)
	}
	sort.Strings(syms)
	return syms
}

// StartSession resets the daily risk counters. The live agent calls
// this when a new trading session opens; Run does the equivalent at the
// top of each simulated date.
func (e *Engine) StartSession() {
	e.rm.ResetDailyMetrics()
}

// Cycle runs one live pass at now: fetch fresh history, scan for
// candidates, check exits on the open book, then open new positions.
func (e *Engine) Cycle(ctx context.Context, now time.Time) {
	histories := e.fetch(ctx, now)
	candidates := e.scan(histories)
	e.monitor(now, histories)
	e.execute(now, candidates)
}

// CloseSession force-closes the book at the last available prices and
// records the session's equity point.
func (e *Engine) CloseSession(ctx context.Context, now time.Time) {
	histories := e.fetch(ctx, now)
	e.closeAll(now, histories)
	e.snapshotEquity(now)
}

// Report aggregates the activity so far. Safe to call mid-run between
// cycles; the returned report is a copy.
func (e *Engine) Report() *Report {
	return e.buildReport()
}

// Cash returns the current uninvested capital.
func (e *Engine) Cash() float64 { return e.cash }

// OpenPositions returns a snapshot copy of the open book.
func (e *Engine) OpenPositions() []Position {
	out := make([]Position, 0, len(e.positions))
	for _, sym := range e.openSymbols() {
		out = append(out, *e.positions[sym])
	}
	return out
}
