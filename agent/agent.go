// Package agent schedules the trading engine against the wall clock. The
// backtest engine stays a pure synchronous loop; the agent is the live
// variant, driving the same cycle from a ticker with explicit
// cancellation. All engine state is owned by the agent's single loop
// goroutine; snapshot accessors serialize through the agent's mutex.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rustyeddy/intraday/backtest"
	"github.com/rustyeddy/intraday/market"
)

type Agent struct {
	engine   *backtest.Engine
	cal      *market.Calendar
	interval time.Duration
	log      *slog.Logger

	mu        sync.Mutex
	inSession bool
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
}

func New(engine *backtest.Engine, cal *market.Calendar, interval time.Duration, log *slog.Logger) *Agent {
	if cal == nil {
		cal = market.DefaultCalendar()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &Agent{
		engine:   engine,
		cal:      cal,
		interval: interval,
		log:      log,
	}
}

// Start launches the trading loop. It returns an error if the agent is
// already running.
func (a *Agent) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return fmt.Errorf("agent: already running")
	}
	if a.engine == nil {
		return fmt.Errorf("agent: engine is required")
	}

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})
	a.running = true

	go a.loop(ctx)

	a.log.Info("agent started", "interval", a.interval.String())
	return nil
}

// Stop cancels the loop and blocks until it has drained. Safe to call
// when the agent is not running.
func (a *Agent) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	cancel, done := a.cancel, a.done
	a.mu.Unlock()

	cancel()
	<-done

	a.mu.Lock()
	a.running = false
	a.mu.Unlock()

	a.log.Info("agent stopped")
}

func (a *Agent) loop(ctx context.Context) {
	defer close(a.done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.shutdown()
			return
		case now := <-ticker.C:
			a.step(ctx, now)
		}
	}
}

// step runs one scheduled pass. Session boundaries come from the
// calendar: the first tick inside market hours opens the session, the
// first tick after close force-closes the book.
func (a *Agent) step(ctx context.Context, now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	open := a.cal.IsOpen(now)
	switch {
	case open && !a.inSession:
		a.log.Info("session open", "time", now.Format(time.RFC3339))
		a.engine.StartSession()
		a.inSession = true
		a.engine.Cycle(ctx, now)
	case open:
		a.engine.Cycle(ctx, now)
	case !open && a.inSession:
		a.log.Info("session close", "time", now.Format(time.RFC3339))
		a.engine.CloseSession(ctx, now)
		a.inSession = false
	}
}

// shutdown closes any open session before the loop exits so no position
// survives a cancelled agent.
func (a *Agent) shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.inSession {
		a.engine.CloseSession(context.Background(), time.Now())
		a.inSession = false
	}
}

// Running reports whether the loop is active.
func (a *Agent) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Positions snapshots the open book.
func (a *Agent) Positions() []backtest.Position {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.OpenPositions()
}

// Report snapshots the run-to-date performance report.
func (a *Agent) Report() *backtest.Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Report()
}
