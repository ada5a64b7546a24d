package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/intraday/analyzer"
	"github.com/rustyeddy/intraday/backtest"
	"github.com/rustyeddy/intraday/config"
	"github.com/rustyeddy/intraday/internal/util"
	"github.com/rustyeddy/intraday/journal"
	"github.com/rustyeddy/intraday/marketdata"
	"github.com/rustyeddy/intraday/risk"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "intraday",
	Short: "An intraday equity trading simulator and research platform",
	Long: `Intraday is a trading simulator and research platform for equity markets.

It provides tools for:
  - Backtesting a signal-driven intraday strategy over historical data
  - Scanning a symbol universe for scored trade candidates
  - Running a live-style trading agent with a dashboard API
  - Risk-constrained position sizing and exposure limits
  - Trade and equity journaling to SQLite or CSV`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
}

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgFile)
}

func newSource(cfg *config.Config) (marketdata.Source, error) {
	switch cfg.Data.Source {
	case "csv":
		return marketdata.NewCSVSource(cfg.Data.CSVDir), nil
	case "synthetic":
		start := time.Now().AddDate(0, -6, 0)
		return marketdata.NewSyntheticSource(cfg.Data.Seed, start, 260), nil
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}

func newJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	case "csv":
		return journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	default:
		return journal.Nop{}, nil
	}
}

// app bundles the wired components a command needs. Close releases the
// journal.
type app struct {
	engine *backtest.Engine
	rm     *risk.Manager
	jrnl   journal.Journal
}

func (a *app) Close() error { return a.jrnl.Close() }

func newApp(cfg *config.Config, log *slog.Logger) (*app, error) {
	src, err := newSource(cfg)
	if err != nil {
		return nil, err
	}

	rm := risk.NewManager(cfg.Backtest.InitialCapital, cfg.Limits, log)
	an := analyzer.New(cfg.Analyzer)
	engine := backtest.NewEngine(cfg.Backtest, src, an, rm, cfg.Universe, log)

	j, err := newJournal(cfg)
	if err != nil {
		return nil, err
	}
	engine.SetJournal(j)

	return &app{engine: engine, rm: rm, jrnl: j}, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	log := util.NewLogger(cfg.Log.Level)
	util.SetDefault(log)
	return log
}
