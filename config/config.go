package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/intraday/analyzer"
	"github.com/rustyeddy/intraday/backtest"
	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/risk"
)

// Config is the complete application configuration. It is built once at
// startup and passed into component constructors; nothing mutates it
// afterwards.
type Config struct {
	Account  AccountConfig   `json:"account" yaml:"account"`
	Limits   risk.Limits     `json:"limits" yaml:"limits"`
	Analyzer analyzer.Config `json:"analyzer" yaml:"analyzer"`
	Backtest backtest.Config `json:"backtest" yaml:"backtest"`
	Universe []string        `json:"universe,omitempty" yaml:"universe,omitempty"`
	Data     DataConfig      `json:"data" yaml:"data"`
	Journal  JournalConfig   `json:"journal" yaml:"journal"`
	Log      LogConfig       `json:"log" yaml:"log"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Currency string  `json:"currency" yaml:"currency"`
	Capital  float64 `json:"capital" yaml:"capital"`
}

// DataConfig selects the market data source.
type DataConfig struct {
	// Source is "synthetic" or "csv".
	Source string `json:"source" yaml:"source"`
	// CSVDir holds per-symbol CSV files when Source is "csv".
	CSVDir string `json:"csv_dir,omitempty" yaml:"csv_dir,omitempty"`
	// Seed drives the synthetic generator when Source is "synthetic".
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// JournalConfig contains trade/equity persistence parameters.
type JournalConfig struct {
	// Type is "none", "csv" or "sqlite".
	Type       string `json:"type" yaml:"type"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON, then validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes the configuration as YAML or JSON based on extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Account.Capital <= 0 {
		return fmt.Errorf("account.capital must be positive")
	}
	if c.Backtest.InitialCapital <= 0 {
		return fmt.Errorf("backtest.initial_capital must be positive")
	}
	if c.Backtest.MaxOpenPositions <= 0 {
		return fmt.Errorf("backtest.max_open_positions must be positive")
	}
	if c.Limits.MaxPortfolioRisk <= 0 || c.Limits.MaxPortfolioRisk > 1 {
		return fmt.Errorf("limits.max_portfolio_risk must be between 0 and 1")
	}
	if c.Limits.StopLossPct <= 0 {
		return fmt.Errorf("limits.stop_loss_pct must be positive")
	}
	if c.Limits.TakeProfitPct <= 0 {
		return fmt.Errorf("limits.take_profit_pct must be positive")
	}
	if c.Limits.MaxDailyTrades <= 0 {
		return fmt.Errorf("limits.max_daily_trades must be positive")
	}
	if len(c.Universe) == 0 {
		return fmt.Errorf("universe must contain at least one symbol")
	}

	switch c.Data.Source {
	case "synthetic":
	case "csv":
		if c.Data.CSVDir == "" {
			return fmt.Errorf("data.csv_dir required for csv source")
		}
	default:
		return fmt.Errorf("data.source must be 'synthetic' or 'csv'")
	}

	switch c.Journal.Type {
	case "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:       "SIM-001",
			Currency: "INR",
			Capital:  1_000_000,
		},
		Limits:   risk.DefaultLimits(),
		Analyzer: analyzer.DefaultConfig(),
		Backtest: backtest.DefaultConfig(),
		Universe: market.DefaultUniverse,
		Data: DataConfig{
			Source: "synthetic",
			Seed:   1,
		},
		Journal: JournalConfig{
			Type: "none",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
