package cmd

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/intraday/analyzer"
	"github.com/rustyeddy/intraday/backtest"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the universe for scored trade candidates",
	Long: `Scan evaluates every symbol in the configured universe against the
eligibility filter (price, volume, signal strength, volatility, trend)
and prints the surviving candidates ranked by composite score.

Example:
  intraday scan --date 2024-03-04`,
	RunE: runScan,
}

var scanDate string

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&scanDate, "date", "d", "", "scan date YYYY-MM-DD (default today)")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_ = newLogger(cfg)

	through := time.Now()
	if scanDate != "" {
		d, err := time.Parse("2006-01-02", scanDate)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
		through = d.Add(24*time.Hour - time.Nanosecond)
	}

	src, err := newSource(cfg)
	if err != nil {
		return err
	}
	an := analyzer.New(cfg.Analyzer)
	ctx := context.Background()
	bt := cfg.Backtest

	type row struct {
		symbol string
		price  float64
		score  float64
		trend  analyzer.Trend
		sig    analyzer.Signals
	}
	var rows []row

	for _, sym := range cfg.Universe {
		s, err := src.History(ctx, sym, through)
		if err != nil || len(s) == 0 {
			continue
		}
		ind := an.Indicators(s)
		if ind == nil {
			continue
		}
		last, ok := s.Last()
		if !ok {
			continue
		}

		sig := an.Signals(s, ind)
		rmx := an.RiskMetrics(s, ind)
		ta := an.Trend(s, ind)

		if last.Close < bt.MinPrice ||
			last.Volume < bt.MinVolume ||
			math.Abs(sig.Strength) < bt.MinStrength ||
			rmx.Volatility > bt.MaxVolatility ||
			ta.Trend == analyzer.TrendNeutral {
			continue
		}

		rows = append(rows, row{
			symbol: sym,
			price:  last.Close,
			score:  backtest.Score(sig, ta, rmx),
			trend:  ta.Trend,
			sig:    sig,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].score > rows[j].score })

	if len(rows) == 0 {
		fmt.Println("No eligible candidates.")
		return nil
	}

	fmt.Printf("%-16s %10s %8s %8s %10s\n", "SYMBOL", "PRICE", "SCORE", "SIGNAL", "TREND")
	for _, r := range rows {
		fmt.Printf("%-16s %10.2f %8.3f %8.2f %10s\n",
			r.symbol, r.price, r.score, r.sig.Strength, string(r.trend))
	}
	return nil
}
