package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a backtest over a historical date range",
	Long: `Backtest simulates the intraday strategy over every trading date in the
given range: scan the universe, open the top-ranked candidates under risk
limits, monitor stops and signals, and force-close everything at session
end. The aggregated report is written as a timestamped JSON artifact.

Example:
  intraday backtest --start 2024-01-01 --end 2024-03-31 --report-dir ./reports`,
	RunE: runBacktest,
}

var (
	btStart     string
	btEnd       string
	btReportDir string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btStart, "start", "s", "", "start date YYYY-MM-DD (default 90 days ago)")
	backtestCmd.Flags().StringVarP(&btEnd, "end", "e", "", "end date YYYY-MM-DD (default today)")
	backtestCmd.Flags().StringVar(&btReportDir, "report-dir", "./reports", "directory for the JSON report artifact")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	end := time.Now()
	start := end.AddDate(0, 0, -90)
	if btStart != "" {
		if start, err = time.Parse("2006-01-02", btStart); err != nil {
			return fmt.Errorf("parse start date: %w", err)
		}
	}
	if btEnd != "" {
		if end, err = time.Parse("2006-01-02", btEnd); err != nil {
			return fmt.Errorf("parse end date: %w", err)
		}
	}

	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.engine.Run(context.Background(), start, end)
	if err != nil {
		return err
	}

	path, err := report.WriteFile(btReportDir)
	if err != nil {
		return err
	}

	fmt.Println("=== Backtest Report ===")
	fmt.Printf("Initial capital:  %.2f\n", report.Summary.InitialCapital)
	fmt.Printf("Final value:      %.2f\n", report.Summary.FinalValue)
	fmt.Printf("Total return:     %.2f%%\n", report.Summary.TotalReturnPct)
	fmt.Printf("Sharpe ratio:     %.2f\n", report.Summary.SharpeRatio)
	fmt.Printf("Max drawdown:     %.2f%%\n", report.Summary.MaxDrawdownPct)
	fmt.Printf("Trades closed:    %d\n", report.TradeStatistics.TotalTrades)
	fmt.Printf("Win rate:         %.1f%%\n", report.TradeStatistics.WinRate*100)
	fmt.Printf("Profit factor:    %.2f\n", report.TradeStatistics.ProfitFactor)
	fmt.Printf("Report written:   %s\n", path)

	return nil
}
