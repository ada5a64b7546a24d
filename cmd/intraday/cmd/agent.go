package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/intraday/agent"
	"github.com/rustyeddy/intraday/api"
	"github.com/rustyeddy/intraday/market"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run the live trading agent with the dashboard API",
	Long: `Agent drives the trading engine against the wall clock: inside market
hours it periodically scans, monitors and executes; at session close it
flattens the book. A small HTTP API exposes the running report, open
positions and the risk snapshot.

Example:
  intraday agent --interval 1m --listen :8080`,
	RunE: runAgent,
}

var (
	agInterval time.Duration
	agListen   string
)

func init() {
	rootCmd.AddCommand(agentCmd)
	agentCmd.Flags().DurationVar(&agInterval, "interval", time.Minute, "cycle interval")
	agentCmd.Flags().StringVar(&agListen, "listen", ":8080", "dashboard API listen address")
}

func runAgent(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	ag := agent.New(a.engine, market.DefaultCalendar(), agInterval, log)
	if err := ag.Start(context.Background()); err != nil {
		return err
	}
	defer ag.Stop()

	router := api.SetupRoutes(api.NewHandler(ag, a.rm))
	srv := &http.Server{Addr: agListen, Handler: router}

	errc := make(chan error, 1)
	go func() {
		log.Info("dashboard API listening", "addr", agListen)
		errc <- srv.ListenAndServe()
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigc:
		log.Info("shutting down", "signal", sig.String())
	case err := <-errc:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("api server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("api shutdown", "error", err)
	}

	return nil
}
