package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stratlab/stratlab/internal/backtest"
	"github.com/stratlab/stratlab/internal/logger"
	"github.com/stratlab/stratlab/internal/resultstore"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a backtest over historical candles",
	Long:  "Replay historical candles through the strategy and print performance statistics",
	RunE:  runBacktestCmd,
}

func init() {
	addDataFlags(backtestCmd)
	rootCmd.AddCommand(backtestCmd)
}

func runBacktestCmd(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	reg := startMetrics(cfg, log)

	candles, err := fetchCandles(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("fetching candles: %w", err)
	}

	sim := backtest.New(simulatorConfig(cfg), log)

	start := time.Now()
	res, err := sim.Run(cmd.Context(), candles, cfg.Strategy)
	reg.ObserveBacktestDuration(time.Since(start).Seconds())
	if err != nil {
		reg.RecordBacktest("failure")
		return fmt.Errorf("running backtest: %w", err)
	}
	reg.RecordBacktest("success")
	for reason, n := range countByReason(res.Trades) {
		reg.AddTradesSimulated(reason, n)
	}

	printResult(cfg.Data.Symbol, cfg.Data.Timeframe, res)

	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		id, err := store.Save(cmd.Context(), resultstore.KindBacktest, res)
		if err != nil {
			return fmt.Errorf("saving report: %w", err)
		}
		log.Info("report saved", zap.String("run_id", id))
		fmt.Printf("\nRun ID: %s\n", id)
	}

	return nil
}

func countByReason(trades []backtest.Trade) map[string]int {
	counts := make(map[string]int)
	for _, t := range trades {
		counts[t.ExitReason]++
	}
	return counts
}

func printResult(symbol, timeframe string, res *backtest.Result) {
	m := res.Metrics

	fmt.Printf("=== Backtest: %s (%s) ===\n", symbol, timeframe)
	fmt.Printf("Bars processed:  %d\n", res.ProcessedBars)
	fmt.Printf("Trades:          %d (%d wins / %d losses)\n",
		m.TotalTrades, m.WinningTrades, m.LosingTrades)
	fmt.Printf("Win rate:        %.2f%%\n", m.WinRate)
	fmt.Printf("Total PnL:       %.2f\n", m.TotalPnL)
	fmt.Printf("Total return:    %.2f%%\n", res.TotalReturnPct)
	fmt.Printf("Profit factor:   %s\n", formatRatio(m.ProfitFactor))
	fmt.Printf("Expectancy:      %.2f\n", m.Expectancy)
	fmt.Printf("Max drawdown:    %.2f (%.2f%%)\n", m.MaxDrawdown, m.MaxDrawdownPct)
	fmt.Printf("Sharpe ratio:    %.2f\n", m.Sharpe)
	fmt.Printf("Sortino ratio:   %s\n", formatRatio(m.Sortino))
	fmt.Printf("Recovery factor: %s\n", formatRatio(m.RecoveryFactor))
	fmt.Printf("Final balance:   %.2f\n", res.FinalBalance)
}

func formatRatio(r backtest.Ratio) string {
	if r.Unbounded {
		return "unbounded"
	}
	return fmt.Sprintf("%.2f", r.Value)
}
