package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stratlab/stratlab/internal/logger"
	"github.com/stratlab/stratlab/internal/strategy"
)

var signalCmd = &cobra.Command{
	Use:   "signal",
	Short: "Evaluate the current trading signal",
	Long:  "Fetch recent candles and print the strategy's signal for the latest bar",
	RunE:  runSignal,
}

func init() {
	addDataFlags(signalCmd)
	rootCmd.AddCommand(signalCmd)
}

func runSignal(cmd *cobra.Command, args []string) error {
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

	synth, err := strategy.NewSynthesizer(cfg.Strategy)
	if err != nil {
		return err
	}

	window := cfg.Simulator.AnalysisWindow
	if len(candles) < window {
		window = len(candles)
	}
	sig := synth.Evaluate(candles[len(candles)-window:])
	reg.RecordSignal(string(sig.Direction))

	log.Debug("signal evaluated",
		zap.String("direction", string(sig.Direction)),
		zap.Float64("confidence", sig.Confidence))

	fmt.Printf("Symbol:     %s (%s)\n", cfg.Data.Symbol, cfg.Data.Timeframe)
	fmt.Printf("Direction:  %s\n", sig.Direction)
	fmt.Printf("Confidence: %.0f\n", sig.Confidence)
	fmt.Printf("Reason:     %s\n", sig.Reason)
	if len(sig.Patterns) > 0 {
		fmt.Printf("Patterns:   %v\n", sig.Patterns)
	}
	if sig.Exit != nil {
		fmt.Printf("Exit:       TP %.2f (%d pips)  SL %.2f (%d pips)  [%s]\n",
			sig.Exit.TakeProfit, sig.Exit.TakeProfitPips,
			sig.Exit.StopLoss, sig.Exit.StopLossPips, sig.Exit.Method)
	}

	return nil
}
