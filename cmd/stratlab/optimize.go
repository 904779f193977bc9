package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stratlab/stratlab/internal/backtest"
	"github.com/stratlab/stratlab/internal/logger"
	"github.com/stratlab/stratlab/internal/optimize"
	"github.com/stratlab/stratlab/internal/resultstore"
)

var (
	optMethod      string
	optObjective   string
	optMaxCombos   int
	optPopulation  int
	optGenerations int
	optSeed        int64
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Search for the best strategy parameters",
	Long:  "Run a grid search or genetic algorithm over the parameter space, scoring each candidate with a backtest",
	RunE:  runOptimize,
}

func init() {
	addDataFlags(optimizeCmd)
	optimizeCmd.Flags().StringVar(&optMethod, "method", "grid", "search method (grid or genetic)")
	optimizeCmd.Flags().StringVar(&optObjective, "objective", "", "objective metric (sharpe_ratio, profit_factor, win_rate, combined)")
	optimizeCmd.Flags().IntVar(&optMaxCombos, "max-combinations", 0, "grid search evaluation cap")
	optimizeCmd.Flags().IntVar(&optPopulation, "population", 0, "genetic population size")
	optimizeCmd.Flags().IntVar(&optGenerations, "generations", 0, "genetic generation count")
	optimizeCmd.Flags().Int64Var(&optSeed, "seed", 0, "random seed (0 means time-based)")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if optObjective != "" {
		cfg.Optimizer.Objective = optObjective
	}
	obj, err := optimize.ParseObjective(cfg.Optimizer.Objective)
	if err != nil {
		return err
	}
	reg := startMetrics(cfg, log)

	candles, err := fetchCandles(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("fetching candles: %w", err)
	}

	sim := backtest.New(simulatorConfig(cfg), zap.NewNop())
	opt := optimize.New(sim, candles, obj, log, reg)
	if optSeed != 0 {
		opt.Seed(optSeed)
	}

	maxCombos := cfg.Optimizer.MaxCombinations
	if optMaxCombos > 0 {
		maxCombos = optMaxCombos
	}
	population := cfg.Optimizer.Population
	if optPopulation > 0 {
		population = optPopulation
	}
	generations := cfg.Optimizer.Generations
	if optGenerations > 0 {
		generations = optGenerations
	}

	var report *optimize.Report
	switch optMethod {
	case "grid":
		report, err = opt.Grid(cmd.Context(), cfg.Optimizer.Candidates, maxCombos)
	case "genetic":
		report, err = opt.Genetic(cmd.Context(), cfg.Optimizer.Candidates, population, generations)
	default:
		return fmt.Errorf("unknown method %q (want grid or genetic)", optMethod)
	}
	if err != nil {
		return fmt.Errorf("running %s search: %w", optMethod, err)
	}

	printReport(report)

	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		id, err := store.Save(cmd.Context(), resultstore.KindOptimization, report)
		if err != nil {
			return fmt.Errorf("saving report: %w", err)
		}
		log.Info("report saved", zap.String("run_id", id))
		fmt.Printf("\nRun ID: %s\n", id)
	}

	return nil
}

func printReport(report *optimize.Report) {
	fmt.Printf("=== Optimization: %s (%s) ===\n", report.Method, report.Objective)
	fmt.Printf("Evaluated: %d  Skipped: %d\n", report.Evaluated, report.Skipped)

	if report.Best == nil {
		fmt.Println("No valid parameter set found")
		return
	}

	b := report.Best
	fmt.Printf("\nBest score: %.2f\n", b.Score)
	fmt.Printf("  ma_short:             %d\n", b.Params.MAShort)
	fmt.Printf("  ma_long:              %d\n", b.Params.MALong)
	fmt.Printf("  rsi_period:           %d\n", b.Params.RSIPeriod)
	fmt.Printf("  confidence_threshold: %.0f\n", b.Params.ConfidenceThreshold)
	fmt.Printf("  risk_reward_ratio:    %.1f\n", b.Params.RiskReward)
	fmt.Printf("\nPerformance:\n")
	fmt.Printf("  Win rate:      %.2f%%\n", b.Metrics.WinRate)
	fmt.Printf("  Profit factor: %s\n", formatRatio(b.Metrics.ProfitFactor))
	fmt.Printf("  Sharpe ratio:  %.2f\n", b.Metrics.Sharpe)
	fmt.Printf("  Max drawdown:  %.2f%%\n", b.Metrics.MaxDrawdownPct)

	if len(report.Top) > 1 {
		fmt.Printf("\nTop results:\n")
		for i, t := range report.Top {
			fmt.Printf("  %2d. score %.2f  ma %d/%d  rsi %d  conf %.0f  rr %.1f\n",
				i+1, t.Score, t.Params.MAShort, t.Params.MALong,
				t.Params.RSIPeriod, t.Params.ConfidenceThreshold, t.Params.RiskReward)
		}
	}
}
