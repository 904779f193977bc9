package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stratlab/stratlab/internal/backtest"
	"github.com/stratlab/stratlab/internal/config"
	"github.com/stratlab/stratlab/internal/core"
	"github.com/stratlab/stratlab/internal/history"
	"github.com/stratlab/stratlab/internal/history/bridge"
	"github.com/stratlab/stratlab/internal/history/csvfile"
	"github.com/stratlab/stratlab/internal/metrics"
	"github.com/stratlab/stratlab/internal/resultstore"
)

// Flags shared by the data-driven commands; empty/zero means "use the
// config value".
var (
	flagSymbol    string
	flagTimeframe string
	flagDays      int
)

func addDataFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagSymbol, "symbol", "", "symbol to analyze")
	cmd.Flags().StringVar(&flagTimeframe, "timeframe", "", "bar timeframe (M1, M5, M15, H1, H4, D1)")
	cmd.Flags().IntVar(&flagDays, "days", 0, "days of history")
}

func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Debug("no config file specified, using defaults")
	}

	if flagSymbol != "" {
		cfg.Data.Symbol = flagSymbol
	}
	if flagTimeframe != "" {
		cfg.Data.Timeframe = flagTimeframe
	}
	if flagDays > 0 {
		cfg.Data.Days = flagDays
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func newProvider(cfg *config.Config) history.Provider {
	if cfg.Data.Source == "csv" {
		return csvfile.New(cfg.Data.CSVPath)
	}
	return bridge.New(cfg.Data.BridgeURL)
}

func fetchCandles(ctx context.Context, cfg *config.Config, log *zap.Logger) ([]core.Candle, error) {
	tf := core.Timeframe(cfg.Data.Timeframe)
	count := history.CandleCount(cfg.Data.Days, tf)

	log.Info("fetching candles",
		zap.String("symbol", cfg.Data.Symbol),
		zap.String("timeframe", string(tf)),
		zap.Int("count", count))

	candles, err := newProvider(cfg).Candles(ctx, cfg.Data.Symbol, tf, count)
	if err != nil {
		return nil, err
	}
	log.Info("candles fetched", zap.Int("count", len(candles)))
	return candles, nil
}

func simulatorConfig(cfg *config.Config) backtest.Config {
	return backtest.Config{
		InitialBalance: cfg.Simulator.InitialBalance,
		Volume:         cfg.Simulator.Volume,
		ContractSize:   cfg.Simulator.ContractSize,
		Warmup:         cfg.Simulator.Warmup,
		AnalysisWindow: cfg.Simulator.AnalysisWindow,
		Timeframe:      core.Timeframe(cfg.Data.Timeframe),
	}
}

// newStore returns nil when result persistence is disabled.
func newStore(cfg *config.Config) (*resultstore.Store, error) {
	if !cfg.Results.Enabled {
		return nil, nil
	}

	var backend resultstore.Backend
	var err error
	switch cfg.Results.Type {
	case "s3":
		backend, err = resultstore.NewS3(cfg.Results.S3)
	default:
		backend, err = resultstore.NewLocalFS(cfg.Results.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("creating result store: %w", err)
	}
	return resultstore.New(backend), nil
}

// startMetrics serves the registry when a scrape endpoint is
// configured. The server lives for the remainder of the process.
func startMetrics(cfg *config.Config, log *zap.Logger) *metrics.Registry {
	reg := metrics.NewRegistry()
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", reg.Handler())
		go func() {
			log.Info("metrics endpoint listening", zap.String("addr", cfg.Metrics.Addr))
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Warn("metrics endpoint stopped", zap.Error(err))
			}
		}()
	}
	return reg
}
