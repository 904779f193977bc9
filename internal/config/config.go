// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/stratlab/stratlab/internal/core"
	"github.com/stratlab/stratlab/internal/optimize"
	"github.com/stratlab/stratlab/internal/resultstore"
	"github.com/stratlab/stratlab/internal/strategy"
)

type Config struct {
	Data      DataConfig          `mapstructure:"data"`
	Simulator SimulatorConfig     `mapstructure:"simulator"`
	Strategy  strategy.Parameters `mapstructure:"strategy"`
	Optimizer OptimizerConfig     `mapstructure:"optimizer"`
	Results   ResultsConfig       `mapstructure:"results"`
	Metrics   MetricsConfig       `mapstructure:"metrics"`
}

// DataConfig selects the historical data source.
type DataConfig struct {
	Source    string `mapstructure:"source"` // "bridge" or "csv"
	BridgeURL string `mapstructure:"bridge_url"`
	CSVPath   string `mapstructure:"csv_path"`
	Symbol    string `mapstructure:"symbol"`
	Timeframe string `mapstructure:"timeframe"`
	Days      int    `mapstructure:"days"`
}

type SimulatorConfig struct {
	InitialBalance float64 `mapstructure:"initial_balance"`
	Volume         float64 `mapstructure:"volume"`
	ContractSize   float64 `mapstructure:"contract_size"`
	Warmup         int     `mapstructure:"warmup"`
	AnalysisWindow int     `mapstructure:"analysis_window"`
}

type OptimizerConfig struct {
	Objective       string                 `mapstructure:"objective"`
	MaxCombinations int                    `mapstructure:"max_combinations"`
	Population      int                    `mapstructure:"population"`
	Generations     int                    `mapstructure:"generations"`
	Candidates      optimize.CandidateSets `mapstructure:"candidates"`
}

// ResultsConfig selects where run reports are persisted.
type ResultsConfig struct {
	Enabled bool                 `mapstructure:"enabled"`
	Type    string               `mapstructure:"type"` // "localfs" or "s3"
	Path    string               `mapstructure:"path"` // For localfs
	S3      resultstore.S3Config `mapstructure:"s3"`   // For S3
}

// MetricsConfig controls the Prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Data: DataConfig{
			Source:    "bridge",
			BridgeURL: "http://localhost:5002",
			Symbol:    "XAUUSD",
			Timeframe: "H1",
			Days:      30,
		},
		Simulator: SimulatorConfig{
			InitialBalance: 100000,
			Volume:         0.20,
			ContractSize:   100,
			Warmup:         50,
			AnalysisWindow: 100,
		},
		Strategy: strategy.DefaultParameters(),
		Optimizer: OptimizerConfig{
			Objective:       "sharpe_ratio",
			MaxCombinations: 100,
			Population:      20,
			Generations:     10,
			Candidates:      optimize.DefaultCandidateSets(),
		},
		Results: ResultsConfig{
			Enabled: false,
			Type:    "localfs",
			Path:    "results",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Data.Source {
	case "bridge":
		if c.Data.BridgeURL == "" {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("bridge_url is required for the bridge source"))
		}
	case "csv":
		if c.Data.CSVPath == "" {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("csv_path is required for the csv source"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("data source must be \"bridge\" or \"csv\", got %q", c.Data.Source))
	}

	if c.Data.Days <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("days must be positive, got %d", c.Data.Days))
	}

	if c.Simulator.InitialBalance <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("initial_balance must be positive, got %f", c.Simulator.InitialBalance))
	}
	if c.Simulator.Volume <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("volume must be positive, got %f", c.Simulator.Volume))
	}
	if c.Simulator.Warmup <= 0 || c.Simulator.AnalysisWindow <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("warmup and analysis_window must be positive"))
	}

	if err := c.Strategy.Validate(); err != nil {
		return core.WrapError(core.ErrConfigInvalid, err)
	}

	if _, err := optimize.ParseObjective(c.Optimizer.Objective); err != nil {
		return core.WrapError(core.ErrConfigInvalid, err)
	}

	if c.Results.Enabled {
		switch c.Results.Type {
		case "localfs":
			if c.Results.Path == "" {
				return core.WrapError(core.ErrConfigInvalid,
					fmt.Errorf("results path is required for localfs"))
			}
		case "s3":
			if c.Results.S3.Bucket == "" {
				return core.WrapError(core.ErrConfigInvalid,
					fmt.Errorf("s3 bucket is required"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("results type must be \"localfs\" or \"s3\", got %q", c.Results.Type))
		}
	}

	return nil
}
