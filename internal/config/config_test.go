package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_FromFile(t *testing.T) {
	content := []byte(`
data:
  source: csv
  csv_path: "/tmp/stratlab/candles.csv"
  symbol: "XAUUSD"
  timeframe: "H4"
  days: 14

strategy:
  ma_short: 15
  ma_long: 60

optimizer:
  objective: combined
`)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Data.Source != "csv" {
		t.Errorf("expected csv source, got %s", cfg.Data.Source)
	}
	if cfg.Data.Timeframe != "H4" {
		t.Errorf("expected H4, got %s", cfg.Data.Timeframe)
	}
	if cfg.Strategy.MAShort != 15 || cfg.Strategy.MALong != 60 {
		t.Errorf("expected MA 15/60, got %d/%d", cfg.Strategy.MAShort, cfg.Strategy.MALong)
	}
	if cfg.Optimizer.Objective != "combined" {
		t.Errorf("expected combined, got %s", cfg.Optimizer.Objective)
	}

	// Values absent from the file keep their defaults.
	if cfg.Simulator.Warmup != 50 {
		t.Errorf("expected default warmup 50, got %d", cfg.Simulator.Warmup)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Simulator.InitialBalance != 100000 {
		t.Errorf("expected default balance 100000, got %f", cfg.Simulator.InitialBalance)
	}
	if cfg.Strategy.MAShort != 20 || cfg.Strategy.MALong != 50 {
		t.Errorf("expected default MA 20/50, got %d/%d", cfg.Strategy.MAShort, cfg.Strategy.MALong)
	}
	if cfg.Optimizer.MaxCombinations != 100 {
		t.Errorf("expected default cap 100, got %d", cfg.Optimizer.MaxCombinations)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "unknown data source",
			mutate:  func(c *Config) { c.Data.Source = "ftp" },
			wantErr: true,
		},
		{
			name: "csv source without path",
			mutate: func(c *Config) {
				c.Data.Source = "csv"
				c.Data.CSVPath = ""
			},
			wantErr: true,
		},
		{
			name:    "non-positive days",
			mutate:  func(c *Config) { c.Data.Days = 0 },
			wantErr: true,
		},
		{
			name:    "non-positive volume",
			mutate:  func(c *Config) { c.Simulator.Volume = 0 },
			wantErr: true,
		},
		{
			name:    "ma_short not below ma_long",
			mutate:  func(c *Config) { c.Strategy.MAShort = 80 },
			wantErr: true,
		},
		{
			name:    "unknown objective",
			mutate:  func(c *Config) { c.Optimizer.Objective = "total_return" },
			wantErr: true,
		},
		{
			name: "s3 results without bucket",
			mutate: func(c *Config) {
				c.Results.Enabled = true
				c.Results.Type = "s3"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("STRATLAB_TEST_BUCKET", "reports")

	content := []byte(`
results:
  enabled: true
  type: s3
  s3:
    bucket: "${STRATLAB_TEST_BUCKET}"
`)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Results.S3.Bucket != "reports" {
		t.Errorf("expected expanded bucket, got %q", cfg.Results.S3.Bucket)
	}
}
