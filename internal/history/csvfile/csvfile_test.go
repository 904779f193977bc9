package csvfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stratlab/stratlab/internal/core"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candles.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestCandles_ReadsFile(t *testing.T) {
	path := writeCSV(t, `time,open,high,low,close,volume
2024-05-01 00:00:00,100,101,99,100.5,12
2024-05-01 01:00:00,100.5,101.5,100,101,8
`)

	l := New(path)
	candles, err := l.Candles(context.Background(), "XAUUSD", core.TimeframeH1, 0)
	if err != nil {
		t.Fatalf("Candles: %v", err)
	}

	if len(candles) != 2 {
		t.Fatalf("len = %d, want 2", len(candles))
	}
	if candles[0].Close != 100.5 || candles[1].Close != 101 {
		t.Errorf("closes = %f, %f", candles[0].Close, candles[1].Close)
	}
	if !candles[0].Valid() || !candles[1].Valid() {
		t.Error("parsed candles must satisfy the OHLC envelope")
	}
}

func TestCandles_KeepsNewestWhenTrimming(t *testing.T) {
	path := writeCSV(t, `2024-05-01 00:00:00,100,101,99,100.5,12
2024-05-01 01:00:00,100.5,101.5,100,101,8
2024-05-01 02:00:00,101,102,100.5,101.5,9
`)

	l := New(path)
	candles, err := l.Candles(context.Background(), "XAUUSD", core.TimeframeH1, 2)
	if err != nil {
		t.Fatalf("Candles: %v", err)
	}

	if len(candles) != 2 {
		t.Fatalf("len = %d, want 2", len(candles))
	}
	if candles[0].Close != 101 || candles[1].Close != 101.5 {
		t.Errorf("trim must keep the newest bars, got closes %f, %f",
			candles[0].Close, candles[1].Close)
	}
}

func TestCandles_MissingFile(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "missing.csv"))

	_, err := l.Candles(context.Background(), "XAUUSD", core.TimeframeH1, 0)

	if !errors.Is(err, core.ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
}

func TestCandles_MalformedRow(t *testing.T) {
	path := writeCSV(t, `2024-05-01 00:00:00,100,101,99,not-a-number,12
`)

	l := New(path)
	_, err := l.Candles(context.Background(), "XAUUSD", core.TimeframeH1, 0)

	if !errors.Is(err, core.ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
}
