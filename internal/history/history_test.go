package history

import (
	"testing"
	"time"

	"github.com/stratlab/stratlab/internal/core"
)

func TestCandleCount(t *testing.T) {
	tests := []struct {
		days int
		tf   core.Timeframe
		want int
	}{
		{7, core.TimeframeH1, 168},
		{30, core.TimeframeH1, 720},
		{60, core.TimeframeH1, 1000},
		{1, core.TimeframeM1, 1000},
		{30, core.TimeframeD1, 30},
		{10, core.TimeframeH4, 60},
	}

	for _, tt := range tests {
		if got := CandleCount(tt.days, tt.tf); got != tt.want {
			t.Errorf("CandleCount(%d, %s) = %d, want %d", tt.days, tt.tf, got, tt.want)
		}
	}
}

func TestSortByTime(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	candles := []core.Candle{
		{Close: 3, Time: base.Add(2 * time.Hour)},
		{Close: 1, Time: base},
		{Close: 2, Time: base.Add(time.Hour)},
	}

	SortByTime(candles)

	for i, want := range []float64{1, 2, 3} {
		if candles[i].Close != want {
			t.Errorf("candles[%d].Close = %f, want %f", i, candles[i].Close, want)
		}
	}
}
