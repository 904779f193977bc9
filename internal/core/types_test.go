package core

import (
	"testing"
	"time"
)

func TestCandle_Valid(t *testing.T) {
	tests := []struct {
		name string
		c    Candle
		want bool
	}{
		{"valid bullish", Candle{Open: 100, High: 105, Low: 99, Close: 104}, true},
		{"valid bearish", Candle{Open: 104, High: 105, Low: 99, Close: 100}, true},
		{"high below body", Candle{Open: 100, High: 101, Low: 99, Close: 104}, false},
		{"low above body", Candle{Open: 100, High: 105, Low: 101, Close: 104}, false},
		{"zero close", Candle{Open: 100, High: 105, Low: 99, Close: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeframe_CandlesPerDay(t *testing.T) {
	tests := []struct {
		tf   Timeframe
		want int
	}{
		{TimeframeM1, 1440},
		{TimeframeM5, 288},
		{TimeframeM15, 96},
		{TimeframeH1, 24},
		{TimeframeH4, 6},
		{TimeframeD1, 1},
		{Timeframe("H2"), 24}, // unknown falls back to hourly
	}
	for _, tt := range tests {
		if got := tt.tf.CandlesPerDay(); got != tt.want {
			t.Errorf("%s CandlesPerDay() = %d, want %d", tt.tf, got, tt.want)
		}
	}
}

func TestTimeframe_BarsPerYear(t *testing.T) {
	// The hourly factor is the historical 6048 = 252 * 24.
	if got := TimeframeH1.BarsPerYear(); got != 6048 {
		t.Errorf("H1 BarsPerYear() = %f, want 6048", got)
	}
	if got := TimeframeD1.BarsPerYear(); got != 252 {
		t.Errorf("D1 BarsPerYear() = %f, want 252", got)
	}
}

func TestSignal_Actionable(t *testing.T) {
	if (Signal{Direction: DirectionNeutral}).Actionable() {
		t.Error("neutral signal should not be actionable")
	}
	if !(Signal{Direction: DirectionBuy, Confidence: 70}).Actionable() {
		t.Error("buy signal should be actionable")
	}
	if !(Signal{Direction: DirectionSell}).Actionable() {
		t.Error("sell signal should be actionable")
	}
}

func TestCandle_TimeOrdering(t *testing.T) {
	earlier := Candle{Open: 1, High: 2, Low: 0.5, Close: 1.5, Time: time.Unix(100, 0)}
	later := Candle{Open: 1.5, High: 2, Low: 1, Close: 1.8, Time: time.Unix(200, 0)}
	if !earlier.Time.Before(later.Time) {
		t.Error("expected ascending timestamps")
	}
}
