package indicator

import (
	"errors"
	"testing"

	"github.com/stratlab/stratlab/internal/core"
)

func flatCandles(n int, price float64) []core.Candle {
	candles := make([]core.Candle, n)
	for i := range candles {
		candles[i] = core.Candle{Open: price, High: price + 1, Low: price - 1, Close: price}
	}
	return candles
}

func TestSupportResistance_Pivots(t *testing.T) {
	candles := flatCandles(20, 100)
	// pivot low at index 10, pivot high at index 5
	candles[10].Low = 95
	candles[5].High = 107

	levels, err := SupportResistance(candles, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if levels.Support != 95 {
		t.Errorf("Support = %f, want 95", levels.Support)
	}
	if levels.SupportStrength != 1 {
		t.Errorf("SupportStrength = %d, want 1", levels.SupportStrength)
	}
	if levels.Resistance != 107 {
		t.Errorf("Resistance = %f, want 107", levels.Resistance)
	}
	if levels.CurrentPrice != 100 {
		t.Errorf("CurrentPrice = %f, want 100", levels.CurrentPrice)
	}
}

func TestSupportResistance_StrengthCountsRetests(t *testing.T) {
	candles := flatCandles(30, 100)
	// two pivot lows within 0.1% of each other
	candles[8].Low = 95.00
	candles[20].Low = 95.05

	levels, err := SupportResistance(candles, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if levels.SupportStrength != 2 {
		t.Errorf("SupportStrength = %d, want 2 for a retested level", levels.SupportStrength)
	}
}

func TestSupportResistance_FallbackToRecentExtremes(t *testing.T) {
	// monotonic lows and highs: no pivots at all
	candles := make([]core.Candle, 20)
	for i := range candles {
		base := 100 + float64(i)
		candles[i] = core.Candle{Open: base, High: base + 1, Low: base - 1, Close: base}
	}

	levels, err := SupportResistance(candles, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// min low of the last 10 bars, max high of the last 10 bars
	if levels.Support != 109 {
		t.Errorf("Support = %f, want 109 (fallback)", levels.Support)
	}
	if levels.Resistance != 120 {
		t.Errorf("Resistance = %f, want 120 (fallback)", levels.Resistance)
	}
	if levels.SupportStrength != 1 || levels.ResistanceStrength != 1 {
		t.Errorf("fallback strength should be 1, got %d/%d",
			levels.SupportStrength, levels.ResistanceStrength)
	}
}

func TestSupportResistance_NotEnoughData(t *testing.T) {
	_, err := SupportResistance(flatCandles(5, 100), 20)
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}
