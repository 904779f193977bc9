package indicator

import (
	"errors"
	"math"
	"testing"

	"github.com/stratlab/stratlab/internal/core"
)

func TestRSI_AllGains(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14, 15}

	rsi, err := RSI(prices, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 100 {
		t.Errorf("RSI = %f, want 100 for monotonic gains", rsi)
	}
}

func TestRSI_Mixed(t *testing.T) {
	prices := []float64{44.00, 44.34, 44.09, 43.61, 44.33, 44.83}

	// changes: +0.34, -0.25, -0.48, +0.72, +0.50
	// avg gain = 1.56/5, avg loss = 0.73/5, rs = 1.56/0.73
	rsi, err := RSI(prices, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 100 - 100/(1+1.56/0.73)
	if math.Abs(rsi-want) > 1e-9 {
		t.Errorf("RSI = %f, want %f", rsi, want)
	}
}

func TestRSI_NotEnoughData(t *testing.T) {
	prices := []float64{10, 11, 12}
	_, err := RSI(prices, 14)
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestCalcMACD_FlatSeries(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100
	}

	macd, err := CalcMACD(prices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if macd.Line != 0 || macd.Signal != 0 || macd.Histogram != 0 {
		t.Errorf("flat series should yield zero MACD, got %+v", macd)
	}
}

func TestCalcMACD_SignalApproximation(t *testing.T) {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	macd, err := CalcMACD(prices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// signal = 0.9 * line, so the histogram is always 0.1 * line
	if math.Abs(macd.Signal-macd.Line*0.9) > 1e-9 {
		t.Errorf("Signal = %f, want %f", macd.Signal, macd.Line*0.9)
	}
	if math.Abs(macd.Histogram-macd.Line*0.1) > 1e-9 {
		t.Errorf("Histogram = %f, want %f", macd.Histogram, macd.Line*0.1)
	}
	if macd.Line <= 0 {
		t.Errorf("rising series should yield positive MACD line, got %f", macd.Line)
	}
}

func TestCalcMACD_NotEnoughData(t *testing.T) {
	prices := make([]float64, 20)
	_, err := CalcMACD(prices)
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}
