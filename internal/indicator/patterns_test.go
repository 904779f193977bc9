package indicator

import (
	"errors"
	"testing"

	"github.com/stratlab/stratlab/internal/core"
)

func TestDetectPatterns_Doji(t *testing.T) {
	candles := []core.Candle{
		{Open: 100, High: 101, Low: 99.5, Close: 100.8},
		{Open: 100.8, High: 101.5, Low: 100.2, Close: 101.2},
		{Open: 100, High: 101, Low: 99, Close: 100.05}, // tiny body
	}

	report, err := DetectPatterns(candles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsPattern(report.Patterns, PatternDoji) {
		t.Errorf("expected DOJI in %v", report.Patterns)
	}
	if report.Strength != 5 {
		t.Errorf("Strength = %f, want 5", report.Strength)
	}
}

func TestDetectPatterns_Hammer(t *testing.T) {
	candles := []core.Candle{
		{Open: 100, High: 101, Low: 99.5, Close: 100.8},
		{Open: 100.8, High: 101.5, Low: 100.2, Close: 101.2},
		{Open: 100, High: 100.6, Low: 97, Close: 100.5}, // long lower wick
	}

	report, err := DetectPatterns(candles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsPattern(report.Patterns, PatternHammer) {
		t.Errorf("expected HAMMER in %v", report.Patterns)
	}
	if report.Strength != 15 {
		t.Errorf("Strength = %f, want 15", report.Strength)
	}
}

func TestDetectPatterns_ShootingStar(t *testing.T) {
	candles := []core.Candle{
		{Open: 100, High: 101, Low: 99.5, Close: 100.8},
		{Open: 100.8, High: 101.5, Low: 100.2, Close: 101.2},
		{Open: 100.5, High: 104, Low: 99.9, Close: 100}, // long upper wick
	}

	report, err := DetectPatterns(candles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsPattern(report.Patterns, PatternShootingStar) {
		t.Errorf("expected SHOOTING_STAR in %v", report.Patterns)
	}
	if report.Strength != -15 {
		t.Errorf("Strength = %f, want -15", report.Strength)
	}
}

func TestDetectPatterns_BullishEngulfing(t *testing.T) {
	candles := []core.Candle{
		{Open: 100, High: 101.2, Low: 99.9, Close: 101},
		{Open: 101, High: 101.1, Low: 99.9, Close: 100},     // bearish
		{Open: 99.5, High: 101.6, Low: 99.4, Close: 101.5},  // engulfs it
	}

	report, err := DetectPatterns(candles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsPattern(report.Patterns, PatternBullishEngulfing) {
		t.Errorf("expected BULLISH_ENGULFING in %v", report.Patterns)
	}
	if report.Strength != 20 {
		t.Errorf("Strength = %f, want 20", report.Strength)
	}
}

func TestDetectPatterns_BearishEngulfing(t *testing.T) {
	candles := []core.Candle{
		{Open: 100, High: 101.2, Low: 99.9, Close: 101},
		{Open: 100, High: 101.1, Low: 99.9, Close: 101},     // bullish
		{Open: 101.5, High: 101.6, Low: 99.4, Close: 99.5},  // engulfs it
	}

	report, err := DetectPatterns(candles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsPattern(report.Patterns, PatternBearishEngulfing) {
		t.Errorf("expected BEARISH_ENGULFING in %v", report.Patterns)
	}
	if report.Strength != -20 {
		t.Errorf("Strength = %f, want -20", report.Strength)
	}
}

func TestDetectPatterns_NotEnoughData(t *testing.T) {
	_, err := DetectPatterns([]core.Candle{{Open: 1, High: 2, Low: 0.5, Close: 1.5}})
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func containsPattern(patterns []string, name string) bool {
	for _, p := range patterns {
		if p == name {
			return true
		}
	}
	return false
}
