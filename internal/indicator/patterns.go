package indicator

import (
	"math"

	"github.com/stratlab/stratlab/internal/core"
)

// Candlestick pattern names.
const (
	PatternDoji             = "DOJI"
	PatternHammer           = "HAMMER"
	PatternShootingStar     = "SHOOTING_STAR"
	PatternBullishEngulfing = "BULLISH_ENGULFING"
	PatternBearishEngulfing = "BEARISH_ENGULFING"
)

// PatternReport lists detected candlestick patterns over the trailing
// candles and their signed aggregate strength (bullish positive).
type PatternReport struct {
	Patterns []string
	Strength float64
}

// DetectPatterns scans the last three candles for single-candle
// patterns (doji, hammer, shooting star) and the last two for engulfing
// patterns.
func DetectPatterns(candles []core.Candle) (PatternReport, error) {
	if len(candles) < 3 {
		return PatternReport{}, core.ErrInsufficientData
	}

	recent := candles[len(candles)-3:]
	report := PatternReport{}

	for _, c := range recent {
		if c.Open == 0 || c.Close == 0 {
			continue
		}
		body := math.Abs(c.Close - c.Open)
		totalRange := c.High - c.Low
		if totalRange == 0 {
			continue
		}
		bodyRatio := body / totalRange

		if bodyRatio < 0.1 {
			report.Patterns = append(report.Patterns, PatternDoji)
			report.Strength += 5
		}

		upperWick := c.High - math.Max(c.Open, c.Close)
		lowerWick := math.Min(c.Open, c.Close) - c.Low
		if bodyRatio < 0.3 && lowerWick > body*2 && upperWick < body {
			report.Patterns = append(report.Patterns, PatternHammer)
			report.Strength += 15
		}
		if bodyRatio < 0.3 && upperWick > body*2 && lowerWick < body {
			report.Patterns = append(report.Patterns, PatternShootingStar)
			report.Strength -= 15
		}
	}

	prev, curr := recent[1], recent[2]

	// bullish engulfing: a bearish candle fully contained by the
	// following bullish body
	if prev.Close < prev.Open && curr.Close > curr.Open {
		if curr.Open < prev.Close && curr.Close > prev.Open {
			report.Patterns = append(report.Patterns, PatternBullishEngulfing)
			report.Strength += 20
		}
	}
	if prev.Close > prev.Open && curr.Close < curr.Open {
		if curr.Open > prev.Close && curr.Close < prev.Open {
			report.Patterns = append(report.Patterns, PatternBearishEngulfing)
			report.Strength -= 20
		}
	}

	return report, nil
}
