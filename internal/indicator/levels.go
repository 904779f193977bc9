package indicator

import (
	"math"

	"github.com/stratlab/stratlab/internal/core"
)

// Levels holds the nearest support/resistance structure around the
// current price, with a strength count per level.
type Levels struct {
	Support            float64
	Resistance         float64
	SupportStrength    int
	ResistanceStrength int
	CurrentPrice       float64
}

// proximity band for counting how often a level was tested
const levelTolerance = 0.001 // 0.1%

// SupportResistance detects pivot-based support and resistance levels
// over the last lookback candles. A low is a support pivot iff it is
// strictly below its two neighbors on each side; highs are tested
// symmetrically for resistance. When no pivot exists on a side, the
// min/max of the last 10 bars is used with strength 1.
func SupportResistance(candles []core.Candle, lookback int) (Levels, error) {
	if lookback <= 0 {
		return Levels{}, core.ErrInvalidParameter
	}
	if len(candles) < lookback {
		return Levels{}, core.ErrInsufficientData
	}

	window := candles[len(candles)-lookback:]
	highs := make([]float64, len(window))
	lows := make([]float64, len(window))
	for i, c := range window {
		highs[i] = c.High
		lows[i] = c.Low
	}
	currentPrice := window[len(window)-1].Close

	var supportPivots, resistancePivots []float64
	for i := 2; i < len(window)-2; i++ {
		if lows[i] < lows[i-1] && lows[i] < lows[i-2] && lows[i] < lows[i+1] && lows[i] < lows[i+2] {
			supportPivots = append(supportPivots, lows[i])
		}
		if highs[i] > highs[i-1] && highs[i] > highs[i-2] && highs[i] > highs[i+1] && highs[i] > highs[i+2] {
			resistancePivots = append(resistancePivots, highs[i])
		}
	}

	support, supportStrength := nearestBelow(supportPivots, currentPrice)
	if supportStrength == 0 {
		support = minTail(lows, 10)
		supportStrength = 1
	}

	resistance, resistanceStrength := nearestAbove(resistancePivots, currentPrice)
	if resistanceStrength == 0 {
		resistance = maxTail(highs, 10)
		resistanceStrength = 1
	}

	return Levels{
		Support:            round2(support),
		Resistance:         round2(resistance),
		SupportStrength:    supportStrength,
		ResistanceStrength: resistanceStrength,
		CurrentPrice:       round2(currentPrice),
	}, nil
}

// nearestBelow picks the highest pivot under price and counts pivots
// within the tolerance band of it. Strength 0 means no pivot qualified.
func nearestBelow(pivots []float64, price float64) (float64, int) {
	best := 0.0
	found := false
	for _, p := range pivots {
		if p < price && (!found || p > best) {
			best = p
			found = true
		}
	}
	if !found {
		return 0, 0
	}
	return best, countNear(pivots, best)
}

func nearestAbove(pivots []float64, price float64) (float64, int) {
	best := 0.0
	found := false
	for _, p := range pivots {
		if p > price && (!found || p < best) {
			best = p
			found = true
		}
	}
	if !found {
		return 0, 0
	}
	return best, countNear(pivots, best)
}

func countNear(pivots []float64, level float64) int {
	n := 0
	for _, p := range pivots {
		if math.Abs(p-level) < level*levelTolerance {
			n++
		}
	}
	return n
}

func minTail(xs []float64, n int) float64 {
	if len(xs) > n {
		xs = xs[len(xs)-n:]
	}
	m := xs[0]
	for _, v := range xs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxTail(xs []float64, n int) float64 {
	if len(xs) > n {
		xs = xs[len(xs)-n:]
	}
	m := xs[0]
	for _, v := range xs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
