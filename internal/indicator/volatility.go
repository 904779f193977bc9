package indicator

import (
	"math"

	"github.com/stratlab/stratlab/internal/core"
)

// Bands holds Bollinger Band levels around a period SMA.
type Bands struct {
	Upper    float64
	Middle   float64
	Lower    float64
	Width    float64
	Position float64 // where the last price sits in the band, 0..1
}

// Bollinger calculates Bollinger Bands using the population standard
// deviation of the last period prices.
func Bollinger(prices []float64, period int, mult float64) (Bands, error) {
	if period <= 0 {
		return Bands{}, core.ErrInvalidParameter
	}
	if len(prices) < period {
		return Bands{}, core.ErrInsufficientData
	}

	window := prices[len(prices)-period:]
	var sum float64
	for _, p := range window {
		sum += p
	}
	mean := sum / float64(period)

	var variance float64
	for _, p := range window {
		variance += (p - mean) * (p - mean)
	}
	std := math.Sqrt(variance / float64(period))

	upper := mean + std*mult
	lower := mean - std*mult
	width := upper - lower

	position := 0.5
	if width > 0 {
		position = (prices[len(prices)-1] - lower) / width
	}

	return Bands{
		Upper:    upper,
		Middle:   mean,
		Lower:    lower,
		Width:    width,
		Position: position,
	}, nil
}

// ATR calculates the Average True Range as the mean of the last period
// true ranges. Needs period+1 candles.
func ATR(candles []core.Candle, period int) (float64, error) {
	if period <= 0 {
		return 0, core.ErrInvalidParameter
	}
	if len(candles) < period+1 {
		return 0, core.ErrInsufficientData
	}

	trs := make([]float64, 0, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		hl := candles[i].High - candles[i].Low
		hc := math.Abs(candles[i].High - candles[i-1].Close)
		lc := math.Abs(candles[i].Low - candles[i-1].Close)
		trs = append(trs, math.Max(hl, math.Max(hc, lc)))
	}

	var sum float64
	for _, tr := range trs[len(trs)-period:] {
		sum += tr
	}
	return sum / float64(period), nil
}

// ADX calculates a simplified Average Directional Index: the DX of the
// mean directional movements over the last period, without Wilder
// smoothing. Needs period+1 candles.
func ADX(candles []core.Candle, period int) (float64, error) {
	if period <= 0 {
		return 0, core.ErrInvalidParameter
	}
	if len(candles) < period+1 {
		return 0, core.ErrInsufficientData
	}

	plusDM := make([]float64, 0, len(candles)-1)
	minusDM := make([]float64, 0, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		upMove := candles[i].High - candles[i-1].High
		downMove := candles[i-1].Low - candles[i].Low

		if upMove > downMove && upMove > 0 {
			plusDM = append(plusDM, upMove)
		} else {
			plusDM = append(plusDM, 0)
		}
		if downMove > upMove && downMove > 0 {
			minusDM = append(minusDM, downMove)
		} else {
			minusDM = append(minusDM, 0)
		}
	}

	var avgPlus, avgMinus float64
	for _, dm := range plusDM[len(plusDM)-period:] {
		avgPlus += dm
	}
	for _, dm := range minusDM[len(minusDM)-period:] {
		avgMinus += dm
	}
	avgPlus /= float64(period)
	avgMinus /= float64(period)

	if avgPlus+avgMinus == 0 {
		return 0, nil
	}
	return 100 * math.Abs(avgPlus-avgMinus) / (avgPlus + avgMinus), nil
}
