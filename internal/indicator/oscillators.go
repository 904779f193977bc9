package indicator

import (
	"github.com/stratlab/stratlab/internal/core"
)

// MACD holds the MACD line, its signal line and the histogram.
type MACD struct {
	Line      float64
	Signal    float64
	Histogram float64
}

const (
	macdFastPeriod = 12
	macdSlowPeriod = 26
)

// RSI calculates the Relative Strength Index from the average gain/loss
// ratio over the last period price changes. Needs period+1 prices.
func RSI(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, core.ErrInvalidParameter
	}
	if len(prices) < period+1 {
		return 0, core.ErrInsufficientData
	}

	gains := make([]float64, 0, len(prices)-1)
	losses := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains = append(gains, change)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -change)
		}
	}

	var avgGain, avgLoss float64
	for _, g := range gains[len(gains)-period:] {
		avgGain += g
	}
	for _, l := range losses[len(losses)-period:] {
		avgLoss += l
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100, nil
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs)), nil
}

// CalcMACD calculates MACD(12,26). The signal line is approximated as
// macd * 0.9 instead of a true EMA of the MACD history; strategy
// behavior depends on this approximation, so keep it.
func CalcMACD(prices []float64) (MACD, error) {
	if len(prices) < macdSlowPeriod {
		return MACD{}, core.ErrInsufficientData
	}

	emaFast, err := EMA(prices, macdFastPeriod)
	if err != nil {
		return MACD{}, err
	}
	emaSlow, err := EMA(prices, macdSlowPeriod)
	if err != nil {
		return MACD{}, err
	}

	line := emaFast - emaSlow
	signal := line * 0.9
	return MACD{
		Line:      line,
		Signal:    signal,
		Histogram: line - signal,
	}, nil
}
