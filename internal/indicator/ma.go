// Package indicator computes technical indicators over price series.
//
// Every function returns core.ErrInsufficientData when the series is
// shorter than its window. A zero value is never used to signal missing
// data, since zero is a legal price.
package indicator

import (
	"github.com/stratlab/stratlab/internal/core"
)

// SMA calculates the Simple Moving Average over the last period prices.
func SMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, core.ErrInvalidParameter
	}
	if len(prices) < period {
		return 0, core.ErrInsufficientData
	}

	var sum float64
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period), nil
}

// EMA calculates an Exponential Moving Average seeded with the first
// price and smoothed over the whole series.
func EMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, core.ErrInvalidParameter
	}
	if len(prices) < period {
		return 0, core.ErrInsufficientData
	}

	multiplier := 2.0 / float64(period+1)
	ema := prices[0]
	for _, p := range prices[1:] {
		ema = p*multiplier + ema*(1-multiplier)
	}
	return ema, nil
}
