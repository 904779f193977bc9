// Package history defines access to historical candle series.
package history

import (
	"context"
	"sort"

	"github.com/stratlab/stratlab/internal/core"
)

// MaxCandles is the most bars a single request may ask for.
const MaxCandles = 1000

// Provider supplies time-ascending candle series. Implementations map
// transport failures to core.ErrDataUnavailable.
type Provider interface {
	Candles(ctx context.Context, symbol string, tf core.Timeframe, count int) ([]core.Candle, error)
}

// CandleCount converts a day span into a bar count for the timeframe,
// capped at MaxCandles.
func CandleCount(days int, tf core.Timeframe) int {
	count := days * tf.CandlesPerDay()
	if count > MaxCandles {
		return MaxCandles
	}
	return count
}

// SortByTime orders candles oldest first.
func SortByTime(candles []core.Candle) {
	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})
}
