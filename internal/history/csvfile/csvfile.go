// Package csvfile loads candle series from local CSV files for
// offline backtests.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/stratlab/stratlab/internal/core"
	"github.com/stratlab/stratlab/internal/history"
)

// Loader reads candles from one CSV file, ignoring the symbol and
// timeframe arguments of the Provider interface. The expected columns
// are time,open,high,low,close,volume with an optional header row.
type Loader struct {
	path string
}

// New creates a Loader for the given file.
func New(path string) *Loader {
	return &Loader{path: path}
}

// Candles reads up to count bars, oldest first. Missing or malformed
// files surface as core.ErrDataUnavailable.
func (l *Loader) Candles(ctx context.Context, symbol string, tf core.Timeframe, count int) ([]core.Candle, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, core.WrapError(core.ErrDataUnavailable, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6

	var candles []core.Candle
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.WrapError(core.ErrDataUnavailable, err)
		}
		line++
		if line == 1 && record[0] == "time" {
			continue
		}

		c, err := parseRecord(record)
		if err != nil {
			return nil, core.WrapError(core.ErrDataUnavailable,
				fmt.Errorf("line %d: %w", line, err))
		}
		candles = append(candles, c)
	}

	history.SortByTime(candles)
	if count > 0 && len(candles) > count {
		candles = candles[len(candles)-count:]
	}
	return candles, nil
}

func parseRecord(record []string) (core.Candle, error) {
	t, err := parseTime(record[0])
	if err != nil {
		return core.Candle{}, err
	}

	fields := make([]float64, 5)
	for i, s := range record[1:] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return core.Candle{}, fmt.Errorf("parsing field %d: %w", i+1, err)
		}
		fields[i] = v
	}

	return core.Candle{
		Time:   t,
		Open:   fields[0],
		High:   fields[1],
		Low:    fields[2],
		Close:  fields[3],
		Volume: fields[4],
	}, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing time %q: %w", s, err)
	}
	return t, nil
}
