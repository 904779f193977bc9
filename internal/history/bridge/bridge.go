// Package bridge fetches historical candles from a terminal bridge
// over HTTP.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stratlab/stratlab/internal/core"
	"github.com/stratlab/stratlab/internal/history"
)

const defaultTimeout = 10 * time.Second

// Client talks to the bridge's candle endpoint. It implements
// history.Provider.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a Client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

type candlesResponse struct {
	Error   string       `json:"error,omitempty"`
	Candles []wireCandle `json:"candles"`
}

type wireCandle struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Candles fetches up to count bars of the symbol. The result is sorted
// oldest first. Transport errors, non-200 responses and bridge-side
// errors all surface as core.ErrDataUnavailable.
func (c *Client) Candles(ctx context.Context, symbol string, tf core.Timeframe, count int) ([]core.Candle, error) {
	if count > history.MaxCandles {
		count = history.MaxCandles
	}
	url := fmt.Sprintf("%s/candles/%s/%s/%d", c.baseURL, symbol, tf, count)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, core.WrapError(core.ErrDataUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrDataUnavailable,
			fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var result candlesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, core.WrapError(core.ErrDataUnavailable,
			fmt.Errorf("decoding response: %w", err))
	}
	if result.Error != "" {
		return nil, core.WrapError(core.ErrDataUnavailable,
			fmt.Errorf("bridge error: %s", result.Error))
	}

	candles := make([]core.Candle, 0, len(result.Candles))
	for i, wc := range result.Candles {
		t, err := parseTime(wc.Time)
		if err != nil {
			return nil, core.WrapError(core.ErrDataUnavailable,
				fmt.Errorf("candle %d: %w", i, err))
		}
		candles = append(candles, core.Candle{
			Open:   wc.Open,
			High:   wc.High,
			Low:    wc.Low,
			Close:  wc.Close,
			Volume: wc.Volume,
			Time:   t,
		})
	}

	history.SortByTime(candles)
	return candles, nil
}

// parseTime accepts the bridge's "2006-01-02 15:04:05" layout as well
// as RFC 3339.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing candle time %q: %w", s, err)
	}
	return t, nil
}
