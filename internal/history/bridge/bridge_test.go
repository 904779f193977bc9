package bridge

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stratlab/stratlab/internal/core"
)

func TestCandles_SortsOldestFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/candles/XAUUSD/H1/3" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"candles":[
			{"time":"2024-05-01 02:00:00","open":101,"high":102,"low":100,"close":101.5,"volume":10},
			{"time":"2024-05-01 00:00:00","open":100,"high":101,"low":99,"close":100.5,"volume":12},
			{"time":"2024-05-01 01:00:00","open":100.5,"high":101.5,"low":100,"close":101,"volume":8}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	candles, err := c.Candles(context.Background(), "XAUUSD", core.TimeframeH1, 3)
	if err != nil {
		t.Fatalf("Candles: %v", err)
	}

	if len(candles) != 3 {
		t.Fatalf("len = %d, want 3", len(candles))
	}
	for i, want := range []float64{100.5, 101, 101.5} {
		if candles[i].Close != want {
			t.Errorf("candles[%d].Close = %f, want %f", i, candles[i].Close, want)
		}
	}
	if !candles[0].Time.Before(candles[1].Time) {
		t.Error("candles not sorted by time")
	}
}

func TestCandles_BridgeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"symbol not found","candles":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Candles(context.Background(), "NOPE", core.TimeframeH1, 10)

	if !errors.Is(err, core.ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
}

func TestCandles_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Candles(context.Background(), "XAUUSD", core.TimeframeH1, 10)

	if !errors.Is(err, core.ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
}

func TestCandles_ConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL)
	_, err := c.Candles(context.Background(), "XAUUSD", core.TimeframeH1, 10)

	if !errors.Is(err, core.ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
}

func TestCandles_CapsCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/candles/XAUUSD/H1/1000" {
			t.Errorf("path = %s, want capped count", r.URL.Path)
		}
		w.Write([]byte(`{"candles":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.Candles(context.Background(), "XAUUSD", core.TimeframeH1, 5000); err != nil {
		t.Fatalf("Candles: %v", err)
	}
}

func TestCandles_BadTimestamp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candles":[{"time":"yesterday","open":1,"high":1,"low":1,"close":1,"volume":1}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Candles(context.Background(), "XAUUSD", core.TimeframeH1, 1)

	if !errors.Is(err, core.ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
}
