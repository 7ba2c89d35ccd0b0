package taapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"CryptoPredict/pkg/config"
)

func newTestClient(url string) *Client {
	cfg := &config.Config{}
	cfg.Taapi.BaseURL = url
	cfg.Taapi.APIKey = "secret"
	cfg.Taapi.Exchange = "binance"
	return New(cfg).(*Client)
}

func TestFetchSeriesArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rsi" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("symbol") != "BTC/USDT" || q.Get("interval") != "5m" {
			t.Fatalf("unexpected query %v", q)
		}
		if q.Get("period") != "14" || q.Get("results") != "3" {
			t.Fatalf("unexpected params %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value": [55.1, null, 60.9]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	series, err := c.FetchSeries(context.Background(), "rsi", "BTC/USDT", "5m", 3, map[string]int{"period": 14}, "value")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("expected 3 values, got %d", len(series))
	}
	if series[0] == nil || *series[0] != 55.1 {
		t.Fatalf("unexpected first value %v", series[0])
	}
	if series[1] != nil {
		t.Fatalf("null entry must be nil")
	}
}

func TestFetchSeriesScalarFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"valueMACD": 1.23456}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	series, err := c.FetchSeries(context.Background(), "macd", "BTC/USDT", "5m", 10, nil, "valueMACD")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(series) != 1 || series[0] == nil || *series[0] != 1.23456 {
		t.Fatalf("unexpected series %v", series)
	}
}

func TestFetchValueMissingKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"other": 1}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.FetchValue(context.Background(), "ema", "BTC/USDT", "4h", map[string]int{"period": 20}, "value"); err == nil {
		t.Fatalf("expected error for missing key")
	}
}

func TestFetchValueUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.FetchValue(context.Background(), "ema", "BTC/USDT", "4h", nil, "value"); err == nil {
		t.Fatalf("expected error on upstream failure")
	}
}
