package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"CryptoPredict/pkg/config"
)

func TestDecideTradeSendsBatchRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/decide" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer k" {
			t.Fatalf("unexpected auth header %q", got)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		assets, _ := req["assets"].([]any)
		if len(assets) != 2 {
			t.Fatalf("expected 2 assets, got %v", req["assets"])
		}
		w.Write([]byte(`{"reasoning": "ok", "trade_decisions": []}`))
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.Agent.BaseURL = srv.URL
	cfg.Agent.APIKey = "k"
	c := New(cfg)

	out, err := c.DecideTrade(context.Background(), []string{"BTC", "ETH"}, `{"market_data":[]}`)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if out["reasoning"] != "ok" {
		t.Fatalf("unexpected output %v", out)
	}
}

func TestDecideTradeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.Agent.BaseURL = srv.URL
	c := New(cfg)

	if _, err := c.DecideTrade(context.Background(), []string{"BTC"}, "{}"); err == nil {
		t.Fatalf("expected error")
	}
}
