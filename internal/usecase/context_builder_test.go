package usecase

import (
	"encoding/json"
	"testing"

	"CryptoPredict/internal/domain/models"
)

func TestBuildPreservesRequestOrder(t *testing.T) {
	b := NewContextBuilder()
	snapshots := []*models.IndicatorSnapshot{
		{Asset: "BTC"},
		{Asset: "ETH"},
		{Asset: "SOL"},
	}
	account := models.AccountState{Balance: 100, AccountValue: 100}

	rc := b.Build([]string{"BTC", "ETH", "SOL"}, "1h", account, snapshots)
	for i, want := range []string{"BTC", "ETH", "SOL"} {
		if rc.MarketData[i].Asset != want {
			t.Fatalf("market data out of order at %d: %q", i, rc.MarketData[i].Asset)
		}
	}
	if rc.Instructions.Interval != "1h" {
		t.Fatalf("unexpected interval %q", rc.Instructions.Interval)
	}
	if rc.Instructions.Requirement == "" {
		t.Fatalf("requirement text must be set")
	}
	if rc.Account.Balance != 100 {
		t.Fatalf("account state lost")
	}
}

func TestSerializeContextIsValidJSON(t *testing.T) {
	b := NewContextBuilder()
	rc := b.Build([]string{"BTC"}, "1h", models.AccountState{Balance: 50}, []*models.IndicatorSnapshot{{Asset: "BTC"}})

	s, err := SerializeContext(rc)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		t.Fatalf("not valid JSON: %v", err)
	}
	for _, key := range []string{"account", "market_data", "instructions"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("missing key %q", key)
		}
	}
}
