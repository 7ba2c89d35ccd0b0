package usecase

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestPipeline(src *fakeSource, ag *fakeAgent, store *fakeStore, pub *fakePublisher) *PredictionPipeline {
	logger := testLogger()
	cfg := testConfig()
	var events = pub
	aggregator := NewIndicatorAggregator(src, logger, cfg)
	orchestrator := NewDecisionOrchestrator(ag, nopMetrics{}, logger)
	if events == nil {
		return NewPredictionPipeline(aggregator, NewContextBuilder(), orchestrator, store, nil, &fakeAccount{balance: 100}, nopMetrics{}, logger)
	}
	return NewPredictionPipeline(aggregator, NewContextBuilder(), orchestrator, store, events, &fakeAccount{balance: 100}, nopMetrics{}, logger)
}

func TestRunEndToEnd(t *testing.T) {
	src := &fakeSource{value: 68000.123}
	ag := &fakeAgent{out: map[string]any{
		"reasoning": "breakout above resistance",
		"trade_decisions": []any{
			map[string]any{"asset": "BTC", "action": "buy", "confidence": 0.7},
		},
	}}
	store := &fakeStore{}
	pub := &fakePublisher{}
	p := newTestPipeline(src, ag, store, pub)

	before := time.Now().UTC()
	res, err := p.Run(context.Background(), []string{"BTC"}, "1h")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Reasoning != "breakout above resistance" {
		t.Fatalf("unexpected reasoning %q", res.Reasoning)
	}
	if len(res.TradeDecisions) != 1 || res.TradeDecisions[0].Action != "buy" {
		t.Fatalf("unexpected decisions %+v", res.TradeDecisions)
	}
	if res.Timestamp.Before(before) {
		t.Fatalf("timestamp must be taken at response construction")
	}
	if len(res.MarketData) != 1 || res.MarketData[0].Asset != "BTC" {
		t.Fatalf("unexpected market data %+v", res.MarketData)
	}

	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 persisted record, got %d", len(store.inserted))
	}
	rec := store.inserted[0]
	if rec.Asset != "BTC" || rec.Action != "buy" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.CurrentPrice == nil || *rec.CurrentPrice != 68000.12 {
		t.Fatalf("expected rounded price from snapshot, got %v", rec.CurrentPrice)
	}
	if rec.Confidence == nil || *rec.Confidence != 0.7 {
		t.Fatalf("expected confidence 0.7, got %v", rec.Confidence)
	}
	if rec.AccountBalance != 100 {
		t.Fatalf("expected account balance 100, got %v", rec.AccountBalance)
	}
	if rec.MarketData == "" {
		t.Fatalf("record must carry serialized snapshot")
	}

	if len(pub.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.published))
	}
}

func TestRunEmptyAssetList(t *testing.T) {
	ag := &fakeAgent{out: map[string]any{"reasoning": "no assets", "trade_decisions": []any{}}}
	store := &fakeStore{}
	p := newTestPipeline(&fakeSource{value: 1}, ag, store, nil)

	res, err := p.Run(context.Background(), nil, "1h")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.MarketData) != 0 {
		t.Fatalf("expected empty market data")
	}
	if ag.calls != 1 {
		t.Fatalf("agent must still be invoked once, got %d calls", ag.calls)
	}
	if len(store.inserted) != 0 {
		t.Fatalf("nothing to persist, got %d records", len(store.inserted))
	}
}

func TestRunStoreFailureDoesNotAffectResponse(t *testing.T) {
	ag := &fakeAgent{out: map[string]any{
		"reasoning":       "r",
		"trade_decisions": []any{map[string]any{"asset": "BTC", "action": "sell"}},
	}}
	store := &fakeStore{insertErr: errors.New("clickhouse down")}
	pub := &fakePublisher{}
	p := newTestPipeline(&fakeSource{value: 1}, ag, store, pub)

	res, err := p.Run(context.Background(), []string{"BTC"}, "1h")
	if err != nil {
		t.Fatalf("store failure must not surface: %v", err)
	}
	if len(res.TradeDecisions) != 1 || res.TradeDecisions[0].Action != "sell" {
		t.Fatalf("response must be unchanged, got %+v", res.TradeDecisions)
	}
	if len(pub.published) != 0 {
		t.Fatalf("events must not be published when persistence fails")
	}
}

func TestRunUnknownAssetDecisionStillPersisted(t *testing.T) {
	ag := &fakeAgent{out: map[string]any{
		"reasoning":       "r",
		"trade_decisions": []any{map[string]any{"asset": "DOGE", "action": "buy"}},
	}}
	store := &fakeStore{}
	p := newTestPipeline(&fakeSource{value: 5}, ag, store, nil)

	if _, err := p.Run(context.Background(), []string{"BTC"}, "1h"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 record, got %d", len(store.inserted))
	}
	rec := store.inserted[0]
	if rec.Asset != "DOGE" {
		t.Fatalf("unexpected asset %q", rec.Asset)
	}
	if rec.CurrentPrice != nil {
		t.Fatalf("asset without snapshot must have nil price, got %v", rec.CurrentPrice)
	}
}

func TestRunFailedAssetDoesNotPoisonOthers(t *testing.T) {
	src := &fakeSource{value: 10, failPairs: map[string]bool{"ETH/USDT": true}}
	ag := &fakeAgent{out: map[string]any{"reasoning": "r", "trade_decisions": []any{}}}
	p := newTestPipeline(src, ag, &fakeStore{}, nil)

	res, err := p.Run(context.Background(), []string{"BTC", "ETH", "SOL"}, "1h")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.MarketData) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(res.MarketData))
	}
	for i, want := range []string{"BTC", "ETH", "SOL"} {
		if res.MarketData[i].Asset != want {
			t.Fatalf("request order lost at %d: %q", i, res.MarketData[i].Asset)
		}
	}
	if res.MarketData[0].Failed() || res.MarketData[2].Failed() {
		t.Fatalf("healthy assets must not fail")
	}
	if !res.MarketData[1].Failed() {
		t.Fatalf("ETH snapshot must carry the error")
	}
}
