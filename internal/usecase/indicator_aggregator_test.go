package usecase

import (
	"context"
	"math"
	"testing"
)

func TestAggregateRoundsToTwoDecimals(t *testing.T) {
	agg := NewIndicatorAggregator(&fakeSource{value: 12.34567}, testLogger(), testConfig())

	snap := agg.Aggregate(context.Background(), "BTC", "1h")
	if snap.Failed() {
		t.Fatalf("unexpected error: %s", snap.Error)
	}
	if snap.Asset != "BTC" {
		t.Fatalf("unexpected asset %q", snap.Asset)
	}
	if snap.Intraday.EMA20 == nil || *snap.Intraday.EMA20 != 12.35 {
		t.Fatalf("expected ema20 12.35, got %v", snap.Intraday.EMA20)
	}
	if snap.CurrentPrice == nil || *snap.CurrentPrice != 12.35 {
		t.Fatalf("expected current price 12.35, got %v", snap.CurrentPrice)
	}
	for _, v := range snap.Intraday.Series.RSI14 {
		if v == nil || *v != 12.35 {
			t.Fatalf("expected rounded series entry, got %v", v)
		}
	}
	if len(snap.Intraday.Series.EMA20) != 10 {
		t.Fatalf("expected 10 series entries, got %d", len(snap.Intraday.Series.EMA20))
	}
}

func TestAggregateFailureYieldsErrorSnapshot(t *testing.T) {
	src := &fakeSource{value: 1, failPairs: map[string]bool{"BTC/USDT": true}}
	agg := NewIndicatorAggregator(src, testLogger(), testConfig())

	snap := agg.Aggregate(context.Background(), "BTC", "1h")
	if !snap.Failed() {
		t.Fatalf("expected failed snapshot")
	}
	if snap.Asset != "BTC" {
		t.Fatalf("asset must survive failure, got %q", snap.Asset)
	}
	if snap.CurrentPrice != nil {
		t.Fatalf("failed snapshot must not carry a price")
	}
	if snap.Intraday.EMA20 != nil || snap.LongTerm.EMA50 != nil {
		t.Fatalf("failed snapshot must have empty sections")
	}
}

func TestRound2AbsentStaysNil(t *testing.T) {
	if Round2(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
	nan := math.NaN()
	if Round2(&nan) != nil {
		t.Fatalf("NaN must map to nil")
	}
	inf := math.Inf(1)
	if Round2(&inf) != nil {
		t.Fatalf("Inf must map to nil")
	}
	if got := Round2(ptr(99.999)); got == nil || *got != 100.0 {
		t.Fatalf("expected 100.0, got %v", got)
	}
}

func TestRoundSeriesPreservesHoles(t *testing.T) {
	series := RoundSeries([]*float64{ptr(1.005), nil, ptr(2.344)})
	if len(series) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(series))
	}
	if series[1] != nil {
		t.Fatalf("hole must stay nil")
	}
	if *series[2] != 2.34 {
		t.Fatalf("expected 2.34, got %v", *series[2])
	}
}
