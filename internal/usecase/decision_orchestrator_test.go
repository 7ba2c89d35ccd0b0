package usecase

import (
	"context"
	"errors"
	"testing"
)

func TestDecideAgentErrorDegrades(t *testing.T) {
	ag := &fakeAgent{err: errors.New("connection refused")}
	o := NewDecisionOrchestrator(ag, nopMetrics{}, testLogger())

	batch := o.Decide(context.Background(), []string{"BTC"}, "{}")
	if batch.Reasoning != "Error: connection refused" {
		t.Fatalf("unexpected reasoning %q", batch.Reasoning)
	}
	if len(batch.Decisions) != 0 {
		t.Fatalf("expected no decisions, got %d", len(batch.Decisions))
	}
}

func TestDecideUnusableShapeDegrades(t *testing.T) {
	ag := &fakeAgent{out: map[string]any{"reasoning": "ok", "trade_decisions": "not a list"}}
	o := NewDecisionOrchestrator(ag, nopMetrics{}, testLogger())

	batch := o.Decide(context.Background(), []string{"BTC"}, "{}")
	if batch.Reasoning != "Error" {
		t.Fatalf("unexpected reasoning %q", batch.Reasoning)
	}
	if len(batch.Decisions) != 0 {
		t.Fatalf("expected no decisions, got %d", len(batch.Decisions))
	}
}

func TestDecideMissingDecisionsKeyIsEmptyBatch(t *testing.T) {
	ag := &fakeAgent{out: map[string]any{"reasoning": "nothing to do"}}
	o := NewDecisionOrchestrator(ag, nopMetrics{}, testLogger())

	batch := o.Decide(context.Background(), []string{"BTC"}, "{}")
	if batch.Reasoning != "nothing to do" {
		t.Fatalf("unexpected reasoning %q", batch.Reasoning)
	}
	if len(batch.Decisions) != 0 {
		t.Fatalf("expected empty decisions")
	}
}

func TestDecideParsesFieldsAndDefaultsAction(t *testing.T) {
	ag := &fakeAgent{out: map[string]any{
		"reasoning": "momentum building",
		"trade_decisions": []any{
			map[string]any{
				"asset":          "BTC",
				"action":         "buy",
				"allocation_usd": 25.0,
				"tp_price":       71000.5,
				"sl_price":       64000.0,
				"confidence":     0.7,
				"exit_plan":      "trail stop",
			},
			map[string]any{"asset": "ETH"},
		},
	}}
	o := NewDecisionOrchestrator(ag, nopMetrics{}, testLogger())

	batch := o.Decide(context.Background(), []string{"BTC", "ETH"}, "{}")
	if len(batch.Decisions) != 2 {
		t.Fatalf("expected 2 decisions, got %d", len(batch.Decisions))
	}

	buy := batch.Decisions[0]
	if buy.Asset != "BTC" || buy.Action != "buy" {
		t.Fatalf("unexpected decision %+v", buy)
	}
	if buy.Confidence == nil || *buy.Confidence != 0.7 {
		t.Fatalf("expected confidence 0.7, got %v", buy.Confidence)
	}
	if buy.ExitPlan == nil || *buy.ExitPlan != "trail stop" {
		t.Fatalf("expected exit plan, got %v", buy.ExitPlan)
	}
	if buy.Rationale != nil {
		t.Fatalf("absent rationale must stay nil")
	}

	hold := batch.Decisions[1]
	if hold.Action != "hold" {
		t.Fatalf("missing action must default to hold, got %q", hold.Action)
	}
	if hold.AllocationUSD != nil || hold.Confidence != nil {
		t.Fatalf("absent numeric fields must stay nil")
	}
}

func TestDecideSingleAgentCall(t *testing.T) {
	ag := &fakeAgent{out: map[string]any{"reasoning": "r", "trade_decisions": []any{}}}
	o := NewDecisionOrchestrator(ag, nopMetrics{}, testLogger())

	o.Decide(context.Background(), []string{"BTC", "ETH", "SOL"}, "{}")
	if ag.calls != 1 {
		t.Fatalf("expected 1 agent call for the whole batch, got %d", ag.calls)
	}
	if len(ag.assets) != 3 {
		t.Fatalf("expected all assets in one call, got %v", ag.assets)
	}
}
