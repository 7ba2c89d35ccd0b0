package usecase

import (
	"context"

	"CryptoPredict/internal/domain/models"
	drepo "CryptoPredict/internal/domain/repository"
	domsvc "CryptoPredict/internal/domain/service"
	xlogger "CryptoPredict/pkg/logger"
)

// DecisionOrchestrator runs the single agent call per prediction cycle and
// normalizes whatever comes back into a DecisionBatch. Agent failures never
// propagate: they degrade to an empty batch with an error reasoning.
type DecisionOrchestrator struct {
	agent   domsvc.DecisionAgent
	metrics drepo.Metrics
	logger  *xlogger.Logger
}

func NewDecisionOrchestrator(agent domsvc.DecisionAgent, metrics drepo.Metrics, logger *xlogger.Logger) *DecisionOrchestrator {
	return &DecisionOrchestrator{agent: agent, metrics: metrics, logger: logger}
}

// Decide invokes the agent once for the whole asset batch.
func (o *DecisionOrchestrator) Decide(ctx context.Context, assets []string, marketContext string) *models.DecisionBatch {
	out, err := o.agent.DecideTrade(ctx, assets, marketContext)
	if err != nil {
		o.logger.Error("decision agent call failed",
			xlogger.Strings("assets", assets),
			xlogger.Error(err),
		)
		o.metrics.RecordError("agent")
		return &models.DecisionBatch{Reasoning: "Error: " + err.Error(), Decisions: []models.TradeDecision{}}
	}

	batch, ok := parseAgentOutput(out)
	if !ok {
		o.logger.Error("decision agent returned unusable output", xlogger.Strings("assets", assets))
		o.metrics.RecordError("agent_output")
		return &models.DecisionBatch{Reasoning: "Error", Decisions: []models.TradeDecision{}}
	}
	return batch
}

// parseAgentOutput lifts the loosely typed agent payload into a batch. A
// non-object payload is unusable; a missing trade_decisions key means no
// decisions, not an error.
func parseAgentOutput(out map[string]any) (*models.DecisionBatch, bool) {
	if out == nil {
		return nil, false
	}

	batch := &models.DecisionBatch{Decisions: []models.TradeDecision{}}
	if reasoning, ok := out["reasoning"].(string); ok {
		batch.Reasoning = reasoning
	}

	raw, ok := out["trade_decisions"].([]any)
	if !ok {
		if _, present := out["trade_decisions"]; present {
			return nil, false
		}
		return batch, true
	}

	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		d := models.TradeDecision{Action: models.ActionHold}
		if asset, ok := entry["asset"].(string); ok {
			d.Asset = asset
		}
		if action, ok := entry["action"].(string); ok && action != "" {
			d.Action = action
		}
		d.AllocationUSD = floatField(entry, "allocation_usd")
		d.TPPrice = floatField(entry, "tp_price")
		d.SLPrice = floatField(entry, "sl_price")
		d.Confidence = floatField(entry, "confidence")
		d.ExitPlan = stringField(entry, "exit_plan")
		d.Rationale = stringField(entry, "rationale")
		batch.Decisions = append(batch.Decisions, d)
	}
	return batch, true
}

func floatField(m map[string]any, key string) *float64 {
	switch v := m[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	default:
		return nil
	}
}

func stringField(m map[string]any, key string) *string {
	if s, ok := m[key].(string); ok {
		return &s
	}
	return nil
}
