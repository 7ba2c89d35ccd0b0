package service

import (
	"context"

	"CryptoPredict/internal/domain/models"
)

// DecisionAgent is the external reasoning component. It receives the full
// requested asset list and the serialized market context and returns a
// loosely-structured mapping expected to carry "reasoning" and
// "trade_decisions". Shape validation happens at the orchestrator boundary,
// not here.
type DecisionAgent interface {
	DecideTrade(ctx context.Context, assets []string, marketContext string) (map[string]any, error)
}

// AccountStateProvider yields the account view used for one pipeline run.
// Injected so tests and future portfolio models can substitute balances.
type AccountStateProvider interface {
	AccountState(ctx context.Context) models.AccountState
}
