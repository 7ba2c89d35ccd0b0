package usecase

import (
	"encoding/json"
	"fmt"

	"CryptoPredict/internal/domain/models"
)

const agentRequirement = "Analyze market data and provide trade decisions in JSON format."

// ContextBuilder assembles the request context handed to the decision
// agent. Pure: no I/O, no randomness, request asset order preserved.
type ContextBuilder struct{}

func NewContextBuilder() *ContextBuilder {
	return &ContextBuilder{}
}

func (b *ContextBuilder) Build(assets []string, interval string, account models.AccountState, snapshots []*models.IndicatorSnapshot) *models.RequestContext {
	return &models.RequestContext{
		Account:    account,
		MarketData: snapshots,
		Instructions: models.Instructions{
			Assets:      assets,
			Interval:    interval,
			Requirement: agentRequirement,
		},
	}
}

// SerializeContext renders the context to the JSON string passed to the
// agent. Serialized once per run and not mutated afterward.
func SerializeContext(rc *models.RequestContext) (string, error) {
	b, err := json.Marshal(rc)
	if err != nil {
		return "", fmt.Errorf("serialize context: %w", err)
	}
	return string(b), nil
}
