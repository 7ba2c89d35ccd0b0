package account

import (
	"context"

	"CryptoPredict/internal/domain/models"
	domsvc "CryptoPredict/internal/domain/service"
	"CryptoPredict/pkg/config"
)

// StaticProvider serves a fixed account view from configuration: flat
// balance, no open positions, zero return. Placeholder until a real
// portfolio model exists.
type StaticProvider struct {
	balance float64
}

func NewStaticProvider(cfg *config.Config) domsvc.AccountStateProvider {
	return &StaticProvider{balance: cfg.Account.DefaultBalance}
}

func (p *StaticProvider) AccountState(ctx context.Context) models.AccountState {
	return models.AccountState{
		Balance:        p.balance,
		AccountValue:   p.balance,
		TotalReturnPct: 0.0,
		Positions:      []models.Position{},
	}
}
