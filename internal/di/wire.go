//go:build wireinject
// +build wireinject

package di

import (
	"CryptoPredict/pkg/config"
	"CryptoPredict/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideCache,

		// Collaborator services
		ProvideIndicatorSource,
		ProvideDecisionAgent,
		ProvideAccountProvider,

		// Repositories
		ProvidePredictionStore,
		ProvideEventPublisher,

		// Use cases
		ProvideIndicatorAggregator,
		ProvideContextBuilder,
		ProvideDecisionOrchestrator,
		ProvidePredictionPipeline,

		// HTTP
		ProvidePredictionsHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
