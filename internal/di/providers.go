package di

import (
	"context"
	"fmt"
	"time"

	"CryptoPredict/internal/domain/repository"
	domsvc "CryptoPredict/internal/domain/service"
	"CryptoPredict/internal/handler/api"
	internalrepo "CryptoPredict/internal/repository"
	"CryptoPredict/internal/service/account"
	"CryptoPredict/internal/service/agent"
	icache "CryptoPredict/internal/service/cache"
	"CryptoPredict/internal/service/taapi"
	"CryptoPredict/internal/usecase"
	pkgch "CryptoPredict/pkg/clickhouse"
	"CryptoPredict/pkg/config"
	pkgkafka "CryptoPredict/pkg/kafka"
	xlogger "CryptoPredict/pkg/logger"
	"CryptoPredict/pkg/metrics"
	"CryptoPredict/pkg/server"
)

const predictionsSchema = `CREATE TABLE IF NOT EXISTS %s.predictions (
	id UInt64,
	ts DateTime64(3, 'UTC'),
	asset String,
	` + "`interval`" + ` String,
	current_price Nullable(Float64),
	market_data String,
	reasoning String,
	action String,
	allocation_usd Nullable(Float64),
	tp_price Nullable(Float64),
	sl_price Nullable(Float64),
	exit_plan Nullable(String),
	rationale Nullable(String),
	confidence Nullable(Float64),
	account_balance Float64,
	total_return_pct Float64
) ENGINE = MergeTree ORDER BY (asset, ts)`

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*xlogger.Logger, error) {
	format := "console"
	if cfg.Environment == "production" {
		format = "json"
	}
	return xlogger.New(&xlogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client and initializes the
// predictions schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
		fmt.Sprintf(predictionsSchema, cfg.ClickHouse.Database),
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer when event publishing is
// enabled; otherwise it returns nil and the pipeline skips publishing.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Events.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithRequiredAcks(cfg.Events.RequiredAcks),
		pkgkafka.WithCompression(cfg.Events.Compression),
		pkgkafka.WithMaxAttempts(cfg.Events.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Events.WriteTimeout, cfg.Events.WriteTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideIndicatorSource creates the TAAPI-backed indicator source.
func ProvideIndicatorSource(cfg *config.Config) repository.IndicatorSource {
	return taapi.New(cfg)
}

// ProvideDecisionAgent creates the AI decision agent client.
func ProvideDecisionAgent(cfg *config.Config) domsvc.DecisionAgent {
	return agent.New(cfg)
}

// ProvideAccountProvider creates the account state provider.
func ProvideAccountProvider(cfg *config.Config) domsvc.AccountStateProvider {
	return account.NewStaticProvider(cfg)
}

// ProvidePredictionStore creates ClickHouse-backed prediction storage.
func ProvidePredictionStore(chClient *pkgch.Client, cfg *config.Config) repository.PredictionStore {
	return internalrepo.NewClickHousePredictionStore(chClient.DB(), cfg.ClickHouse.Database+".predictions")
}

// ProvideEventPublisher creates the Kafka event publisher, or nil when the
// producer is disabled.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Events.Topic)
}

// ProvideCache selects the response cache backend from configuration.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	if !cfg.Cache.Enabled {
		return nil
	}
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideIndicatorAggregator creates the per-asset indicator aggregator.
func ProvideIndicatorAggregator(source repository.IndicatorSource, logger *xlogger.Logger, cfg *config.Config) *usecase.IndicatorAggregator {
	return usecase.NewIndicatorAggregator(source, logger, cfg)
}

// ProvideContextBuilder creates the agent context builder.
func ProvideContextBuilder() *usecase.ContextBuilder {
	return usecase.NewContextBuilder()
}

// ProvideDecisionOrchestrator creates the decision orchestrator.
func ProvideDecisionOrchestrator(ag domsvc.DecisionAgent, m repository.Metrics, logger *xlogger.Logger) *usecase.DecisionOrchestrator {
	return usecase.NewDecisionOrchestrator(ag, m, logger)
}

// ProvidePredictionPipeline creates the full prediction pipeline.
func ProvidePredictionPipeline(
	aggregator *usecase.IndicatorAggregator,
	builder *usecase.ContextBuilder,
	orchestrator *usecase.DecisionOrchestrator,
	store repository.PredictionStore,
	events repository.EventPublisher,
	acct domsvc.AccountStateProvider,
	m repository.Metrics,
	logger *xlogger.Logger,
) *usecase.PredictionPipeline {
	return usecase.NewPredictionPipeline(aggregator, builder, orchestrator, store, events, acct, m, logger)
}

// ProvidePredictionsHandler creates the HTTP handler and wires the
// optional response cache.
func ProvidePredictionsHandler(
	logger *xlogger.Logger,
	pipeline *usecase.PredictionPipeline,
	store repository.PredictionStore,
	cache icache.BytesCache,
	cfg *config.Config,
) *api.PredictionsHandler {
	h := api.NewPredictionsHandler(logger, pipeline, store)
	if cache != nil {
		h.SetCache(cache, cfg.Cache.TTL)
	}
	return h
}

// ProvideApp creates the application server. With Kafka enabled, error
// logs are aggregated and shipped alongside prediction events.
func ProvideApp(
	cfg *config.Config,
	logger *xlogger.Logger,
	handler *api.PredictionsHandler,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) *server.App {
	if producer != nil {
		logger.AttachCollector(&xlogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Events.Topic + ".logs",
			Publisher:      producer,
		})
	}
	return server.New(cfg, logger, handler, chClient, producer)
}
