package repository

import (
	"context"
	"time"

	"CryptoPredict/internal/domain/models"
)

// IndicatorSource fetches computed technical indicators from the upstream
// indicator API. Every call is I/O-bound and honors ctx cancellation; a
// failed call returns an error the aggregator contains at asset level.
type IndicatorSource interface {
	// FetchSeries returns the most recent `results` values for the
	// indicator, oldest first. Entries the source could not compute are nil.
	FetchSeries(ctx context.Context, indicator, pair, timeframe string, results int, params map[string]int, valueKey string) ([]*float64, error)
	// FetchValue returns the single latest value, or nil when absent.
	FetchValue(ctx context.Context, indicator, pair, timeframe string, params map[string]int, key string) (*float64, error)
}

// PredictionStore is the durable, append-only record store for predictions.
type PredictionStore interface {
	// InsertBatch writes all records in one transaction. On failure nothing
	// is committed and the error is returned for the caller to log.
	InsertBatch(ctx context.Context, records []*models.PredictionRecord) error
	// History returns up to limit records for the asset generated before
	// the given time, newest first.
	History(ctx context.Context, asset string, before time.Time, limit int) ([]*models.PredictionRecord, error)
	// Latest returns the newest record for the asset, or (nil, nil) when none.
	Latest(ctx context.Context, asset string) (*models.PredictionRecord, error)
	Health(ctx context.Context) error
	Close() error
}

// EventPublisher announces committed prediction batches to downstream
// consumers. Publishing is best-effort and never blocks a response.
type EventPublisher interface {
	PublishBatch(ctx context.Context, records []*models.PredictionRecord) error
	Close() error
}

// Metrics records operational counters for the pipeline.
type Metrics interface {
	RecordPrediction(asset, action string)
	RecordError(kind string)
	RecordLastPrice(asset string, price float64)
	RecordLatency(op string, seconds float64)
	RecordBatchSize(n int)
}
