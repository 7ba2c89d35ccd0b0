package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"CryptoPredict/internal/domain/models"
	"CryptoPredict/pkg/config"
	xlogger "CryptoPredict/pkg/logger"
)

func testLogger() *xlogger.Logger {
	l, _ := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stdout"})
	return l
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Taapi.IntradayTimeframe = "5m"
	cfg.Taapi.LongTermTimeframe = "4h"
	cfg.Taapi.SeriesLength = 10
	return cfg
}

func ptr(v float64) *float64 { return &v }

// fakeSource returns a fixed value for every indicator call, or an error
// for assets listed in failPairs.
type fakeSource struct {
	value     float64
	failPairs map[string]bool
}

func (f *fakeSource) FetchSeries(_ context.Context, indicator, pair, _ string, results int, _ map[string]int, _ string) ([]*float64, error) {
	if f.failPairs[pair] {
		return nil, fmt.Errorf("upstream error for %s", pair)
	}
	series := make([]*float64, results)
	for i := range series {
		series[i] = ptr(f.value)
	}
	return series, nil
}

func (f *fakeSource) FetchValue(_ context.Context, indicator, pair, _ string, _ map[string]int, _ string) (*float64, error) {
	if f.failPairs[pair] {
		return nil, fmt.Errorf("upstream error for %s", pair)
	}
	return ptr(f.value), nil
}

// fakeAgent records what it was called with and replies with a canned
// payload or error.
type fakeAgent struct {
	mu      sync.Mutex
	calls   int
	assets  []string
	context string
	out     map[string]any
	err     error
}

func (f *fakeAgent) DecideTrade(_ context.Context, assets []string, marketContext string) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.assets = assets
	f.context = marketContext
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

// fakeStore captures inserted records and can be forced to fail.
type fakeStore struct {
	mu       sync.Mutex
	inserted []*models.PredictionRecord
	insertErr error
}

func (f *fakeStore) InsertBatch(_ context.Context, records []*models.PredictionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, records...)
	return nil
}

func (f *fakeStore) History(context.Context, string, time.Time, int) ([]*models.PredictionRecord, error) {
	return nil, nil
}

func (f *fakeStore) Latest(context.Context, string) (*models.PredictionRecord, error) {
	return nil, nil
}

func (f *fakeStore) Health(context.Context) error { return nil }
func (f *fakeStore) Close() error                 { return nil }

type fakePublisher struct {
	mu        sync.Mutex
	published []*models.PredictionRecord
	err       error
}

func (f *fakePublisher) PublishBatch(_ context.Context, records []*models.PredictionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, records...)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type fakeAccount struct{ balance float64 }

func (f *fakeAccount) AccountState(context.Context) models.AccountState {
	return models.AccountState{
		Balance:        f.balance,
		AccountValue:   f.balance,
		TotalReturnPct: 0.0,
		Positions:      []models.Position{},
	}
}

type nopMetrics struct{}

func (nopMetrics) RecordPrediction(string, string) {}
func (nopMetrics) RecordError(string)              {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)   {}
func (nopMetrics) RecordBatchSize(int)             {}
