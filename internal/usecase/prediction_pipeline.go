package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"CryptoPredict/internal/domain/models"
	drepo "CryptoPredict/internal/domain/repository"
	domsvc "CryptoPredict/internal/domain/service"
	xlogger "CryptoPredict/pkg/logger"
)

// PredictionPipeline drives one full prediction cycle: fan out indicator
// aggregation across assets, build the agent context, obtain the decision
// batch, persist and announce it. Persistence and publishing are
// best-effort; the caller always gets the response the agent produced.
type PredictionPipeline struct {
	aggregator   *IndicatorAggregator
	builder      *ContextBuilder
	orchestrator *DecisionOrchestrator
	store        drepo.PredictionStore
	events       drepo.EventPublisher
	account      domsvc.AccountStateProvider
	metrics      drepo.Metrics
	logger       *xlogger.Logger
}

func NewPredictionPipeline(
	aggregator *IndicatorAggregator,
	builder *ContextBuilder,
	orchestrator *DecisionOrchestrator,
	store drepo.PredictionStore,
	events drepo.EventPublisher,
	account domsvc.AccountStateProvider,
	metrics drepo.Metrics,
	logger *xlogger.Logger,
) *PredictionPipeline {
	return &PredictionPipeline{
		aggregator:   aggregator,
		builder:      builder,
		orchestrator: orchestrator,
		store:        store,
		events:       events,
		account:      account,
		metrics:      metrics,
		logger:       logger,
	}
}

// Run executes a prediction cycle for the requested assets. Snapshot slots
// keep the request order regardless of which fetch finishes first.
func (p *PredictionPipeline) Run(ctx context.Context, assets []string, interval string) (*models.PredictionResponse, error) {
	start := time.Now()

	snapshots := make([]*models.IndicatorSnapshot, len(assets))
	var wg sync.WaitGroup
	for i, asset := range assets {
		wg.Add(1)
		go func(i int, asset string) {
			defer wg.Done()
			snapshots[i] = p.aggregator.Aggregate(ctx, asset, interval)
		}(i, asset)
	}
	wg.Wait()

	account := p.account.AccountState(ctx)
	rc := p.builder.Build(assets, interval, account, snapshots)
	serialized, err := SerializeContext(rc)
	if err != nil {
		return nil, err
	}

	batch := p.orchestrator.Decide(ctx, assets, serialized)

	records := buildRecords(interval, batch, snapshots, account)
	if err := p.store.InsertBatch(ctx, records); err != nil {
		p.logger.Error("persist prediction batch failed",
			xlogger.Int("records", len(records)),
			xlogger.Error(err),
		)
		p.metrics.RecordError("store")
	} else if len(records) > 0 {
		p.metrics.RecordBatchSize(len(records))
		p.publishEvents(ctx, records)
	}

	for _, d := range batch.Decisions {
		p.metrics.RecordPrediction(d.Asset, d.Action)
	}
	for _, s := range snapshots {
		if s != nil && s.CurrentPrice != nil {
			p.metrics.RecordLastPrice(s.Asset, *s.CurrentPrice)
		}
	}
	p.metrics.RecordLatency("predict", time.Since(start).Seconds())

	return &models.PredictionResponse{
		Timestamp:      time.Now().UTC(),
		Reasoning:      batch.Reasoning,
		TradeDecisions: batch.Decisions,
		MarketData:     snapshots,
	}, nil
}

// buildRecords flattens a decision batch into persistence rows. Decisions
// for assets the aggregator never saw still get a row, with an empty
// snapshot and no price.
func buildRecords(interval string, batch *models.DecisionBatch, snapshots []*models.IndicatorSnapshot, account models.AccountState) []*models.PredictionRecord {
	now := time.Now().UTC()
	records := make([]*models.PredictionRecord, 0, len(batch.Decisions))
	for _, d := range batch.Decisions {
		snap := findSnapshot(snapshots, d.Asset)
		if snap == nil {
			snap = &models.IndicatorSnapshot{Asset: d.Asset}
		}
		marketData, err := json.Marshal(snap)
		if err != nil {
			marketData = []byte("{}")
		}
		records = append(records, &models.PredictionRecord{
			Timestamp:      now,
			Asset:          d.Asset,
			Interval:       interval,
			CurrentPrice:   snap.CurrentPrice,
			MarketData:     string(marketData),
			Reasoning:      batch.Reasoning,
			Action:         d.Action,
			AllocationUSD:  d.AllocationUSD,
			TPPrice:        d.TPPrice,
			SLPrice:        d.SLPrice,
			ExitPlan:       d.ExitPlan,
			Rationale:      d.Rationale,
			Confidence:     d.Confidence,
			AccountBalance: account.Balance,
			TotalReturnPct: account.TotalReturnPct,
		})
	}
	return records
}

func findSnapshot(snapshots []*models.IndicatorSnapshot, asset string) *models.IndicatorSnapshot {
	for _, s := range snapshots {
		if s != nil && s.Asset == asset {
			return s
		}
	}
	return nil
}

func (p *PredictionPipeline) publishEvents(ctx context.Context, records []*models.PredictionRecord) {
	if p.events == nil {
		return
	}
	if err := p.events.PublishBatch(ctx, records); err != nil {
		p.logger.Warn("publish prediction events failed",
			xlogger.Int("records", len(records)),
			xlogger.Error(err),
		)
		p.metrics.RecordError("events")
	}
}
