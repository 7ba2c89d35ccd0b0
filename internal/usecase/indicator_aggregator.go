package usecase

import (
	"context"
	"math"

	"CryptoPredict/internal/domain/models"
	drepo "CryptoPredict/internal/domain/repository"
	"CryptoPredict/pkg/config"
	xlogger "CryptoPredict/pkg/logger"
)

// IndicatorAggregator builds the per-asset multi-timeframe snapshot from
// the indicator source. Failures are contained at asset granularity: any
// upstream error degrades that asset to an error snapshot and nothing else.
type IndicatorAggregator struct {
	source     drepo.IndicatorSource
	logger     *xlogger.Logger
	intradayTF string
	longTermTF string
	seriesLen  int
}

func NewIndicatorAggregator(source drepo.IndicatorSource, logger *xlogger.Logger, cfg *config.Config) *IndicatorAggregator {
	return &IndicatorAggregator{
		source:     source,
		logger:     logger,
		intradayTF: cfg.Taapi.IntradayTimeframe,
		longTermTF: cfg.Taapi.LongTermTimeframe,
		seriesLen:  cfg.Taapi.SeriesLength,
	}
}

// Aggregate fetches all indicators for one asset. It never returns an
// error; a failed aggregation yields a snapshot with Error set and empty
// sections so downstream consumers need no shape check.
func (a *IndicatorAggregator) Aggregate(ctx context.Context, asset, interval string) *models.IndicatorSnapshot {
	snap, err := a.collect(ctx, asset)
	if err != nil {
		a.logger.Error("indicator aggregation failed",
			xlogger.String("asset", asset),
			xlogger.String("interval", interval),
			xlogger.Error(err),
		)
		return &models.IndicatorSnapshot{Asset: asset, Error: err.Error()}
	}
	return snap
}

func (a *IndicatorAggregator) collect(ctx context.Context, asset string) (*models.IndicatorSnapshot, error) {
	pair := asset + "/USDT"

	emaSeries, err := a.source.FetchSeries(ctx, "ema", pair, a.intradayTF, a.seriesLen, map[string]int{"period": 20}, "value")
	if err != nil {
		return nil, err
	}
	macdSeries, err := a.source.FetchSeries(ctx, "macd", pair, a.intradayTF, a.seriesLen, nil, "valueMACD")
	if err != nil {
		return nil, err
	}
	rsi7Series, err := a.source.FetchSeries(ctx, "rsi", pair, a.intradayTF, a.seriesLen, map[string]int{"period": 7}, "value")
	if err != nil {
		return nil, err
	}
	rsi14Series, err := a.source.FetchSeries(ctx, "rsi", pair, a.intradayTF, a.seriesLen, map[string]int{"period": 14}, "value")
	if err != nil {
		return nil, err
	}

	price, err := a.source.FetchValue(ctx, "price", pair, a.intradayTF, nil, "value")
	if err != nil {
		return nil, err
	}

	ltEMA20, err := a.source.FetchValue(ctx, "ema", pair, a.longTermTF, map[string]int{"period": 20}, "value")
	if err != nil {
		return nil, err
	}
	ltEMA50, err := a.source.FetchValue(ctx, "ema", pair, a.longTermTF, map[string]int{"period": 50}, "value")
	if err != nil {
		return nil, err
	}
	ltATR3, err := a.source.FetchValue(ctx, "atr", pair, a.longTermTF, map[string]int{"period": 3}, "value")
	if err != nil {
		return nil, err
	}
	ltATR14, err := a.source.FetchValue(ctx, "atr", pair, a.longTermTF, map[string]int{"period": 14}, "value")
	if err != nil {
		return nil, err
	}
	ltMACDSeries, err := a.source.FetchSeries(ctx, "macd", pair, a.longTermTF, a.seriesLen, nil, "valueMACD")
	if err != nil {
		return nil, err
	}
	ltRSISeries, err := a.source.FetchSeries(ctx, "rsi", pair, a.longTermTF, a.seriesLen, map[string]int{"period": 14}, "value")
	if err != nil {
		return nil, err
	}

	return &models.IndicatorSnapshot{
		Asset:        asset,
		CurrentPrice: Round2(price),
		Intraday: models.IntradayIndicators{
			EMA20: Round2(lastOf(emaSeries)),
			MACD:  Round2(lastOf(macdSeries)),
			RSI7:  Round2(lastOf(rsi7Series)),
			RSI14: Round2(lastOf(rsi14Series)),
			Series: models.IntradaySeries{
				EMA20: RoundSeries(emaSeries),
				MACD:  RoundSeries(macdSeries),
				RSI7:  RoundSeries(rsi7Series),
				RSI14: RoundSeries(rsi14Series),
			},
		},
		LongTerm: models.LongTermIndicators{
			EMA20:      Round2(ltEMA20),
			EMA50:      Round2(ltEMA50),
			ATR3:       Round2(ltATR3),
			ATR14:      Round2(ltATR14),
			MACDSeries: RoundSeries(ltMACDSeries),
			RSISeries:  RoundSeries(ltRSISeries),
		},
	}, nil
}

// Round2 rounds to 2 decimals. Nil and non-finite values map to nil, never
// to zero.
func Round2(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	r := math.Round(*v*100) / 100
	return &r
}

// RoundSeries rounds every entry of a series, preserving nil holes.
func RoundSeries(series []*float64) []*float64 {
	if len(series) == 0 {
		return nil
	}
	out := make([]*float64, len(series))
	for i, v := range series {
		out[i] = Round2(v)
	}
	return out
}

func lastOf(series []*float64) *float64 {
	if len(series) == 0 {
		return nil
	}
	return series[len(series)-1]
}
