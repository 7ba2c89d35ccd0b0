package models

import "time"

// PredictRequest is the inbound prediction request body.
type PredictRequest struct {
	Assets   []string `json:"assets" validate:"max=20,dive,min=1,max=12"`
	Interval string   `json:"interval" default:"1h"`
}

// PredictionResponse mirrors what the pipeline computed for one run.
// Timestamp is taken at response construction, not request arrival.
type PredictionResponse struct {
	Timestamp      time.Time            `json:"timestamp"`
	Reasoning      string               `json:"reasoning"`
	TradeDecisions []TradeDecision      `json:"trade_decisions"`
	MarketData     []*IndicatorSnapshot `json:"market_data"`
}

// HistoryEntry is the trimmed per-row view returned by the history endpoint.
type HistoryEntry struct {
	ID           uint64    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Asset        string    `json:"asset"`
	Action       string    `json:"action"`
	Reasoning    string    `json:"reasoning"`
	CurrentPrice *float64  `json:"current_price"`
	Confidence   *float64  `json:"confidence"`
}
