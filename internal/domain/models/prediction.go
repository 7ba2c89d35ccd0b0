package models

import "time"

// Action values produced by the decision agent.
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
	ActionHold = "hold"
)

// IntradayIndicators holds short-timeframe indicator values for one asset.
// Latest values are rounded to 2 decimals; nil means the source returned
// no usable value (never coerced to zero).
type IntradayIndicators struct {
	EMA20  *float64      `json:"ema20,omitempty"`
	MACD   *float64      `json:"macd,omitempty"`
	RSI7   *float64      `json:"rsi7,omitempty"`
	RSI14  *float64      `json:"rsi14,omitempty"`
	Series IntradaySeries `json:"series,omitempty"`
}

// IntradaySeries holds the recent per-indicator value series backing the
// intraday latest values.
type IntradaySeries struct {
	EMA20 []*float64 `json:"ema20,omitempty"`
	MACD  []*float64 `json:"macd,omitempty"`
	RSI7  []*float64 `json:"rsi7,omitempty"`
	RSI14 []*float64 `json:"rsi14,omitempty"`
}

// LongTermIndicators holds long-timeframe indicator values for one asset.
type LongTermIndicators struct {
	EMA20      *float64   `json:"ema20,omitempty"`
	EMA50      *float64   `json:"ema50,omitempty"`
	ATR3       *float64   `json:"atr3,omitempty"`
	ATR14      *float64   `json:"atr14,omitempty"`
	MACDSeries []*float64 `json:"macd_series,omitempty"`
	RSISeries  []*float64 `json:"rsi_series,omitempty"`
}

// IndicatorSnapshot is the normalized multi-timeframe view of one asset.
// Asset is always set. On aggregation failure Error is non-empty and the
// section structs stay empty; consumers never need a shape check.
type IndicatorSnapshot struct {
	Asset        string             `json:"asset"`
	CurrentPrice *float64           `json:"current_price,omitempty"`
	Intraday     IntradayIndicators `json:"intraday"`
	LongTerm     LongTermIndicators `json:"long_term"`
	Error        string             `json:"error,omitempty"`
}

// Failed reports whether the snapshot carries an aggregation error.
func (s *IndicatorSnapshot) Failed() bool { return s.Error != "" }

// Position is one open position in the account view.
type Position struct {
	Asset      string  `json:"asset"`
	Quantity   float64 `json:"quantity"`
	EntryPrice float64 `json:"entry_price"`
}

// AccountState is an immutable-for-the-request view of the trading account.
type AccountState struct {
	Balance        float64    `json:"balance"`
	AccountValue   float64    `json:"account_value"`
	TotalReturnPct float64    `json:"total_return_pct"`
	Positions      []Position `json:"positions"`
}

// Instructions tells the agent which assets were requested and what to do.
type Instructions struct {
	Assets      []string `json:"assets"`
	Interval    string   `json:"interval"`
	Requirement string   `json:"requirement"`
}

// RequestContext is the full payload serialized once and handed to the
// decision agent. It is never mutated after construction.
type RequestContext struct {
	Account      AccountState         `json:"account"`
	MarketData   []*IndicatorSnapshot `json:"market_data"`
	Instructions Instructions         `json:"instructions"`
}

// TradeDecision is one per-asset decision from the agent. All fields except
// Asset and Action are optional; absent stays nil, never a sentinel.
type TradeDecision struct {
	Asset         string   `json:"asset"`
	Action        string   `json:"action"`
	AllocationUSD *float64 `json:"allocation_usd,omitempty"`
	TPPrice       *float64 `json:"tp_price,omitempty"`
	SLPrice       *float64 `json:"sl_price,omitempty"`
	ExitPlan      *string  `json:"exit_plan,omitempty"`
	Rationale     *string  `json:"rationale,omitempty"`
	Confidence    *float64 `json:"confidence,omitempty"`
}

// DecisionBatch is the validated outcome of one agent invocation. A failed
// or malformed call yields a non-empty Reasoning and zero Decisions.
type DecisionBatch struct {
	Reasoning string
	Decisions []TradeDecision
}

// PredictionRecord is the persisted row for one decision. Append-only:
// created at batch commit, never updated.
type PredictionRecord struct {
	ID             uint64    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Asset          string    `json:"asset"`
	Interval       string    `json:"interval"`
	CurrentPrice   *float64  `json:"current_price"`
	MarketData     string    `json:"market_data"` // serialized IndicatorSnapshot
	Reasoning      string    `json:"reasoning"`
	Action         string    `json:"action"`
	AllocationUSD  *float64  `json:"allocation_usd"`
	TPPrice        *float64  `json:"tp_price"`
	SLPrice        *float64  `json:"sl_price"`
	ExitPlan       *string   `json:"exit_plan"`
	Rationale      *string   `json:"rationale"`
	Confidence     *float64  `json:"confidence"`
	AccountBalance float64   `json:"account_balance"`
	TotalReturnPct float64   `json:"total_return_pct"`
}
