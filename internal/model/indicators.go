package model

// IndicatorRow is a price bar extended with derived technical indicators.
// Rows handed to the simulator never carry undefined (NaN) fields.
type IndicatorRow struct {
	OHLCV
	SMA20      float64 `json:"sma20"`
	SMA50      float64 `json:"sma50"`
	RSI        float64 `json:"rsi"`
	MACD       float64 `json:"macd"`
	Volatility float64 `json:"volatility"`
}

// DecisionState is the per-bar input of the decision rule.
//
// NewsSentiment and MarketSentiment are random draws in [-0.5, 0.5) and are
// not read by the rule. PortfolioValue, PositionSize and UnrealizedPnL are a
// snapshot of the running episode and are informational only.
type DecisionState struct {
	Price              float64 `json:"price"`
	PriceChangePercent float64 `json:"priceChange"`
	NormalizedVolume   float64 `json:"volume"`
	Volatility         float64 `json:"volatility"`
	SMA20              float64 `json:"sma20"`
	SMA50              float64 `json:"sma50"`
	RSI                float64 `json:"rsi"`
	MACD               float64 `json:"macd"`
	NewsSentiment      float64 `json:"newsSentiment"`
	MarketSentiment    float64 `json:"marketSentiment"`
	PortfolioValue     float64 `json:"portfolioValue"`
	PositionSize       float64 `json:"positionSize"`
	UnrealizedPnL      float64 `json:"unrealizedPnL"`
}
