package strategy

import (
	"math"

	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
)

// VolumeScale normalizes raw share volume into the decision state.
const VolumeScale = 1e9

// Fallbacks used when an indicator arrives undefined. The indicator pipeline
// drops such rows, so these only guard direct callers.
const (
	FallbackVolatility = 0.5
	FallbackRSI        = 50.0
	FallbackMACD       = 0.0
)

// Snapshot carries the simulator's running totals into a decision state.
type Snapshot struct {
	PortfolioValue float64
	PositionSize   float64
	UnrealizedPnL  float64
}

// BuildState converts one indicator row into a decision state.
// prevClose is the close of the previously consumed row, or the row's own
// close for the first row. The two sentiment fields are drawn from noise and
// are telemetry only: Decide never reads them.
func BuildState(row *model.IndicatorRow, prevClose float64, noise NoiseSource, snap Snapshot) model.DecisionState {
	change := 0.0
	if prevClose > 0 {
		change = (row.Close - prevClose) / prevClose * 100
	}

	return model.DecisionState{
		Price:              row.Close,
		PriceChangePercent: change,
		NormalizedVolume:   row.Volume / VolumeScale,
		Volatility:         orDefault(row.Volatility, FallbackVolatility),
		SMA20:              row.SMA20,
		SMA50:              row.SMA50,
		RSI:                orDefault(row.RSI, FallbackRSI),
		MACD:               orDefault(row.MACD, FallbackMACD),
		NewsSentiment:      noise.Sentiment(),
		MarketSentiment:    noise.Sentiment(),
		PortfolioValue:     snap.PortfolioValue,
		PositionSize:       snap.PositionSize,
		UnrealizedPnL:      snap.UnrealizedPnL,
	}
}

func orDefault(v, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	return v
}
