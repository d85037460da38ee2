package calculator

import (
	"math"

	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
)

// Indicator windows used by ComputeIndicators.
const (
	ShortSMAWindow   = 20
	LongSMAWindow    = 50
	RSIPeriod        = 14
	MACDFast         = 12
	MACDSlow         = 26
	VolatilityWindow = 20
)

// WarmupRows is the number of leading rows a clean series loses to the
// longest indicator window.
const WarmupRows = LongSMAWindow - 1

// ComputeIndicators derives SMA20, SMA50, RSI(14), MACD(12,26) and the
// 20-bar volatility of percentage returns for every bar, then drops each row
// where any of them is undefined. The input slice is not modified.
func ComputeIndicators(bars []model.OHLCV) []model.IndicatorRow {
	closes := extractCloses(bars)

	sma20 := SMA(closes, ShortSMAWindow)
	sma50 := SMA(closes, LongSMAWindow)
	rsi := RSI(closes, RSIPeriod)
	macd := MACD(closes, MACDFast, MACDSlow)
	vol := RollingStd(PctChange(closes), VolatilityWindow)

	rows := make([]model.IndicatorRow, 0, len(bars))
	for i, b := range bars {
		row := model.IndicatorRow{
			OHLCV:      b,
			SMA20:      sma20[i],
			SMA50:      sma50[i],
			RSI:        rsi[i],
			MACD:       macd[i],
			Volatility: vol[i],
		}
		if !defined(row.SMA20, row.SMA50, row.RSI, row.MACD, row.Volatility) {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func defined(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
