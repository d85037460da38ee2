package calculator

import (
	"fmt"
	"math"

	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
)

// Latest holds the most recent scalar indicator values of a series.
// SMA fields are NaN when the series is shorter than their window.
type Latest struct {
	Close float64
	SMA20 float64
	SMA50 float64
	RSI   float64
}

// LatestOf computes the latest close, SMA20, SMA50 and RSI of a series.
func LatestOf(series *model.PriceSeries) (*Latest, error) {
	if len(series.Bars) == 0 {
		return nil, fmt.Errorf("latest indicators %s: empty series", series.Symbol)
	}
	closes := series.Closes()
	l := &Latest{
		Close: closes[len(closes)-1],
		SMA20: math.NaN(),
		SMA50: math.NaN(),
	}
	if v, err := CalculateSMA(closes, ShortSMAWindow); err == nil {
		l.SMA20 = v
	}
	if v, err := CalculateSMA(closes, LongSMAWindow); err == nil {
		l.SMA50 = v
	}
	rsi, err := CalculateRSI(series.Bars, RSIPeriod)
	if err != nil {
		return nil, err
	}
	l.RSI = rsi
	return l, nil
}
