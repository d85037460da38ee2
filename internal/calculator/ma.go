package calculator

import (
	"errors"
	"math"

	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// SMA returns the rolling simple moving average aligned to x.
// The first period-1 entries are NaN.
func SMA(x []float64, period int) []float64 {
	out := make([]float64, len(x))
	if period <= 0 {
		fillNaN(out)
		return out
	}
	var sum float64
	for i := range x {
		sum += x[i]
		if i >= period {
			sum -= x[i-period]
		}
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(period)
	}
	return out
}

// EMA returns the exponential moving average with alpha = 2/(span+1),
// seeded with the first value (no warmup average).
func EMA(x []float64, span int) []float64 {
	out := make([]float64, len(x))
	if span <= 0 {
		fillNaN(out)
		return out
	}
	if len(x) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = x[0]
	for i := 1; i < len(x); i++ {
		out[i] = alpha*x[i] + (1-alpha)*out[i-1]
	}
	return out
}

// MACD returns EMA(fast) - EMA(slow) aligned to x.
func MACD(x []float64, fast, slow int) []float64 {
	f := EMA(x, fast)
	s := EMA(x, slow)
	out := make([]float64, len(x))
	for i := range x {
		out[i] = f[i] - s[i]
	}
	return out
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

func fillNaN(out []float64) {
	for i := range out {
		out[i] = math.NaN()
	}
}
