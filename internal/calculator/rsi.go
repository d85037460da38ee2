package calculator

import (
	"errors"
	"math"

	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
)

// RSI returns the relative strength index aligned to closes, using plain
// rolling means of gains and losses over period deltas. Entries 0..period-1
// are NaN. When the average loss is zero the value is 100.
func RSI(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	if period <= 0 {
		fillNaN(out)
		return out
	}
	for i := range closes {
		if i < period {
			out[i] = math.NaN()
			continue
		}
		out[i] = rsiFromWindow(closes[i-period:i+1], period)
	}
	return out
}

// rsiFromWindow computes RSI over period deltas of a period+1 window.
// A NaN inside the window makes the result NaN.
func rsiFromWindow(window []float64, period int) float64 {
	var gain, loss float64
	for j := 1; j < len(window); j++ {
		d := window[j] - window[j-1]
		if math.IsNaN(d) {
			return math.NaN()
		}
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// CalculateRSI returns the latest RSI value of the given bars.
// Requires at least period+1 bars. Returns 50.0 if data is insufficient.
func CalculateRSI(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < period+1 {
		return 50.0, nil // default when data insufficient
	}
	closes := extractCloses(bars)
	return rsiFromWindow(closes[len(closes)-period-1:], period), nil
}
