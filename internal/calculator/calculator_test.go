package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
)

func makeBars(closes []float64) []model.OHLCV {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000000,
		}
	}
	return bars
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateSMA(t *testing.T) {
	v, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 4 {
		t.Errorf("expected 4, got %f", v)
	}
	if _, err := CalculateSMA([]float64{1, 2}, 3); err == nil {
		t.Error("expected error for short input")
	}
	if _, err := CalculateSMA([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for non-positive period")
	}
}

func TestSMA_Warmup(t *testing.T) {
	out := SMA([]float64{1, 2, 3, 4, 5}, 3)
	for i := 0; i < 2; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("index %d: expected NaN, got %f", i, out[i])
		}
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if !almostEqual(out[i+2], w) {
			t.Errorf("index %d: expected %f, got %f", i+2, w, out[i+2])
		}
	}
}

func TestEMA_SeedsWithFirstValue(t *testing.T) {
	out := EMA([]float64{1, 2, 4}, 3) // alpha = 0.5
	want := []float64{1, 1.5, 2.75}
	for i, w := range want {
		if !almostEqual(out[i], w) {
			t.Errorf("index %d: expected %f, got %f", i, w, out[i])
		}
	}
}

func TestRSI_Monotonic(t *testing.T) {
	up := make([]float64, 30)
	down := make([]float64, 30)
	for i := range up {
		up[i] = 100 + float64(i)
		down[i] = 200 - float64(i)
	}
	rUp := RSI(up, 14)
	rDown := RSI(down, 14)
	for i := 0; i < 14; i++ {
		if !math.IsNaN(rUp[i]) {
			t.Errorf("index %d: expected NaN during warmup, got %f", i, rUp[i])
		}
	}
	for i := 14; i < 30; i++ {
		if rUp[i] != 100 {
			t.Errorf("rising index %d: expected 100, got %f", i, rUp[i])
		}
		if rDown[i] != 0 {
			t.Errorf("falling index %d: expected 0, got %f", i, rDown[i])
		}
	}
}

func TestRSI_KnownValue(t *testing.T) {
	// 14 deltas: seven +2, seven -1 -> avgGain 1, avgLoss 0.5, RS 2
	closes := []float64{100}
	for i := 0; i < 7; i++ {
		closes = append(closes, closes[len(closes)-1]+2)
		closes = append(closes, closes[len(closes)-1]-1)
	}
	out := RSI(closes, 14)
	want := 100 - 100/3.0
	if !almostEqual(out[14], want) {
		t.Errorf("expected %f, got %f", want, out[14])
	}
}

func TestCalculateRSI(t *testing.T) {
	bars := makeBars([]float64{1, 2, 3})
	v, err := CalculateRSI(bars, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 50 {
		t.Errorf("expected neutral 50 for short input, got %f", v)
	}
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 50 - float64(i)
	}
	v, err = CalculateRSI(makeBars(closes), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0 {
		t.Errorf("expected 0 for falling series, got %f", v)
	}
	if _, err := CalculateRSI(bars, 0); err == nil {
		t.Error("expected error for non-positive period")
	}
}

func TestRollingStd_Sample(t *testing.T) {
	out := RollingStd([]float64{1, 2, 3, 4}, 2)
	if !math.IsNaN(out[0]) {
		t.Errorf("expected NaN warmup, got %f", out[0])
	}
	want := math.Sqrt(0.5)
	for i := 1; i < 4; i++ {
		if !almostEqual(out[i], want) {
			t.Errorf("index %d: expected %f, got %f", i, want, out[i])
		}
	}
}

func TestPctChange(t *testing.T) {
	out := PctChange([]float64{100, 110, 0, 5})
	if !math.IsNaN(out[0]) {
		t.Errorf("expected NaN at 0, got %f", out[0])
	}
	if !almostEqual(out[1], 0.1) {
		t.Errorf("expected 0.1, got %f", out[1])
	}
	if !math.IsNaN(out[3]) {
		t.Errorf("expected NaN after zero close, got %f", out[3])
	}
}

func TestComputeIndicators_DropsWarmup(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/5)
	}
	bars := makeBars(closes)
	rows := ComputeIndicators(bars)
	if len(rows) != len(bars)-WarmupRows {
		t.Fatalf("expected %d rows, got %d", len(bars)-WarmupRows, len(rows))
	}
	if !rows[0].Time.Equal(bars[WarmupRows].Time) {
		t.Errorf("first row should be bar %d", WarmupRows)
	}
	for i, r := range rows {
		if !defined(r.SMA20, r.SMA50, r.RSI, r.MACD, r.Volatility) {
			t.Fatalf("row %d has undefined indicator: %+v", i, r)
		}
		if r.RSI < 0 || r.RSI > 100 {
			t.Errorf("row %d: RSI out of range: %f", i, r.RSI)
		}
	}
}

func TestComputeIndicators_ConstantPrice(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 42
	}
	rows := ComputeIndicators(makeBars(closes))
	if len(rows) != 60-WarmupRows {
		t.Fatalf("expected %d rows, got %d", 60-WarmupRows, len(rows))
	}
	for i, r := range rows {
		if r.SMA20 != 42 || r.SMA50 != 42 {
			t.Errorf("row %d: expected SMAs of 42, got %f/%f", i, r.SMA20, r.SMA50)
		}
		if r.RSI != 100 {
			t.Errorf("row %d: expected zero-loss RSI of 100, got %f", i, r.RSI)
		}
		if math.Abs(r.MACD) > 1e-9 || r.Volatility != 0 {
			t.Errorf("row %d: expected zero MACD and volatility, got %f/%f", i, r.MACD, r.Volatility)
		}
	}
}

func TestComputeIndicators_ShortSeries(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	if rows := ComputeIndicators(makeBars(closes)); len(rows) != 0 {
		t.Errorf("expected no rows for 40 bars, got %d", len(rows))
	}
	if rows := ComputeIndicators(nil); len(rows) != 0 {
		t.Errorf("expected no rows for empty input, got %d", len(rows))
	}
}

func TestComputeIndicators_DoesNotMutateInput(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 50 + float64(i%7)
	}
	bars := makeBars(closes)
	before := make([]model.OHLCV, len(bars))
	copy(before, bars)
	ComputeIndicators(bars)
	for i := range bars {
		if bars[i] != before[i] {
			t.Fatalf("bar %d mutated", i)
		}
	}
}

func TestLatestOf(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = float64(i + 1)
	}
	l, err := LatestOf(&model.PriceSeries{Symbol: "X", Bars: makeBars(closes)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// mean of 41..60 and 11..60
	if l.Close != 60 || !almostEqual(l.SMA20, 50.5) || !almostEqual(l.SMA50, 35.5) {
		t.Errorf("unexpected values: %+v", l)
	}
	if l.RSI != 100 {
		t.Errorf("expected RSI 100 for rising closes, got %f", l.RSI)
	}

	short, err := LatestOf(&model.PriceSeries{Bars: makeBars(closes[:30])})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(short.SMA20, 20.5) || !math.IsNaN(short.SMA50) {
		t.Errorf("expected SMA20 only for 30 bars, got %+v", short)
	}

	if _, err := LatestOf(&model.PriceSeries{}); err == nil {
		t.Error("expected error for empty series")
	}
}
