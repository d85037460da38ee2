package calculator

import "math"

// PctChange returns the fractional change between consecutive values.
// Entry 0 is NaN, as is any entry whose previous value is not positive.
func PctChange(x []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		if i == 0 || x[i-1] <= 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (x[i] - x[i-1]) / x[i-1]
	}
	return out
}

// RollingStd returns the sample standard deviation (n-1) over a trailing
// window. Any NaN inside the window yields NaN.
func RollingStd(x []float64, window int) []float64 {
	out := make([]float64, len(x))
	if window <= 1 {
		fillNaN(out)
		return out
	}
	for i := range x {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		w := x[i-window+1 : i+1]
		mean := 0.0
		for _, v := range w {
			mean += v
		}
		mean /= float64(window)
		ss := 0.0
		for _, v := range w {
			d := v - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(window-1))
	}
	return out
}
