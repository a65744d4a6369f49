package core

import "math"

const defaultEpsilon = 1e-12

// NearlyEqual reports whether a and b are equal within eps, absolute for
// small values and relative otherwise.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// FirstNonFinite returns the index of the first NaN or Inf in x, or -1.
func FirstNonFinite(x []float64) int {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}

// Mean returns the arithmetic mean of x, or 0 for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

// LinearPowerToDB converts linear power to dB (10*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearPowerToDB(power float64) float64 {
	if power < 0 {
		return math.NaN()
	}

	if power == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(power)
}

// PowerRatioDB returns 10*log10(signal/noise). A zero noise power gives
// +Inf unless the signal power is zero too, which gives NaN.
func PowerRatioDB(signal, noise float64) float64 {
	if noise == 0 {
		if signal == 0 {
			return math.NaN()
		}
		return math.Inf(1)
	}
	return LinearPowerToDB(signal / noise)
}
