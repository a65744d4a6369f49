package time

import (
	"math"
	"slices"
)

// madToSigma converts a median absolute deviation of Gaussian data to its
// standard deviation: 1 / Φ⁻¹(3/4).
const madToSigma = 1.482602218505602

// Median returns the median of x without modifying it. Even lengths
// average the two middle values. An empty slice gives NaN.
func Median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	s := slices.Clone(x)
	slices.Sort(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return 0.5 * (s[n/2-1] + s[n/2])
}

// MAD returns the median absolute deviation of x from its median.
func MAD(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	med := Median(x)
	dev := make([]float64, len(x))
	for i, v := range x {
		dev[i] = math.Abs(v - med)
	}
	return Median(dev)
}

// NoiseSigma estimates the standard deviation of additive white Gaussian
// noise in a piecewise-constant signal. It uses the MAD of first
// differences, which ignores the few samples that straddle a jump.
// Signals shorter than two samples give NaN.
func NoiseSigma(y []float64) float64 {
	if len(y) < 2 {
		return math.NaN()
	}
	d := make([]float64, len(y)-1)
	for i := range d {
		d[i] = y[i+1] - y[i]
	}
	// A difference of two independent samples has variance 2σ².
	return madToSigma * MAD(d) / math.Sqrt2
}
