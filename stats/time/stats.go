package time

import "math"

// Stats holds time-domain statistics of a signal or a denoising residual.
type Stats struct {
	Length        int
	Mean          float64
	RMS           float64
	Variance      float64 // population variance
	StdDev        float64
	Min           float64
	MinPos        int
	Max           float64
	MaxPos        int
	Peak          float64 // max(|max|, |min|)
	Energy        float64 // sum of squares
	Skewness      float64
	Kurtosis      float64 // excess kurtosis, 0 for a Gaussian
	ZeroCrossings int
}

// Calculate computes all statistics in a single pass. Moments use Welford's
// online update so large DC offsets do not swamp the variance.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{}
	}

	var mean, m2, m3, m4, sumSq float64
	s := Stats{
		Length: n,
		Min:    signal[0],
		Max:    signal[0],
	}

	for i, x := range signal {
		k := float64(i) // samples seen before x
		ni := k + 1
		delta := x - mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * k

		// M4 before M3 before M2.
		m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m2 - 4*deltaN*m3
		m3 += term1*deltaN*(ni-2) - 3*deltaN*m2
		m2 += term1
		mean += deltaN

		sumSq += x * x
		if x > s.Max {
			s.Max, s.MaxPos = x, i
		}
		if x < s.Min {
			s.Min, s.MinPos = x, i
		}
		if i > 0 && signal[i-1]*x < 0 {
			s.ZeroCrossings++
		}
	}

	nf := float64(n)
	s.Mean = mean
	s.Energy = sumSq
	s.RMS = math.Sqrt(sumSq / nf)
	s.Peak = math.Max(math.Abs(s.Max), math.Abs(s.Min))
	s.Variance = m2 / nf
	s.StdDev = math.Sqrt(s.Variance)
	if s.Variance > 0 {
		s.Skewness = (m3 / nf) / (s.Variance * s.StdDev)
		s.Kurtosis = (m4/nf)/(s.Variance*s.Variance) - 3
	}
	return s
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// Residual returns y - x. It panics if the lengths differ.
func Residual(y, x []float64) []float64 {
	if len(y) != len(x) {
		panic("time: Residual length mismatch")
	}
	out := make([]float64, len(y))
	for i := range y {
		out[i] = y[i] - x[i]
	}
	return out
}
