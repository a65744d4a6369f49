package testutil

import (
	"math/rand"
)

// StepSignal is the three-level reference signal used across the solver
// tests: levels near 1, 2 and 3 over 5, 4 and 4 samples.
func StepSignal() []float64 {
	return []float64{1, 1.1, 0.9, 1.1, 0.95, 2.1, 1.95, 2.0, 2.05, 3.11, 2.99, 3.05, 3.0}
}

// Steps builds a piecewise-constant signal holding levels[i] for
// lengths[i] samples. It panics if the slices differ in length.
func Steps(levels []float64, lengths []int) []float64 {
	if len(levels) != len(lengths) {
		panic("testutil: levels and lengths differ in length")
	}
	var out []float64
	for i, level := range levels {
		for j := 0; j < lengths[i]; j++ {
			out = append(out, level)
		}
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// NoisySteps adds seeded uniform noise of the given amplitude to Steps.
func NoisySteps(seed int64, amplitude float64, levels []float64, lengths []int) []float64 {
	out := Steps(levels, lengths)
	noise := DeterministicNoise(seed, amplitude, len(out))
	for i := range out {
		out[i] += noise[i]
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
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
