package time

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-tvd/internal/testutil"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		want float64
	}{
		{name: "odd", x: []float64{3, 1, 2}, want: 2},
		{name: "even", x: []float64{4, 1, 3, 2}, want: 2.5},
		{name: "single", x: []float64{-7}, want: -7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]float64(nil), tt.x...)
			if got := Median(in); got != tt.want {
				t.Fatalf("Median = %v, want %v", got, tt.want)
			}
			testutil.RequireSliceNearlyEqual(t, in, tt.x, 0)
		})
	}
	if !math.IsNaN(Median(nil)) {
		t.Fatal("Median(nil) should be NaN")
	}
}

func TestMAD(t *testing.T) {
	// median 2, deviations 1 0 1 2 -> median 1
	if got := MAD([]float64{1, 2, 3, 4, 2}); got != 1 {
		t.Fatalf("MAD = %v, want 1", got)
	}
	if !math.IsNaN(MAD(nil)) {
		t.Fatal("MAD(nil) should be NaN")
	}
}

func TestNoiseSigmaIgnoresSteps(t *testing.T) {
	const sigma = 0.2
	rng := rand.New(rand.NewSource(8))
	y := testutil.Steps([]float64{0, 5, -3, 2}, []int{500, 500, 500, 500})
	for i := range y {
		y[i] += sigma * rng.NormFloat64()
	}

	got := NoiseSigma(y)
	if math.Abs(got-sigma) > 0.02 {
		t.Fatalf("NoiseSigma = %v, want about %v", got, sigma)
	}
}

func TestNoiseSigmaEdgeCases(t *testing.T) {
	if !math.IsNaN(NoiseSigma([]float64{1})) {
		t.Fatal("expected NaN for a single sample")
	}
	if got := NoiseSigma(testutil.DC(3, 10)); got != 0 {
		t.Fatalf("NoiseSigma of a constant = %v, want 0", got)
	}
}
