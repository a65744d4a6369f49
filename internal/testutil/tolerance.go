package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireBitIdentical fails t unless got and want hold the same float64
// bit patterns.
func RequireBitIdentical(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if math.Float64bits(got[i]) != math.Float64bits(want[i]) {
			t.Fatalf("index %d: got %v, want %v (bits differ)", i, got[i], want[i])
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}

// CumulativeLambdaMax returns max_j |Σ_{k≤j} (y[k] - mean(y))|, the closed
// form of the TVD lambda_max.
func CumulativeLambdaMax(y []float64) float64 {
	mean := Mean(y)
	var sum, best float64
	for _, v := range y[:len(y)-1] {
		sum += v - mean
		if a := math.Abs(sum); a > best {
			best = a
		}
	}
	return best
}
