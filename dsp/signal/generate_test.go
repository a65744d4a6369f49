package signal

import (
	"math"
	"testing"
)

func TestSteps(t *testing.T) {
	out, err := Steps([]float64{1, -2, 0.5}, []int{2, 1, 3})
	if err != nil {
		t.Fatalf("Steps() error = %v", err)
	}
	want := []float64{1, 1, -2, 0.5, 0.5, 0.5}
	if len(out) != len(want) {
		t.Fatalf("len = %d, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d]=%v, want %v", i, out[i], want[i])
		}
	}
}

func TestStepsErrors(t *testing.T) {
	tests := []struct {
		name    string
		levels  []float64
		lengths []int
	}{
		{name: "empty", levels: nil, lengths: nil},
		{name: "mismatch", levels: []float64{1, 2}, lengths: []int{3}},
		{name: "zero length", levels: []float64{1}, lengths: []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Steps(tt.levels, tt.lengths); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	g1 := NewGenerator(WithSeed(42))
	g2 := NewGenerator(WithSeed(42))

	n1, err := g1.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	n2, err := g2.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	for i := range n1 {
		if n1[i] != n2[i] {
			t.Fatalf("noise mismatch at %d: %v != %v", i, n1[i], n2[i])
		}
		if math.Abs(n1[i]) > 1 {
			t.Fatalf("noise[%d] = %v out of range", i, n1[i])
		}
	}
}

func TestSetSeed(t *testing.T) {
	g := NewGenerator()
	if g.Seed() != 1 {
		t.Fatalf("default Seed()=%d, want 1", g.Seed())
	}
	g.SetSeed(99)
	if g.Seed() != 99 {
		t.Fatalf("Seed()=%d, want 99", g.Seed())
	}

	a, err := g.WhiteNoise(1, 8)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	g.SetSeed(100)
	b, err := g.WhiteNoise(1, 8)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected different seeds to produce different noise")
	}
}

func TestGaussianNoiseMoments(t *testing.T) {
	g := NewGenerator(WithSeed(7))
	const n = 20000
	out, err := g.GaussianNoise(0.5, n)
	if err != nil {
		t.Fatalf("GaussianNoise() error = %v", err)
	}
	var sum, sumSq float64
	for _, v := range out {
		sum += v
		sumSq += v * v
	}
	mean := sum / n
	std := math.Sqrt(sumSq/n - mean*mean)
	if math.Abs(mean) > 0.02 {
		t.Fatalf("mean=%v, want near 0", mean)
	}
	if math.Abs(std-0.5) > 0.02 {
		t.Fatalf("std=%v, want near 0.5", std)
	}
}

func TestNoiseErrors(t *testing.T) {
	g := NewGenerator()
	if _, err := g.WhiteNoise(1, 0); err == nil {
		t.Fatal("expected error for zero samples")
	}
	if _, err := g.WhiteNoise(-1, 4); err == nil {
		t.Fatal("expected error for negative amplitude")
	}
	if _, err := g.GaussianNoise(math.NaN(), 4); err == nil {
		t.Fatal("expected error for NaN sigma")
	}
	if _, err := g.AddNoise(nil, 1); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestAddNoise(t *testing.T) {
	g := NewGenerator(WithSeed(3))
	x := []float64{1, 2, 3, 4}
	out, err := g.AddNoise(x, 0)
	if err != nil {
		t.Fatalf("AddNoise() error = %v", err)
	}
	for i := range x {
		if out[i] != x[i] {
			t.Fatalf("out[%d]=%v, want %v with zero sigma", i, out[i], x[i])
		}
	}
	if &out[0] == &x[0] {
		t.Fatal("AddNoise must not modify its input in place")
	}
}

func TestRicker(t *testing.T) {
	w, err := Ricker(81, 4)
	if err != nil {
		t.Fatalf("Ricker() error = %v", err)
	}
	peak := 2 / (math.Sqrt(12) * math.Pow(math.Pi, 0.25))
	if math.Abs(w[40]-peak) > 1e-12 {
		t.Fatalf("centre=%v, want %v", w[40], peak)
	}
	for i := 0; i < 40; i++ {
		if math.Abs(w[i]-w[80-i]) > 1e-15 {
			t.Fatalf("wavelet not symmetric at %d", i)
		}
	}
	// Zero crossings at |t| = a.
	if math.Abs(w[36]) > 1e-12 || math.Abs(w[44]) > 1e-12 {
		t.Fatalf("expected zeros at t=±4, got %v %v", w[36], w[44])
	}
	if _, err := Ricker(0, 1); err == nil {
		t.Fatal("expected error for zero points")
	}
	if _, err := Ricker(8, 0); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestConvolveSame(t *testing.T) {
	got := convolveSame([]float64{1, 2, 3}, []float64{0, 1, 0.5})
	want := []float64{1, 2.5, 4}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-15 {
			t.Fatalf("got[%d]=%v, want %v", i, got[i], want[i])
		}
	}
	got = convolveSame([]float64{1, 2, 3}, []float64{1, 1})
	want = []float64{1, 3, 5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-15 {
			t.Fatalf("even kernel got[%d]=%v, want %v", i, got[i], want[i])
		}
	}
}

func TestReflectivity(t *testing.T) {
	g := NewGenerator(WithSeed(5))
	a, err := g.Reflectivity(256)
	if err != nil {
		t.Fatalf("Reflectivity() error = %v", err)
	}
	b, _ := g.Reflectivity(256)
	if len(a) != 256 {
		t.Fatalf("len = %d, want 256", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("trace not deterministic at %d", i)
		}
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{-0.5, 1.0, -0.25}, 0.5)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if out[1] != 0.5 {
		t.Fatalf("peak = %v, want 0.5", out[1])
	}
	if _, err := Normalize(nil, 1); err == nil {
		t.Fatal("expected error for empty input")
	}
}
