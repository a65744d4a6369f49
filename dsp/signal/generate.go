package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-tvd/dsp/core"
)

// Generator creates deterministic test signals for denoising. Every call
// draws from a fresh source seeded with the generator seed, so equal seeds
// give equal output.
type Generator struct {
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Seed returns the current seed.
func (g *Generator) Seed() int64 {
	return g.seed
}

// SetSeed replaces the seed for subsequent calls.
func (g *Generator) SetSeed(seed int64) {
	g.seed = seed
}

func (g *Generator) rng() *rand.Rand {
	return rand.New(rand.NewSource(g.seed))
}

// Steps builds a piecewise-constant signal that holds levels[i] for
// lengths[i] samples.
func Steps(levels []float64, lengths []int) ([]float64, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("steps need at least one level")
	}
	if len(levels) != len(lengths) {
		return nil, fmt.Errorf("steps levels (%d) and lengths (%d) differ", len(levels), len(lengths))
	}
	total := 0
	for i, n := range lengths {
		if n <= 0 {
			return nil, fmt.Errorf("steps length %d must be > 0: %d", i, n)
		}
		total += n
	}
	out := make([]float64, total)
	pos := 0
	for i, level := range levels {
		core.Fill(out[pos:pos+lengths[i]], level)
		pos += lengths[i]
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := g.rng()
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// GaussianNoise generates deterministic zero-mean Gaussian noise with
// standard deviation sigma.
func (g *Generator) GaussianNoise(sigma float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if sigma < 0 || math.IsNaN(sigma) {
		return nil, fmt.Errorf("noise sigma must be >= 0: %f", sigma)
	}
	out := make([]float64, samples)
	rng := g.rng()
	for i := range out {
		out[i] = rng.NormFloat64() * sigma
	}
	return out, nil
}

// AddNoise returns x plus Gaussian noise of standard deviation sigma.
func (g *Generator) AddNoise(x []float64, sigma float64) ([]float64, error) {
	noise, err := g.GaussianNoise(sigma, len(x))
	if err != nil {
		return nil, err
	}
	for i, v := range x {
		noise[i] += v
	}
	return noise, nil
}

// Ricker returns a zero-phase Ricker (Mexican hat) wavelet of the given
// length and width parameter a, centred on the middle sample.
func Ricker(points int, a float64) ([]float64, error) {
	if points <= 0 {
		return nil, fmt.Errorf("ricker points must be > 0: %d", points)
	}
	if !(a > 0) {
		return nil, fmt.Errorf("ricker width must be > 0: %f", a)
	}
	amp := 2 / (math.Sqrt(3*a) * math.Pow(math.Pi, 0.25))
	wsq := a * a
	centre := float64(points-1) / 2
	out := make([]float64, points)
	for i := range out {
		t := float64(i) - centre
		tsq := t * t
		out[i] = amp * (1 - tsq/wsq) * math.Exp(-tsq/(2*wsq))
	}
	return out, nil
}

// Reflectivity generates a synthetic seismic trace: uniform random
// reflectivity in [-1, 1] convolved with an 80-point Ricker wavelet of
// width 5, trimmed to the input length.
func (g *Generator) Reflectivity(samples int) ([]float64, error) {
	ref, err := g.WhiteNoise(1, samples)
	if err != nil {
		return nil, err
	}
	wav, err := Ricker(80, 5)
	if err != nil {
		return nil, err
	}
	return convolveSame(ref, wav), nil
}

// convolveSame returns the centre len(x) samples of the full convolution
// x*h.
func convolveSame(x, h []float64) []float64 {
	out := make([]float64, len(x))
	offset := (len(h) - 1) / 2
	for i := range out {
		k := i + offset // index into the full convolution
		var sum float64
		for j, hv := range h {
			n := k - j
			if n < 0 {
				break
			}
			if n < len(x) {
				sum += x[n] * hv
			}
		}
		out[i] = sum
	}
	return out
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
