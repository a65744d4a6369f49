package frequency

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// whiteFlatness is the expected flatness of a periodogram of white noise:
// exp(-γ) with γ the Euler-Mascheroni constant.
const whiteFlatness = 0.5614594835668851

// Stats describes a one-sided power spectrum (bins 0..n/2).
type Stats struct {
	BinCount int
	Total    float64 // sum of all bins
	PeakBin  int     // strongest bin, DC excluded
	Flatness float64 // geometric / arithmetic mean, DC excluded, 0..1
	// LowBandFraction is the share of non-DC power in the lowest quarter of
	// the bins. White noise gives about 0.25.
	LowBandFraction float64
}

// PowerSpectrum returns the one-sided periodogram |X_k|²/len(x) of x,
// zero-padded to the next power of two n. The result has n/2+1 bins.
func PowerSpectrum(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("frequency: empty input")
	}
	n := nextPow2(len(x))

	in := make([]complex128, n)
	for i, v := range x {
		in[i] = complex(v, 0)
	}
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("frequency: fft plan for %d points: %w", n, err)
	}
	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("frequency: forward fft: %w", err)
	}

	bins := n/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := 0; k < bins; k++ {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}
	power := make([]float64, bins)
	vecmath.Power(power, re, im)

	scale := 1 / float64(len(x))
	for k := range power {
		power[k] *= scale
	}
	return power, nil
}

// Calculate computes the spectrum descriptors of a power spectrum.
func Calculate(power []float64) Stats {
	s := Stats{BinCount: len(power)}
	for _, v := range power {
		s.Total += v
	}
	if len(power) < 2 {
		return s
	}

	peak := power[1]
	s.PeakBin = 1
	var acBand, low float64
	quarter := 1 + (len(power)-1)/4
	for k := 1; k < len(power); k++ {
		v := power[k]
		acBand += v
		if k < quarter {
			low += v
		}
		if v > peak {
			peak = v
			s.PeakBin = k
		}
	}
	if acBand > 0 {
		s.LowBandFraction = low / acBand
	}
	s.Flatness = Flatness(power)
	return s
}

// Flatness returns the spectral flatness (Wiener entropy) of a power
// spectrum: the ratio of geometric to arithmetic mean over bins 1..n-1.
// It is 1 for a perfectly flat spectrum and 0 if any bin is zero.
func Flatness(power []float64) float64 {
	n := len(power)
	if n < 2 {
		return 0
	}

	var sumLin, sumLog float64
	for _, v := range power[1:] {
		if v <= 0 {
			return 0
		}
		sumLin += v
		sumLog += math.Log(v)
	}
	bins := float64(n - 1)
	return math.Exp(sumLog/bins) / (sumLin / bins)
}

// Whiteness scores how close a denoising residual is to white noise: its
// spectral flatness after mean removal, divided by the flatness expected
// for a white periodogram. Values near 1 mean the residual carries no
// structure; values well below 1 mean signal leaked into it.
func Whiteness(residual []float64) (float64, error) {
	if len(residual) < 2 {
		return 0, fmt.Errorf("frequency: whiteness needs at least 2 samples, got %d", len(residual))
	}
	var mean float64
	for _, v := range residual {
		mean += v
	}
	mean /= float64(len(residual))
	centred := make([]float64, len(residual))
	for i, v := range residual {
		centred[i] = v - mean
	}

	power, err := PowerSpectrum(centred)
	if err != nil {
		return 0, err
	}
	return Flatness(power) / whiteFlatness, nil
}

func nextPow2(n int) int {
	p := 2
	for p < n {
		p <<= 1
	}
	return p
}
