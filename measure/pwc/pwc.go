// Package pwc measures piecewise-constant (PWC) structure in a denoised
// signal: the constant runs and jumps it is made of, and how much of the
// input was removed as residual.
package pwc

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-tvd/dsp/banded"
	"github.com/cwbudde/algo-tvd/dsp/core"
	"github.com/cwbudde/algo-tvd/stats/frequency"
	timestats "github.com/cwbudde/algo-tvd/stats/time"
)

// defaultRelThreshold scales the range of x into the default jump
// threshold.
const defaultRelThreshold = 1e-3

// Errors returned by Analyze.
var (
	ErrLengthMismatch = errors.New("pwc: signal lengths differ")
	ErrTooShort       = errors.New("pwc: need at least 2 samples")
)

// Config holds analysis parameters.
type Config struct {
	// JumpThreshold is the smallest |x[i+1] - x[i]| counted as a jump.
	// Zero or negative selects 1e-3 of the range of x.
	JumpThreshold float64
}

// Segment is a maximal run [Start, End) of x without a jump.
type Segment struct {
	Start int
	End   int
	Level float64 // mean of x over the run
}

// Len returns the number of samples in the segment.
func (s Segment) Len() int {
	return s.End - s.Start
}

// Jump is the level change entering the segment that starts at Pos.
type Jump struct {
	Pos    int
	Height float64
}

// Report summarizes a denoising result.
type Report struct {
	Threshold      float64
	Segments       []Segment
	Jumps          []Jump
	TotalVariation float64 // ‖Dx‖₁

	Residual   timestats.Stats // statistics of y - x
	NoiseSigma float64         // noise estimate from y alone
	SNRdB      float64         // variance of x over variance of the residual
	Whiteness  float64         // residual whiteness, near 1 for pure noise
	Spectrum   frequency.Stats // residual power spectrum
}

// Segments splits x into constant runs separated by steps larger than
// threshold.
func Segments(x []float64, threshold float64) []Segment {
	if len(x) == 0 {
		return nil
	}
	var segs []Segment
	start := 0
	for i := 1; i <= len(x); i++ {
		if i < len(x) && math.Abs(x[i]-x[i-1]) <= threshold {
			continue
		}
		segs = append(segs, Segment{Start: start, End: i, Level: core.Mean(x[start:i])})
		start = i
	}
	return segs
}

// Jumps returns the level changes between consecutive segments.
func Jumps(segs []Segment) []Jump {
	if len(segs) < 2 {
		return nil
	}
	jumps := make([]Jump, 0, len(segs)-1)
	for i := 1; i < len(segs); i++ {
		jumps = append(jumps, Jump{Pos: segs[i].Start, Height: segs[i].Level - segs[i-1].Level})
	}
	return jumps
}

// Analyze compares the noisy input y with its denoised version x.
func Analyze(y, x []float64, cfg Config) (Report, error) {
	if len(y) != len(x) {
		return Report{}, fmt.Errorf("%w: y has %d samples, x has %d", ErrLengthMismatch, len(y), len(x))
	}
	if len(y) < 2 {
		return Report{}, ErrTooShort
	}

	xs := timestats.Calculate(x)
	threshold := cfg.JumpThreshold
	if threshold <= 0 {
		threshold = defaultRelThreshold * (xs.Max - xs.Min)
	}

	res := timestats.Residual(y, x)
	r := Report{
		Threshold:      threshold,
		Segments:       Segments(x, threshold),
		TotalVariation: banded.AbsSum(x),
		Residual:       timestats.Calculate(res),
		NoiseSigma:     timestats.NoiseSigma(y),
	}
	r.Jumps = Jumps(r.Segments)
	r.SNRdB = core.PowerRatioDB(xs.Variance, r.Residual.Variance)

	white, err := frequency.Whiteness(res)
	if err != nil {
		return Report{}, err
	}
	r.Whiteness = white

	power, err := frequency.PowerSpectrum(res)
	if err != nil {
		return Report{}, err
	}
	r.Spectrum = frequency.Calculate(power)
	return r, nil
}
