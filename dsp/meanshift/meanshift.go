package meanshift

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-tvd/dsp/core"
)

// ErrInvalidConfig wraps every rejected input or setting.
var ErrInvalidConfig = errors.New("meanshift: invalid configuration")

// Kernel selects the value-distance kernel.
type Kernel int

const (
	// Hard weighs neighbours with ½(a-b)² <= β² by 1 and the rest by 0.
	Hard Kernel = iota
	// Soft weighs neighbours by exp(-β·½(a-b)²).
	Soft
)

// String returns "hard" or "soft".
func (k Kernel) String() string {
	switch k {
	case Hard:
		return "hard"
	case Soft:
		return "soft"
	default:
		return fmt.Sprintf("Kernel(%d)", int(k))
	}
}

// ParseKernel converts "hard" or "soft" to a Kernel.
func ParseKernel(s string) (Kernel, error) {
	switch s {
	case "hard":
		return Hard, nil
	case "soft":
		return Soft, nil
	default:
		return Hard, fmt.Errorf("%w: kernel %q", ErrInvalidConfig, s)
	}
}

func (k Kernel) weight(beta, d float64) float64 {
	if k == Soft {
		return math.Exp(-beta * d)
	}
	if d <= beta*beta {
		return 1
	}
	return 0
}

// Result is the outcome of a mean-shift run.
type Result struct {
	X          []float64
	Iterations int     // update steps taken
	Change     float64 // squared change of the last update
	Converged  bool    // Change fell below the stop tolerance
}

func invalid(field string, value any, reason string) error {
	return fmt.Errorf("%w: %s = %v: %s", ErrInvalidConfig, field, value, reason)
}

func validateSignal(y []float64) error {
	if len(y) == 0 {
		return invalid("signal length", 0, "need at least 1 sample")
	}
	if i := core.FirstNonFinite(y); i >= 0 {
		return invalid("signal", y[i], fmt.Sprintf("non-finite sample at index %d", i))
	}
	return nil
}

func validateCommon(kernel Kernel, beta, stopTol float64, maxIter int) error {
	if kernel != Hard && kernel != Soft {
		return invalid("kernel", kernel, "must be hard or soft")
	}
	if !(beta >= 0) || math.IsInf(beta, 0) {
		return invalid("beta", beta, "must be finite and >= 0")
	}
	if !(stopTol >= 0) || math.IsInf(stopTol, 0) {
		return invalid("stop tolerance", stopTol, "must be finite and >= 0")
	}
	if maxIter <= 0 {
		return invalid("max iterations", maxIter, "must be > 0")
	}
	return nil
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}

// squaredChange returns Σ(a[i] - b[i])².
func squaredChange(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}
