package meanshift

import (
	"log/slog"
)

// BilateralConfig holds the settings of [Bilateral].
type BilateralConfig struct {
	Kernel Kernel
	// Beta is the Gaussian precision for Soft and the value support for
	// Hard.
	Beta float64
	// Width is the spatial half-window W: sample i averages samples
	// i-W..i+W.
	Width int
	// StopTol ends the iteration once the squared change of an update is
	// below it.
	StopTol float64
	MaxIter int
	Logger  *slog.Logger
}

// DefaultBilateralConfig returns a soft kernel with β = 200, W = 5,
// tolerance 1e-3 and at most 50 iterations.
func DefaultBilateralConfig() BilateralConfig {
	return BilateralConfig{
		Kernel:  Soft,
		Beta:    200,
		Width:   5,
		StopTol: 1e-3,
		MaxIter: 50,
	}
}

// Validate checks the settings.
func (c BilateralConfig) Validate() error {
	if c.Width < 0 {
		return invalid("width", c.Width, "must be >= 0")
	}
	return validateCommon(c.Kernel, c.Beta, c.StopTol, c.MaxIter)
}

// Bilateral denoises y by bilateral mean-shift filtering. y is not
// modified. When MaxIter is reached the last iterate is returned with
// Converged false.
func Bilateral(y []float64, cfg BilateralConfig) (Result, error) {
	if err := validateSignal(y); err != nil {
		return Result{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	log := loggerOrDiscard(cfg.Logger)

	n := len(y)
	xold := make([]float64, n)
	xnew := make([]float64, n)
	copy(xold, y)

	res := Result{}
	for iter := 0; iter < cfg.MaxIter; iter++ {
		for i := range xnew {
			lo := max(0, i-cfg.Width)
			hi := min(n-1, i+cfg.Width)
			var num, den float64
			for j := lo; j <= hi; j++ {
				d := xold[i] - xold[j]
				w := cfg.Kernel.weight(cfg.Beta, 0.5*d*d)
				num += w * xold[j]
				den += w
			}
			// The centre sample has weight 1, so den >= 1.
			xnew[i] = num / den
		}
		res.Iterations++
		res.Change = squaredChange(xold, xnew)
		log.Debug("bilateral iteration", "iteration", iter, "change", res.Change)

		xold, xnew = xnew, xold
		if res.Change < cfg.StopTol {
			res.Converged = true
			break
		}
	}
	res.X = xold

	if res.Converged {
		log.Debug("bilateral converged", "iterations", res.Iterations)
	} else {
		log.Warn("bilateral filter did not converge",
			"iterations", res.Iterations, "change", res.Change, "tolerance", cfg.StopTol)
	}
	return res, nil
}
