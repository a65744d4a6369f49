package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-tvd/dsp/signal"
	"github.com/cwbudde/algo-tvd/internal/config"
	"github.com/cwbudde/algo-tvd/internal/sigio"
)

// Signal kinds understood by generate.
const (
	kindSteps        = "steps"
	kindNoise        = "noise"
	kindReflectivity = "reflectivity"
)

type generateFlags struct {
	kind    string
	levels  string
	lengths string
	samples int
	sigma   float64
	seed    int64
	peak    float64
}

func newGenerateCmd(a *app) *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic test signal, one sample per line",
		Long: `generate writes deterministic test signals for solve:
  steps         piecewise-constant levels, optionally with Gaussian noise
  noise         zero-mean Gaussian noise
  reflectivity  random reflectivity convolved with a Ricker wavelet`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			x, err := f.generate()
			if err != nil {
				return err
			}
			a.logger.Debug("signal generated", "kind", f.kind, "samples", len(x), "seed", f.seed)
			return sigio.WriteSamples(cmd.OutOrStdout(), x)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.kind, "kind", kindSteps, "signal kind: steps, noise, reflectivity")
	fl.StringVar(&f.levels, "levels", "0,1,0", "step levels")
	fl.StringVar(&f.lengths, "lengths", "100,100,100", "samples per step level")
	fl.IntVar(&f.samples, "samples", 300, "length of noise and reflectivity signals")
	fl.Float64Var(&f.sigma, "sigma", 0, "Gaussian noise standard deviation")
	fl.Int64Var(&f.seed, "seed", 1, "random seed")
	fl.Float64Var(&f.peak, "normalize", 0, "scale the result to this peak amplitude, 0 to keep")
	return cmd
}

func (f *generateFlags) generate() ([]float64, error) {
	g := signal.NewGenerator(signal.WithSeed(f.seed))

	var (
		x   []float64
		err error
	)
	switch f.kind {
	case kindSteps:
		levels, perr := config.ParseLambdas(f.levels)
		if perr != nil {
			return nil, fmt.Errorf("--levels: %w", perr)
		}
		lengths, perr := parseInts(f.lengths)
		if perr != nil {
			return nil, fmt.Errorf("--lengths: %w", perr)
		}
		x, err = signal.Steps(levels, lengths)
		if err == nil && f.sigma > 0 {
			x, err = g.AddNoise(x, f.sigma)
		}
	case kindNoise:
		x, err = g.GaussianNoise(f.sigma, f.samples)
	case kindReflectivity:
		x, err = g.Reflectivity(f.samples)
	default:
		return nil, fmt.Errorf("unknown signal kind %q", f.kind)
	}
	if err != nil {
		return nil, err
	}
	if f.peak > 0 {
		return signal.Normalize(x, f.peak)
	}
	return x, nil
}

func parseInts(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
