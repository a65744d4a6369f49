package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-tvd/internal/batch"
	"github.com/cwbudde/algo-tvd/internal/config"
	"github.com/cwbudde/algo-tvd/internal/metrics"
	"github.com/cwbudde/algo-tvd/internal/sigio"
	"github.com/cwbudde/algo-tvd/measure/pwc"
)

type solveFlags struct {
	input         inputFlags
	output        string
	lambdas       string
	relative      bool
	steps         int
	minRatio      float64
	tolerance     float64
	maxIterations int
	workers       int
	analyze       bool
	signals       bool
	jump          float64
	textfile      string

	method  string
	kernel  string
	beta    float64
	width   int
	k       int
	biased  bool
	seed    int64
	stopTol float64
}

func newSolveCmd(a *app) *cobra.Command {
	f := &solveFlags{}
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Denoise every input trace along a λ path",
		Long: `solve reads one or more traces and denoises each for every λ of the
path. Without --lambdas the path has --steps values spaced geometrically
from lambda_max down to --min-ratio·lambda_max.

--method bilateral or cluster replaces the λ path with a single
mean-shift estimate per trace, tuned by --kernel, --beta, --stop-tol and
--max-iterations. --width applies to bilateral; --k, --biased and --seed
apply to cluster.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSolve(cmd, a, f)
		},
	}
	f.input.register(cmd)
	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", sigio.OutputText, "output format: text, csv, json")
	fl.StringVar(&f.lambdas, "lambdas", "", "comma-separated λ values, solved in order")
	fl.BoolVar(&f.relative, "relative", false, "treat --lambdas as fractions of lambda_max")
	fl.IntVar(&f.steps, "steps", 0, "number of geometric path values when --lambdas is empty")
	fl.Float64Var(&f.minRatio, "min-ratio", 0, "smallest λ/lambda_max of the geometric path")
	fl.Float64Var(&f.tolerance, "tolerance", 0, "duality gap tolerance")
	fl.IntVar(&f.maxIterations, "max-iterations", 0, "Newton iteration limit per λ")
	fl.IntVar(&f.workers, "workers", 0, "traces solved concurrently, 0 for one per CPU")
	fl.BoolVar(&f.analyze, "analyze", false, "add piecewise-constant analysis to each solution")
	fl.BoolVar(&f.signals, "signals", false, "include denoised signals in JSON output")
	fl.Float64Var(&f.jump, "jump-threshold", 0, "smallest step counted as a jump, 0 for automatic")
	fl.StringVar(&f.textfile, "metrics-textfile", "", "write Prometheus metrics to this file")
	fl.StringVar(&f.method, "method", "", "denoiser: tvd, bilateral, cluster")
	fl.StringVar(&f.kernel, "kernel", "", "mean-shift kernel: hard, soft")
	fl.Float64Var(&f.beta, "beta", 0, "mean-shift kernel precision (soft) or support (hard)")
	fl.IntVar(&f.width, "width", 0, "bilateral half-window in samples")
	fl.IntVar(&f.k, "k", 0, "cluster levels, 0 for mean-shift mode")
	fl.BoolVar(&f.biased, "biased", false, "cluster mean-shift averages the input instead of the estimate")
	fl.Int64Var(&f.seed, "seed", 0, "cluster K-means initialisation seed")
	fl.Float64Var(&f.stopTol, "stop-tol", 0, "mean-shift squared-change stop tolerance")
	return cmd
}

// apply overlays explicitly set flags on the loaded configuration.
func (f *solveFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fl := cmd.Flags()
	if fl.Changed("lambdas") {
		l, err := config.ParseLambdas(f.lambdas)
		if err != nil {
			return fmt.Errorf("--lambdas: %w", err)
		}
		cfg.Path.Lambdas = l
	}
	if fl.Changed("relative") {
		cfg.Path.Relative = f.relative
	}
	if fl.Changed("steps") {
		cfg.Path.Steps = f.steps
	}
	if fl.Changed("min-ratio") {
		cfg.Path.MinRatio = f.minRatio
	}
	if fl.Changed("tolerance") {
		cfg.Solver.Tolerance = f.tolerance
	}
	if fl.Changed("method") {
		cfg.Method = f.method
	}
	if fl.Changed("max-iterations") {
		switch cfg.Method {
		case config.MethodBilateral:
			cfg.Bilateral.MaxIterations = f.maxIterations
		case config.MethodCluster:
			cfg.Cluster.MaxIterations = f.maxIterations
		default:
			cfg.Solver.MaxIterations = f.maxIterations
		}
	}
	// Kernel settings go to the selected mean-shift method.
	kernel, beta, stopTol := &cfg.Cluster.Kernel, &cfg.Cluster.Beta, &cfg.Cluster.StopTol
	if cfg.Method == config.MethodBilateral {
		kernel, beta, stopTol = &cfg.Bilateral.Kernel, &cfg.Bilateral.Beta, &cfg.Bilateral.StopTol
	}
	if fl.Changed("kernel") {
		*kernel = f.kernel
	}
	if fl.Changed("beta") {
		*beta = f.beta
	}
	if fl.Changed("stop-tol") {
		*stopTol = f.stopTol
	}
	if fl.Changed("width") {
		cfg.Bilateral.Width = f.width
	}
	if fl.Changed("k") {
		cfg.Cluster.K = f.k
	}
	if fl.Changed("biased") {
		cfg.Cluster.Biased = f.biased
	}
	if fl.Changed("seed") {
		cfg.Cluster.Seed = f.seed
	}
	if fl.Changed("workers") {
		cfg.Batch.Workers = f.workers
	}
	if fl.Changed("metrics-textfile") {
		cfg.Metrics.Textfile = f.textfile
	}
	return cfg.Validate()
}

func runSolve(cmd *cobra.Command, a *app, f *solveFlags) error {
	cfg := a.cfg
	if err := f.apply(cmd, &cfg); err != nil {
		return err
	}
	traces, err := f.input.read(cmd)
	if err != nil {
		return err
	}

	bil, err := cfg.BilateralOptions()
	if err != nil {
		return err
	}
	clu, err := cfg.ClusterOptions()
	if err != nil {
		return err
	}

	m := metrics.New()
	a.logger.Info("solving", "traces", len(traces), "method", cfg.Method, "workers", cfg.Batch.Workers,
		"tolerance", cfg.Solver.Tolerance, "max_iterations", cfg.Solver.MaxIterations)

	results, runErr := batch.Run(cmd.Context(), traces, batch.Options{
		Workers:   cfg.Batch.Workers,
		Method:    cfg.Method,
		Lambdas:   cfg.Path.Resolve,
		Solver:    cfg.SolverOptions(),
		Bilateral: bil,
		Cluster:   clu,
		Analyze:   f.analyze,
		PWC:       pwc.Config{JumpThreshold: f.jump},
		Logger:    a.logger,
		Recorder:  m,
	})

	// Partial results are still written, then the run error is reported.
	writeErr := sigio.Write(cmd.OutOrStdout(), f.output, results, f.signals)

	var metricsErr error
	if cfg.Metrics.Textfile != "" {
		if metricsErr = m.WriteTextfile(cfg.Metrics.Textfile); metricsErr == nil {
			a.logger.Debug("metrics written", "path", cfg.Metrics.Textfile)
		}
	}
	return errors.Join(runErr, writeErr, metricsErr)
}
