// Package batch denoises many traces concurrently. Each trace gets its own
// tvd.Solver or mean-shift run, so workers share no mutable state.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-tvd/dsp/meanshift"
	"github.com/cwbudde/algo-tvd/dsp/tvd"
	"github.com/cwbudde/algo-tvd/measure/pwc"
)

// Trace is one input signal.
type Trace struct {
	ID      string
	Samples []float64
}

// Denoising methods.
const (
	MethodTVD       = "tvd"
	MethodBilateral = "bilateral"
	MethodCluster   = "cluster"
)

// Result is the outcome for one trace. Results keep the input order.
type Result struct {
	Index     int
	ID        string
	Method    string
	LambdaMax float64
	Path      []tvd.Solution
	// Estimate is set instead of Path by the mean-shift methods.
	Estimate *meanshift.Result
	// Reports holds one PWC analysis per solution, or one for the
	// estimate, when Options.Analyze is set.
	Reports  []pwc.Report
	Duration time.Duration
	Err      error
}

// Recorder receives per-solution and per-trace outcomes. Implementations
// must be safe for concurrent use.
type Recorder interface {
	RecordSolution(sol tvd.Solution)
	RecordEstimate(method string, res meanshift.Result)
	RecordTrace(d time.Duration, err error)
}

// LambdaFunc maps a trace's lambda_max to the λ values to solve, in order.
type LambdaFunc func(lambdaMax float64) []float64

// Options configures Run.
type Options struct {
	Workers int    // 0 means runtime.GOMAXPROCS(0)
	Method  string // empty means MethodTVD
	// Lambdas and Solver are used by MethodTVD only.
	Lambdas   LambdaFunc
	Solver    []tvd.Option
	Bilateral meanshift.BilateralConfig
	Cluster   meanshift.ClusterConfig
	Analyze   bool
	PWC       pwc.Config
	Logger    *slog.Logger
	Recorder  Recorder
}

// Run solves every trace. A trace that fails keeps its error in
// Result.Err and does not stop the others; the joined trace errors are
// also returned. Cancelling ctx stops scheduling new traces.
func Run(ctx context.Context, traces []Trace, opts Options) ([]Result, error) {
	switch opts.Method {
	case "":
		opts.Method = MethodTVD
		fallthrough
	case MethodTVD:
		if opts.Lambdas == nil {
			return nil, errors.New("batch: no lambda function")
		}
	case MethodBilateral, MethodCluster:
	default:
		return nil, fmt.Errorf("batch: unknown method %q", opts.Method)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(traces))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	scheduled := 0
	for i, tr := range traces {
		if gctx.Err() != nil {
			break
		}
		scheduled++
		g.Go(func() error {
			res := solveTrace(gctx, i, tr, opts, logger)
			results[i] = res
			if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
				return res.Err
			}
			return nil
		})
	}
	waitErr := g.Wait()
	// Traces never handed to a worker keep their ID and the stop reason.
	for i := scheduled; i < len(traces); i++ {
		results[i] = Result{Index: i, ID: traceID(i, traces[i]), Method: opts.Method, Err: gctx.Err()}
	}
	if waitErr != nil {
		return results, waitErr
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("trace %s: %w", res.ID, res.Err))
		}
	}
	return results, errors.Join(errs...)
}

func solveTrace(ctx context.Context, index int, tr Trace, opts Options, logger *slog.Logger) (res Result) {
	start := time.Now()
	res = Result{Index: index, ID: traceID(index, tr), Method: opts.Method}
	log := logger.With("trace", res.ID)

	defer func() {
		res.Duration = time.Since(start)
		if opts.Recorder != nil {
			opts.Recorder.RecordTrace(res.Duration, res.Err)
		}
	}()

	if opts.Method != MethodTVD {
		res.Err = estimateTrace(ctx, &res, tr, opts, log)
		return res
	}

	solverOpts := append(slices.Clip(opts.Solver), tvd.WithLogger(log))
	solver, err := tvd.NewSolver(tr.Samples, solverOpts...)
	if err != nil {
		res.Err = err
		log.Error("trace rejected", "error", err)
		return res
	}
	res.LambdaMax = solver.LambdaMax()

	lmax := res.LambdaMax
	if lmax == 0 {
		// Constant trace: every λ returns the trace itself.
		lmax = 1
	}
	path, err := solver.SolvePath(ctx, opts.Lambdas(lmax))
	if path != nil {
		res.Path = path.Path
	}
	// Finished solutions are reported even when the path stopped early.
	if opts.Recorder != nil {
		for _, sol := range res.Path {
			opts.Recorder.RecordSolution(sol)
		}
	}
	if err != nil {
		res.Err = err
		log.Error("trace failed", "error", err, "solved_values", len(res.Path))
		return res
	}

	if opts.Analyze {
		res.Reports = make([]pwc.Report, 0, len(res.Path))
		for _, sol := range res.Path {
			rep, err := pwc.Analyze(tr.Samples, sol.X, opts.PWC)
			if err != nil {
				res.Err = err
				return res
			}
			res.Reports = append(res.Reports, rep)
		}
	}
	log.Info("trace done",
		"samples", len(tr.Samples), "lambda_max", res.LambdaMax,
		"values", len(res.Path), "elapsed", time.Since(start))
	return res
}

// estimateTrace runs a mean-shift method. The runs are short and not
// interruptible, so ctx is only checked before starting.
func estimateTrace(ctx context.Context, res *Result, tr Trace, opts Options, log *slog.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var (
		est meanshift.Result
		err error
	)
	switch opts.Method {
	case MethodBilateral:
		cfg := opts.Bilateral
		cfg.Logger = log
		est, err = meanshift.Bilateral(tr.Samples, cfg)
	case MethodCluster:
		cfg := opts.Cluster
		cfg.Logger = log
		est, err = meanshift.Cluster(tr.Samples, cfg)
	}
	if err != nil {
		log.Error("trace rejected", "method", opts.Method, "error", err)
		return err
	}
	res.Estimate = &est
	if opts.Recorder != nil {
		opts.Recorder.RecordEstimate(opts.Method, est)
	}

	if opts.Analyze {
		rep, err := pwc.Analyze(tr.Samples, est.X, opts.PWC)
		if err != nil {
			return err
		}
		res.Reports = []pwc.Report{rep}
	}
	log.Info("trace done", "method", opts.Method,
		"samples", len(tr.Samples), "iterations", est.Iterations, "converged", est.Converged)
	return nil
}

func traceID(index int, tr Trace) string {
	if tr.ID != "" {
		return tr.ID
	}
	return strconv.Itoa(index)
}
