package tvd

import (
	"log/slog"
	"math"
	"strconv"

	"github.com/cwbudde/algo-tvd/dsp/core"
)

const (
	defaultTolerance     = 1e-3
	defaultMaxIterations = 60
)

// Interior-point tuning. These follow the reference primal-dual method and
// are not exposed as options.
const (
	lsAlpha      = 0.01 // sufficient residual decrease, in (0, 0.5]
	lsBeta       = 0.5  // backtracking contraction, in (0, 1)
	lsMaxIter    = 20
	centeringMu  = 2.0
	initialT     = 1e-10
	tUpdateStep  = 0.2 // t grows only after a step at least this long
	tGrowth      = 1.2
	stepFraction = 0.99 // fraction of the distance to the nearest multiplier zero
	clipFraction = 0.99 // hot-restarted z is clipped to this fraction of λ
)

// IterationInfo describes one Newton iteration. It is passed to an
// [Observer] before the convergence test.
type IterationInfo struct {
	Lambda    float64
	Iteration int
	Primal    float64
	Dual      float64
	Gap       float64
	Step      float64 // length of the previous step, +Inf before the first
	T         float64 // centering parameter
}

// Observer receives per-iteration progress.
type Observer func(IterationInfo)

// Config holds solver settings.
type Config struct {
	// Tolerance is the duality gap at which a λ counts as solved.
	Tolerance float64
	// MaxIterations caps the Newton iterations per λ.
	MaxIterations int
	// Logger receives progress records. Nil discards them.
	Logger *slog.Logger
	// Observer, when set, is called once per Newton iteration.
	Observer Observer
}

// Option mutates a Config. Values are checked by [Config.Validate], not by
// the option itself.
type Option func(*Config)

// DefaultConfig returns the reference settings: tolerance 1e-3 and 60
// iterations per λ.
func DefaultConfig() Config {
	return Config{
		Tolerance:     defaultTolerance,
		MaxIterations: defaultMaxIterations,
	}
}

// WithTolerance sets the duality gap tolerance.
func WithTolerance(tol float64) Option {
	return func(cfg *Config) {
		cfg.Tolerance = tol
	}
}

// WithMaxIterations sets the Newton iteration cap per λ.
func WithMaxIterations(n int) Option {
	return func(cfg *Config) {
		cfg.MaxIterations = n
	}
}

// WithLogger sets the progress logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = logger
	}
}

// WithObserver installs a per-iteration observer.
func WithObserver(obs Observer) Option {
	return func(cfg *Config) {
		cfg.Observer = obs
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate checks the tolerance and iteration cap.
func (c Config) Validate() error {
	if !(c.Tolerance > 0) || math.IsInf(c.Tolerance, 0) {
		return &ConfigurationError{Field: "tolerance", Value: c.Tolerance, Reason: "must be finite and > 0"}
	}
	if c.MaxIterations <= 0 {
		return &ConfigurationError{Field: "max_iterations", Value: c.MaxIterations, Reason: "must be > 0"}
	}
	return nil
}

func validateSignal(y []float64) error {
	if len(y) < 2 {
		return &ConfigurationError{Field: "signal length", Value: len(y), Reason: "need at least 2 samples"}
	}
	if i := core.FirstNonFinite(y); i >= 0 {
		return &ConfigurationError{Field: "signal", Value: y[i], Reason: "non-finite sample at index " + strconv.Itoa(i)}
	}
	return nil
}

func validateLambda(lambda float64) error {
	if !(lambda > 0) || math.IsInf(lambda, 0) {
		return &ConfigurationError{Field: "lambda", Value: lambda, Reason: "must be finite and > 0"}
	}
	return nil
}

func validateLambdas(lambdas []float64) error {
	if len(lambdas) == 0 {
		return &ConfigurationError{Field: "lambdas", Value: 0, Reason: "need at least one value"}
	}
	for _, l := range lambdas {
		if err := validateLambda(l); err != nil {
			return err
		}
	}
	return nil
}
