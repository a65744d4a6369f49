package tvd

import (
	"context"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-tvd/dsp/banded"
	"github.com/cwbudde/algo-tvd/dsp/core"
)

// Solver holds the per-signal context of a TVD solve: the signal, D·y, the
// factored D·Dᵀ, lambdamax and scratch space for the Newton iterations.
//
// A Solver is not safe for concurrent use. Independent Solvers share no
// state and may run in parallel.
type Solver struct {
	cfg   Config
	log   *slog.Logger
	debug bool

	y         []float64
	dy        []float64 // D·y
	ddt       *banded.Tridiag
	ddtLU     *banded.LU
	lambdaMax float64

	decrease float64 // line-search sufficient decrease factor
	ws       workspace
}

// DualState is the hot-restart state {z, μ1, μ2} carried from one λ to the
// next. z stays strictly inside (-λ, λ) and μ1, μ2 stay strictly positive.
type DualState struct {
	z   []float64
	mu1 []float64
	mu2 []float64
}

// Len returns the dual dimension N-1.
func (d *DualState) Len() int {
	return len(d.z)
}

// Clone returns a deep copy of d.
func (d *DualState) Clone() *DualState {
	return &DualState{
		z:   core.Clone(d.z),
		mu1: core.Clone(d.mu1),
		mu2: core.Clone(d.mu2),
	}
}

// Dual returns a copy of the dual variable z.
func (d *DualState) Dual() []float64 {
	return core.Clone(d.z)
}

// Multipliers returns copies of μ1 and μ2.
func (d *DualState) Multipliers() (mu1, mu2 []float64) {
	return core.Clone(d.mu1), core.Clone(d.mu2)
}

// NewSolver validates y and the options, builds the difference operators
// and computes lambdamax. y is copied.
func NewSolver(y []float64, opts ...Option) (*Solver, error) {
	cfg := ApplyOptions(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateSignal(y); err != nil {
		return nil, err
	}
	return newSolver(y, cfg)
}

func newSolver(y []float64, cfg Config) (*Solver, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	n := len(y)
	m := n - 1
	if m < 0 {
		m = 0
	}

	s := &Solver{
		cfg:   cfg,
		log:   logger,
		debug: logger.Enabled(context.Background(), slog.LevelDebug),
		y:     core.Clone(y),
		dy:    make([]float64, m),
		ddt:   banded.NewDDT(m),

		decrease: lsAlpha,
	}
	banded.Diff(s.dy, s.y)

	lu, err := banded.Factorize(s.ddt)
	if err != nil {
		return nil, &SingularSystemError{Stage: StageLambdaMax, Err: err}
	}
	s.ddtLU = lu

	w := make([]float64, m)
	if err := s.ddtLU.Solve(w, s.dy); err != nil {
		return nil, &SingularSystemError{Stage: StageLambdaMax, Err: err}
	}
	s.lambdaMax = maxAbs(w)

	s.ws.init(n, m)
	s.log.Debug("tvd solver ready", "samples", n, "lambda_max", s.lambdaMax)
	return s, nil
}

// LambdaMax returns the smallest λ for which the solution is the constant
// signal mean(y).
func (s *Solver) LambdaMax() float64 {
	return s.lambdaMax
}

// Len returns the signal length N.
func (s *Solver) Len() int {
	return len(s.y)
}

// NewState returns the cold-start dual state: z = 0, μ1 = μ2 = 1.
func (s *Solver) NewState() *DualState {
	m := len(s.dy)
	d := &DualState{
		z:   make([]float64, m),
		mu1: make([]float64, m),
		mu2: make([]float64, m),
	}
	core.Fill(d.mu1, 1)
	core.Fill(d.mu2, 1)
	return d
}

// LambdaMax returns lambdamax for y without running the interior-point
// iteration.
func LambdaMax(y []float64) (float64, error) {
	if err := validateSignal(y); err != nil {
		return 0, err
	}
	s, err := newSolver(y, DefaultConfig())
	if err != nil {
		return 0, err
	}
	return s.lambdaMax, nil
}

func maxAbs(x []float64) float64 {
	var m float64
	for _, v := range x {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}
