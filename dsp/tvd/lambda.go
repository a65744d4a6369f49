package tvd

import (
	"math"
	"strconv"

	"github.com/cwbudde/algo-tvd/dsp/banded"
)

// Solution is the result for one regularization value.
type Solution struct {
	Lambda    float64
	X         []float64 // denoised signal, length N
	Objective float64   // ½‖y - x‖² + λ·‖Dx‖₁
	Solved    bool      // duality gap reached the tolerance

	Iterations int       // Newton steps taken
	Gap        float64   // last duality gap evaluated
	Gaps       []float64 // duality gap at the start of every iteration

	// LineSearchExhausted counts iterations whose line search accepted no
	// trial and fell back to the smallest step.
	LineSearchExhausted int
	// Stalled is set when even the smallest step left the feasible region
	// and the iteration stopped early. That step is not taken: X and the
	// dual state are those of the last strictly feasible iterate, so z stays
	// inside (-λ, λ). Stalled is also set when the gap became NaN.
	Stalled bool
}

// SolveLambda runs the interior-point iteration for one λ starting from st
// and updates st in place, so passing the same state along a λ path gives
// hot restarts. Use [DualState.Clone] to solve from a fixed state more than
// once.
func (s *Solver) SolveLambda(st *DualState, lambda float64) (Solution, error) {
	if err := validateLambda(lambda); err != nil {
		return Solution{}, err
	}
	m := len(s.dy)
	if st == nil || len(st.z) != m || len(st.mu1) != m || len(st.mu2) != m {
		size := -1
		if st != nil {
			size = len(st.z)
		}
		return Solution{}, &ConfigurationError{Field: "dual state", Value: size, Reason: "length must be N-1 = " + strconv.Itoa(m)}
	}

	ws := &s.ws
	if clipped := s.feasibleStart(st, lambda); clipped > 0 {
		s.log.Debug("clipped hot-restart dual variable", "lambda", lambda, "components", clipped)
	}

	sol := Solution{
		Lambda: lambda,
		Gap:    math.Inf(1),
		Gaps:   make([]float64, 0, s.cfg.MaxIterations),
	}
	t := initialT
	step := math.Inf(1)

	for iter := 0; iter < s.cfg.MaxIterations; iter++ {
		pobj, dobj, err := s.objectives(st, lambda)
		if err != nil {
			return Solution{}, &SingularSystemError{Stage: StagePrimal, Lambda: lambda, Iteration: iter, Err: err}
		}
		gap := pobj - dobj
		sol.Gap = gap
		sol.Gaps = append(sol.Gaps, gap)
		s.report(IterationInfo{
			Lambda:    lambda,
			Iteration: iter,
			Primal:    pobj,
			Dual:      dobj,
			Gap:       gap,
			Step:      step,
			T:         t,
		})

		if gap <= s.cfg.Tolerance {
			sol.Solved = true
			break
		}
		if math.IsNaN(gap) {
			s.log.Warn("duality gap is NaN, stopping", "lambda", lambda, "iteration", iter)
			sol.Stalled = true
			break
		}

		if step >= tUpdateStep {
			t = math.Max(2*float64(m)*centeringMu/gap, tGrowth*t)
		}
		invT := 1 / t

		if err := s.direction(st, invT); err != nil {
			return Solution{}, &SingularSystemError{Stage: StageNewton, Lambda: lambda, Iteration: iter, Err: err}
		}
		for i := range ws.resDual {
			ws.resDual[i] = ws.ddtz[i] - ws.w[i]
		}
		resNorm := s.residualNorm(ws.resDual, st.mu1, ws.f1, st.mu2, ws.f2, invT)

		ls := s.backtrack(st, lambda, invT, s.maxStep(st), resNorm)
		step = ls.step
		sol.Iterations++
		if !s.accept(&sol, st, ls, lambda, iter) {
			break
		}
	}

	s.assemble(&sol, st)

	if sol.Solved {
		s.log.Debug("lambda solved",
			"lambda", lambda, "lambda_ratio", lambda/s.lambdaMax,
			"iterations", sol.Iterations, "gap", sol.Gap)
	} else {
		s.log.Warn("lambda not solved to tolerance, solution may be inaccurate",
			"lambda", lambda, "iterations", sol.Iterations, "gap", sol.Gap,
			"tolerance", s.cfg.Tolerance, "line_search_exhausted", sol.LineSearchExhausted)
	}
	return sol, nil
}

// accept applies the outcome of one line search to st. An exhausted search
// still commits its smallest step when that step is strictly feasible;
// otherwise the λ is marked stalled and accept reports false.
func (s *Solver) accept(sol *Solution, st *DualState, ls lineSearch, lambda float64, iter int) bool {
	if !ls.accepted {
		sol.LineSearchExhausted++
		s.log.Debug("line search exhausted, taking smallest step",
			"lambda", lambda, "iteration", iter, "step", ls.step)
		if !ls.feasible {
			s.log.Warn("smallest step leaves the feasible region, stopping",
				"lambda", lambda, "iteration", iter)
			sol.Stalled = true
			return false
		}
	}
	s.commit(st)
	return true
}

// assemble recovers x = y - Dᵀz and the objective for it.
func (s *Solver) assemble(sol *Solution, st *DualState) {
	ws := &s.ws
	banded.DiffT(ws.dtz, st.z)
	x := make([]float64, len(s.y))
	for i, v := range s.y {
		x[i] = v - ws.dtz[i]
	}
	sol.X = x
	sol.Objective = Objective(s.y, x, sol.Lambda)
}

// Objective evaluates ½‖y - x‖² + λ·‖Dx‖₁. y and x must have equal length.
func Objective(y, x []float64, lambda float64) float64 {
	var fidelity float64
	for i := range y {
		r := y[i] - x[i]
		fidelity += r * r
	}
	return 0.5*fidelity + lambda*banded.AbsSum(x)
}

func (s *Solver) report(info IterationInfo) {
	if s.cfg.Observer != nil {
		s.cfg.Observer(info)
	}
	if s.debug {
		s.log.Debug("newton iteration",
			"lambda", info.Lambda, "iteration", info.Iteration,
			"primal", info.Primal, "dual", info.Dual, "gap", info.Gap,
			"step", info.Step, "t", info.T)
	}
}
