package tvd

import (
	"context"
	"fmt"
)

// Result holds the solutions along a regularization path.
type Result struct {
	LambdaMax float64
	Path      []Solution
}

// AllSolved reports whether every λ reached the gap tolerance.
func (r *Result) AllSolved() bool {
	for _, sol := range r.Path {
		if !sol.Solved {
			return false
		}
	}
	return true
}

// Solve denoises y for each λ in lambdas, in order, with hot restarts
// between consecutive values. Adjacent λ values that are close to each
// other converge fastest.
func Solve(y, lambdas []float64, opts ...Option) (*Result, error) {
	return SolveContext(context.Background(), y, lambdas, opts...)
}

// SolveContext is like [Solve] but checks ctx before each λ. A λ that has
// started always runs to completion. On cancellation the solutions finished
// so far are returned together with the context error.
func SolveContext(ctx context.Context, y, lambdas []float64, opts ...Option) (*Result, error) {
	if err := validateLambdas(lambdas); err != nil {
		return nil, err
	}
	s, err := NewSolver(y, opts...)
	if err != nil {
		return nil, err
	}
	return s.SolvePath(ctx, lambdas)
}

// SolvePath runs the λ path from a cold-start dual state.
func (s *Solver) SolvePath(ctx context.Context, lambdas []float64) (*Result, error) {
	if err := validateLambdas(lambdas); err != nil {
		return nil, err
	}

	st := s.NewState()
	res := &Result{
		LambdaMax: s.lambdaMax,
		Path:      make([]Solution, 0, len(lambdas)),
	}
	for _, lambda := range lambdas {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("tvd: path stopped after %d of %d values: %w", len(res.Path), len(lambdas), err)
		}
		sol, err := s.SolveLambda(st, lambda)
		if err != nil {
			return nil, err
		}
		res.Path = append(res.Path, sol)
	}
	return res, nil
}

// Denoise returns the TVD solution of y for a single λ.
func Denoise(y []float64, lambda float64, opts ...Option) ([]float64, error) {
	res, err := Solve(y, []float64{lambda}, opts...)
	if err != nil {
		return nil, err
	}
	return res.Path[0].X, nil
}
