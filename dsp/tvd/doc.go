// Package tvd implements one-dimensional total-variation denoising with a
// primal-dual interior-point solver.
//
// For a signal y of length N and a regularization value λ > 0 it finds
//
//	x* = argmin ½‖y - x‖² + λ·‖Dx‖₁
//
// where D is the first-difference operator. Large λ favours piecewise
// constant output; for λ at or above [Solver.LambdaMax] the solution is the
// constant mean of y.
//
// # Usage
//
// One-shot solve over a regularization path:
//
//	res, err := tvd.Solve(y, []float64{4, 2, 1, 0.5})
//	for _, sol := range res.Path {
//		fmt.Println(sol.Lambda, sol.Solved, sol.Objective)
//	}
//
// The solver works on the dual problem in z ∈ ℝᴺ⁻¹ with |z| < λ and
// multipliers μ1, μ2 > 0. Consecutive λ values reuse the converged dual
// state (hot restart), so paths with closely spaced values converge in few
// iterations. The order of lambdas is kept as given.
//
// For explicit control over the hot-restart state use a [Solver]:
//
//	s, err := tvd.NewSolver(y, tvd.WithTolerance(1e-4))
//	st := s.NewState()
//	sol, err := s.SolveLambda(st, 1.0) // st now holds the converged state
//
// # Errors
//
// Invalid input fails fast with a [ConfigurationError]. A tridiagonal system
// that cannot be factored aborts with a [SingularSystemError]. Running out
// of iterations is not an error: the best available x is returned with
// Solved set to false.
//
// # Concurrency
//
// A Solver keeps scratch buffers and must not be shared between goroutines.
// Separate signals can be solved in parallel with separate Solvers; the
// package has no global state.
package tvd
