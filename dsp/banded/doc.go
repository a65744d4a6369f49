// Package banded provides the banded linear operators used by the
// total-variation solvers: the first-difference operator D, tridiagonal
// matrices and a reusable tridiagonal factorization.
//
// D is the (N-1)×N bidiagonal operator with +1 on the diagonal and -1 on
// the first superdiagonal, so (D·x)[i] = x[i] - x[i+1]. It is never stored;
// [Diff] and [DiffT] apply D and Dᵀ directly in O(N).
//
// D·Dᵀ is tridiagonal with 2 on the diagonal and -1 off it:
//
//	ddt := banded.NewDDT(len(y) - 1)
//	lu, err := banded.Factorize(ddt)
//	if err != nil {
//		return err
//	}
//	err = lu.Solve(w, dy)
//
// [LU] keeps its pivot buffers across [LU.Refactor] calls, so solving a
// sequence of systems with the same shape does not allocate.
package banded
