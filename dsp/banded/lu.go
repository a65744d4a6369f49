package banded

import (
	"math"

	"gonum.org/v1/gonum/lapack/gonum"

	"github.com/cwbudde/algo-tvd/dsp/core"
)

var lapack gonum.Implementation

// LU is the L·D·Lᵀ factorization of a symmetric positive definite
// tridiagonal matrix, computed by LAPACK Dpttrf and applied by Dpttrs.
//
// D·Dᵀ and its positive diagonal shifts are always of this kind. A pivot
// that is not finite and positive means the matrix is singular or
// indefinite and is reported as a PivotError.
type LU struct {
	d []float64 // pivots of D
	e []float64 // sub-diagonal of the unit factor L
}

// Factorize factors t into a new LU.
func Factorize(t *Tridiag) (*LU, error) {
	lu := &LU{}
	if err := lu.Refactor(t); err != nil {
		return nil, err
	}
	return lu, nil
}

// Size returns the dimension of the factored system.
func (lu *LU) Size() int {
	return len(lu.d)
}

// Refactor factors t into lu, reusing its buffers when the capacity allows.
// On error lu is left in an unusable state until the next successful call.
func (lu *LU) Refactor(t *Tridiag) error {
	n := t.Size()
	if n == 0 {
		lu.d = lu.d[:0]
		return ErrSingular
	}
	if err := checkLen("lower", len(t.Lower), n-1); err != nil {
		return err
	}
	if err := checkLen("upper", len(t.Upper), n-1); err != nil {
		return err
	}
	for i, v := range t.Lower {
		if v != t.Upper[i] {
			lu.d = lu.d[:0]
			return ErrAsymmetric
		}
	}

	lu.d = core.EnsureLen(lu.d, n)
	lu.e = core.EnsureLen(lu.e, n-1)
	copy(lu.d, t.Diag)
	copy(lu.e, t.Lower)

	ok := lapack.Dpttrf(n, lu.d, lu.e)
	// Dpttrf stops at the first non-positive pivot but lets NaN through,
	// so the pivots are scanned in both cases.
	for i, p := range lu.d {
		if !(p > 0) || math.IsInf(p, 0) {
			lu.d = lu.d[:0]
			return &PivotError{Row: i, Pivot: p}
		}
	}
	if !ok {
		lu.d = lu.d[:0]
		return ErrSingular
	}
	return nil
}

// Solve computes dst = A⁻¹·rhs for the factored matrix A. dst may alias rhs.
// It does not allocate.
func (lu *LU) Solve(dst, rhs []float64) error {
	n := lu.Size()
	if n == 0 {
		return ErrSingular
	}
	if err := checkLen("rhs", len(rhs), n); err != nil {
		return err
	}
	if err := checkLen("dst", len(dst), n); err != nil {
		return err
	}
	copy(dst, rhs)
	lapack.Dpttrs(n, 1, lu.d, lu.e, dst, 1)
	return nil
}
