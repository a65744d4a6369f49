package banded

// Tridiag is an n×n tridiagonal matrix stored by diagonals.
//
// Lower[i] holds A[i+1][i] and Upper[i] holds A[i][i+1]; both have length
// n-1 (zero for n <= 1).
type Tridiag struct {
	Lower []float64
	Diag  []float64
	Upper []float64
}

// NewTridiag returns a zero n×n tridiagonal matrix.
func NewTridiag(n int) *Tridiag {
	if n < 0 {
		n = 0
	}
	off := n - 1
	if off < 0 {
		off = 0
	}
	return &Tridiag{
		Lower: make([]float64, off),
		Diag:  make([]float64, n),
		Upper: make([]float64, off),
	}
}

// NewDDT returns D·Dᵀ for a difference operator with m rows: 2 on the
// diagonal and -1 on both off-diagonals.
func NewDDT(m int) *Tridiag {
	t := NewTridiag(m)
	for i := range t.Diag {
		t.Diag[i] = 2
	}
	for i := range t.Lower {
		t.Lower[i] = -1
		t.Upper[i] = -1
	}
	return t
}

// Size returns the matrix dimension n.
func (t *Tridiag) Size() int {
	return len(t.Diag)
}

// MulVec computes dst = A·x. dst and x must both have length Size and must
// not alias.
func (t *Tridiag) MulVec(dst, x []float64) {
	n := t.Size()
	if len(dst) != n || len(x) != n {
		panic("banded: MulVec length mismatch")
	}
	if n == 0 {
		return
	}
	if n == 1 {
		dst[0] = t.Diag[0] * x[0]
		return
	}
	dst[0] = t.Diag[0]*x[0] + t.Upper[0]*x[1]
	for i := 1; i < n-1; i++ {
		dst[i] = t.Lower[i-1]*x[i-1] + t.Diag[i]*x[i] + t.Upper[i]*x[i+1]
	}
	dst[n-1] = t.Lower[n-2]*x[n-2] + t.Diag[n-1]*x[n-1]
}

// CopyFrom overwrites t with src. Both must have the same size.
func (t *Tridiag) CopyFrom(src *Tridiag) error {
	if err := checkLen("diagonal", len(src.Diag), t.Size()); err != nil {
		return err
	}
	copy(t.Lower, src.Lower)
	copy(t.Diag, src.Diag)
	copy(t.Upper, src.Upper)
	return nil
}

// AddDiagonal sets t = base + diag(shift). t may be base itself.
func (t *Tridiag) AddDiagonal(base *Tridiag, shift []float64) error {
	n := t.Size()
	if err := checkLen("base diagonal", base.Size(), n); err != nil {
		return err
	}
	if err := checkLen("shift", len(shift), n); err != nil {
		return err
	}
	if t != base {
		copy(t.Lower, base.Lower)
		copy(t.Upper, base.Upper)
	}
	for i := range t.Diag {
		t.Diag[i] = base.Diag[i] + shift[i]
	}
	return nil
}
