package banded

// Diff computes dst = D·x, the first differences dst[i] = x[i] - x[i+1].
// dst must have length len(x)-1.
func Diff(dst, x []float64) {
	if len(x) == 0 {
		return
	}
	if len(dst) != len(x)-1 {
		panic("banded: Diff length mismatch")
	}
	for i := range dst {
		dst[i] = x[i] - x[i+1]
	}
}

// DiffT computes dst = Dᵀ·z. dst must have length len(z)+1.
//
//	dst[0]   = z[0]
//	dst[j]   = z[j] - z[j-1]
//	dst[M]   = -z[M-1]
func DiffT(dst, z []float64) {
	if len(dst) != len(z)+1 {
		panic("banded: DiffT length mismatch")
	}
	m := len(z)
	if m == 0 {
		dst[0] = 0
		return
	}
	dst[0] = z[0]
	for j := 1; j < m; j++ {
		dst[j] = z[j] - z[j-1]
	}
	dst[m] = -z[m-1]
}

// AbsSum returns the L1 norm of D·x without materializing it.
func AbsSum(x []float64) float64 {
	var sum float64
	for i := 0; i+1 < len(x); i++ {
		d := x[i] - x[i+1]
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum
}
