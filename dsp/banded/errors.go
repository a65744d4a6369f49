package banded

import (
	"errors"
	"fmt"
)

// Errors returned by banded operators and solvers.
var (
	ErrSingular          = errors.New("banded: singular system")
	ErrDimensionMismatch = errors.New("banded: dimension mismatch")
	ErrAsymmetric        = errors.New("banded: matrix is not symmetric")
)

// PivotError reports a pivot that is not finite and positive, met during
// factorization.
type PivotError struct {
	Row   int
	Pivot float64
}

func (e *PivotError) Error() string {
	return fmt.Sprintf("banded: singular system: pivot %g at row %d", e.Pivot, e.Row)
}

// Is reports whether target is ErrSingular.
func (e *PivotError) Is(target error) bool {
	return target == ErrSingular
}

func checkLen(name string, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s has length %d, want %d", ErrDimensionMismatch, name, got, want)
	}
	return nil
}
