package tvd

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below match them with errors.Is.
var (
	ErrInvalidConfig  = errors.New("tvd: invalid configuration")
	ErrSingularSystem = errors.New("tvd: singular linear system")
)

// ConfigurationError reports an input or option rejected before any
// numerical work starts.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("tvd: invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidConfig.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Stage identifies the linear solve that failed.
type Stage string

const (
	StageLambdaMax Stage = "lambda_max"
	StagePrimal    Stage = "primal_objective"
	StageNewton    Stage = "newton_step"
)

// SingularSystemError reports a tridiagonal system that could not be
// solved. It aborts the whole path and is not retried.
type SingularSystemError struct {
	Stage     Stage
	Lambda    float64
	Iteration int
	Err       error
}

func (e *SingularSystemError) Error() string {
	if e.Stage == StageLambdaMax {
		return fmt.Sprintf("tvd: singular system in %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("tvd: singular system in %s (lambda=%g, iteration=%d): %v",
		e.Stage, e.Lambda, e.Iteration, e.Err)
}

// Is reports whether target is ErrSingularSystem.
func (e *SingularSystemError) Is(target error) bool {
	return target == ErrSingularSystem
}

func (e *SingularSystemError) Unwrap() error {
	return e.Err
}
