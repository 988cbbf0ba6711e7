package ted

import (
	"fmt"

	"github.com/nivir/ted/solver"
	"github.com/nivir/ted/volume"
)

// ErrSizeMismatch, ErrInfeasibleProblem and ErrSolverFailure are the three
// external error conditions spec.md §6 names, re-exported at the package
// root so callers of Evaluate never need to import the internal pipeline
// packages just to compare errors with errors.Is.
var (
	ErrSizeMismatch      = volume.ErrSizeMismatch
	ErrInfeasibleProblem = solver.ErrInfeasibleProblem
	ErrSolverFailure     = solver.ErrSolverFailure
)

// ConfigError wraps a Config.Validate failure.
type ConfigError struct {
	cause error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("ted: invalid config: %v", e.cause) }
func (e *ConfigError) Unwrap() error { return e.cause }
