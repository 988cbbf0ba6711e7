package solver

import (
	"context"
	"errors"

	"github.com/nivir/ted/ilp"
)

// ErrInfeasibleProblem indicates no feasible assignment exists for the
// given problem. Per spec.md §6 this should not occur for valid TED
// inputs — every cell always has its own reconstruction label as a
// trivially feasible choice — and is reported only as a defensive
// safeguard.
var ErrInfeasibleProblem = errors.New("solver: infeasible problem")

// ErrSolverFailure indicates the backend terminated without reaching a
// proven optimum (e.g. a numeric error or an exhausted resource budget).
// Per spec.md §7, the core never attempts to relax constraints in
// response; it surfaces the backend's status verbatim to the caller.
var ErrSolverFailure = errors.New("solver: backend did not reach optimality")

// Status reports how a Solve call concluded.
type Status int

const (
	// Optimal indicates the returned Solution is a proven optimum.
	Optimal Status = iota
	// Infeasible indicates no feasible assignment was found.
	Infeasible
	// Failed indicates the backend gave up before proving optimality.
	Failed
)

// Solution is the backend's answer: one value per ilp.Problem variable,
// indexed identically to ilp.Problem.Variables.
type Solution struct {
	Values    []float64
	Objective float64
	Status    Status
}

// Value returns the solution's value for the given variable index.
func (s Solution) Value(varIndex int) float64 { return s.Values[varIndex] }

// Solver is the abstract adapter of spec.md §4.5: any exact MIP backend
// that can consume a Problem's variables, constraints and objective and
// return a Solution implements it. The spec requires an exact integer
// solver; an LP-relaxation-only backend does not satisfy this interface's
// contract because m[g,r] must come back genuinely binary.
type Solver interface {
	Solve(ctx context.Context, p *ilp.Problem) (Solution, error)
}
