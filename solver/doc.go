// Package solver defines the Solver Interface (C5): a narrow adapter that
// consumes an *ilp.Problem and returns a Solution, so that the ILP Builder
// and Result Extractor never depend on any particular MIP backend
// (spec.md §4.5).
//
// The package also bundles one concrete backend, BranchAndBound: a
// depth-first branch-and-bound search with deterministic branching order,
// an admissible lower bound, and a soft deadline, built for the
// cell-assignment structure of TED's ILP (spec.md §9's note that LP
// relaxation is insufficient — match variables must stay genuinely binary
// — rules out a relaxed/rounded solver).
package solver
