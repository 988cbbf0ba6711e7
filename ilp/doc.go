// Package ilp implements the ILP Builder (C4): given a cell collection and
// its possible-match sets, it emits the indicator, match, split, and merge
// variables, the six constraint families, and the "minimize splits plus
// merges" objective described in spec.md §4.4, in the deterministic
// insertion order spec.md §5 requires for reproducible variable indices.
//
// Package ilp never solves the problem it builds — see package solver for
// the pluggable backend (C5) — and never reads voxel data directly; it
// only consumes the cell.Collection produced by package cell.
package ilp
