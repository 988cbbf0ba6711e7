// Package ted implements the Tolerant Edit Distance core: scoring a
// volumetric reconstruction against ground truth while tolerating
// boundary shifts up to a physical distance threshold.
//
// Evaluate is the single entry point, dispatching across the six-stage
// pipeline — cell extraction (package cell), per-label distance
// transforms (package distance), tolerance enumeration (package
// tolerance), ILP construction (package ilp), exact solving (package
// solver) and result extraction (package result) — validating and
// logging at each handoff before delegating to the next stage.
package ted
