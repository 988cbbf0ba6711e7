package result

import (
	"errors"

	"github.com/nivir/ted/cell"
	"github.com/nivir/ted/volume"
)

// ErrInvariantViolation indicates the solver returned a Solution whose
// variable values are inconsistent with the problem it solved (e.g. a
// cell with no label selected, or a negative split/merge count). This
// should never occur for a Solution produced by a conforming solver.Solver
// — it is a defensive check, not an expected runtime condition.
var ErrInvariantViolation = errors.New("result: solution violates problem invariants")

// Errors is the scored outcome of one evaluation: the split and merge
// counts (spec.md §3 I4–I6) plus the per-pair match map that produced
// them, in ascending (gtLabel, recLabel) order for reproducible reporting.
type Errors struct {
	Splits  int
	Merges  int
	Matches []cell.ID

	// CellSizeMean and CellSizeStdDev summarize the voxel-count
	// distribution across every cell produced by the decomposition —
	// a diagnostic for spotting pathological inputs (e.g. a reconstruction
	// shattered into many single-voxel cells) that the split/merge counts
	// alone do not reveal.
	CellSizeMean   float64
	CellSizeStdDev float64
}

// Total is the combined error count the ILP minimizes: Splits + Merges.
func (e Errors) Total() int { return e.Splits + e.Merges }

// LocationMasks holds the four per-voxel boolean scatter volumes
// ScanLocations produces: split voxels, merge voxels, false positives
// (reconstruction foreground with no ground-truth counterpart) and false
// negatives (ground-truth foreground missed by the reconstruction).
// Peripheral to the core ILP contract (spec.md §4.6).
type LocationMasks struct {
	Split         *volume.Mask
	Merge         *volume.Mask
	FalsePositive *volume.Mask
	FalseNegative *volume.Mask
}
