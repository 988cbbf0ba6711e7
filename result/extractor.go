package result

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/nivir/ted/cell"
	"github.com/nivir/ted/ilp"
	"github.com/nivir/ted/solver"
	"github.com/nivir/ted/volume"
)

// Extract reads sol against problem and produces the Errors summary and
// the relabeled CorrectedReconstruction volume (spec.md §4.6). rec
// supplies the shape and pitch for the output volume; every voxel of a
// cell is repainted with that cell's chosen label.
func Extract(problem *ilp.Problem, sol solver.Solution, rec *volume.Volume) (Errors, *volume.Volume, error) {
	corrected, err := volume.New(rec.W, rec.H, rec.D, rec.Pitch)
	if err != nil {
		return Errors{}, nil, err
	}

	for _, c := range problem.Cells {
		labelIdx := problem.IndicatorIndex[c]
		chosen, ok := chosenLabel(sol, labelIdx)
		if !ok {
			return Errors{}, nil, ErrInvariantViolation
		}
		for _, loc := range c.Locations {
			corrected.MustSet(loc, chosen)
		}
	}

	splits := 0
	for _, idx := range problem.SplitIndex {
		v := sol.Value(idx)
		if v < 0 {
			return Errors{}, nil, ErrInvariantViolation
		}
		splits += int(v + 0.5)
	}

	merges := 0
	for _, idx := range problem.MergeIndex {
		v := sol.Value(idx)
		if v < 0 {
			return Errors{}, nil, ErrInvariantViolation
		}
		merges += int(v + 0.5)
	}

	var matches []cell.ID
	for pair, idx := range problem.MatchIndex {
		if sol.Value(idx) > 0.5 {
			matches = append(matches, pair)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].GTLabel != matches[j].GTLabel {
			return matches[i].GTLabel < matches[j].GTLabel
		}
		return matches[i].RecLabel < matches[j].RecLabel
	})

	mean, stddev := cellSizeStats(problem.Cells)

	return Errors{
		Splits:         splits,
		Merges:         merges,
		Matches:        matches,
		CellSizeMean:   mean,
		CellSizeStdDev: stddev,
	}, corrected, nil
}

// cellSizeStats summarizes the voxel-count distribution across cells
// using an unweighted mean/stddev (gonum/stat, the same package the
// point-cloud voxel segmentation reference uses for distributional
// summaries over a cluster of samples).
func cellSizeStats(cells []*cell.Cell) (mean, stddev float64) {
	if len(cells) == 0 {
		return 0, 0
	}
	sizes := make([]float64, len(cells))
	for i, c := range cells {
		sizes[i] = float64(len(c.Locations))
	}
	mean, stddev = stat.MeanStdDev(sizes, nil)
	if len(cells) == 1 {
		// stat.MeanStdDev divides by n-1; a single sample has no variance
		// to estimate and would otherwise come back NaN.
		stddev = 0
	}
	return mean, stddev
}

// chosenLabel finds the unique label ℓ with x[c,ℓ] = 1 among labelIdx.
func chosenLabel(sol solver.Solution, labelIdx map[float64]int) (float64, bool) {
	for label, idx := range labelIdx {
		if sol.Value(idx) > 0.5 {
			return label, true
		}
	}
	return 0, false
}
