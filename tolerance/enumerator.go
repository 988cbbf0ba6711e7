package tolerance

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/nivir/ted/cell"
	"github.com/nivir/ted/distance"
	"github.com/nivir/ted/volume"
)

// DefaultMaxWorkers is used when Enumerate is asked to run with an
// unspecified (<=0) worker cap.
const DefaultMaxWorkers = 4

// qualifyingPair records that cell c may adopt rec label r under
// tolerance; produced by one worker, merged sequentially afterward.
type qualifyingPair struct {
	cell  *cell.Cell
	label float64
}

// Enumerate runs the Tolerance Enumerator (C3) over col, extending every
// cell's Alternatives and col.Matches in place (spec.md §4.3).
//
// thresholdNM is the tolerance distance in nanometers; it is squared
// internally before comparison against the per-rec-label distance field,
// which is already pitch-weighted (package distance). maxWorkers bounds
// how many per-rec-label distance transforms run concurrently; <=0 uses
// DefaultMaxWorkers.
//
// Per spec.md §5, the |RecLabels| distance transforms are independent and
// computed by a bounded worker pool; each worker returns its own
// qualifying pairs rather than mutating shared state, and the pairs are
// merged back in col.RecLabels order afterward so that
// col.Matches.Pairs() and every cell.Alternatives slice end up in a
// deterministic, reproducible order regardless of goroutine scheduling.
//
// Complexity: O(|RecLabels| * |Volume|) for the distance fields, plus
// O(|Cells| * |RecLabels|) for the per-cell queries (spec.md §4.3).
func Enumerate(ctx context.Context, col *cell.Collection, rec *volume.Volume, thresholdNM float64, maxWorkers int) error {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}
	thresholdSq := thresholdNM * thresholdNM

	results := make([][]qualifyingPair, len(col.RecLabels))

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(maxWorkers))

	for i, r := range col.RecLabels {
		i, r := i, r
		if err := sem.Acquire(gctx, 1); err != nil {
			return err
		}
		g.Go(func() error {
			defer sem.Release(1)
			results[i] = qualifyForLabel(col, rec, r, thresholdSq)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, pairs := range results {
		for _, p := range pairs {
			p.cell.Alternatives = append(p.cell.Alternatives, p.label)
			col.Matches.Add(p.cell.GTLabel, p.label)
		}
	}

	return nil
}

// qualifyForLabel computes the distance field for rec label r and returns,
// for every cell whose own label is not r, whether r belongs in that
// cell's Alternatives — i.e. every voxel of the cell lies within the
// squared threshold of some voxel already labeled r (spec.md §4.3
// rationale).
func qualifyForLabel(col *cell.Collection, rec *volume.Volume, r, thresholdSq float64) []qualifyingPair {
	mask := volume.MaskForLabel(rec, r)
	field := distance.Transform(mask, rec.Pitch)

	var out []qualifyingPair
	for _, c := range col.Cells {
		if c.RecLabel == r {
			continue
		}
		if maxDistance(field, c) < thresholdSq {
			out = append(out, qualifyingPair{cell: c, label: r})
		}
	}
	return out
}

// maxDistance returns max_{v in c.Locations} field.At(v), per spec.md
// §4.3: a cell may be reassigned to r only if every one of its voxels is
// within tolerance of r.
func maxDistance(field *distance.Field, c *cell.Cell) float64 {
	max := 0.0
	for i, loc := range c.Locations {
		d := field.At(loc)
		if i == 0 || d > max {
			max = d
		}
	}
	return max
}
