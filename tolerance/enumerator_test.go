package tolerance_test

import (
	"context"
	"testing"

	"github.com/nivir/ted/cell"
	"github.com/nivir/ted/tolerance"
	"github.com/nivir/ted/volume"
	"github.com/stretchr/testify/require"
)

func mustVol(t *testing.T, labels [][][]float64, pitch volume.Pitch) *volume.Volume {
	t.Helper()
	v, err := volume.FromSlices(labels, pitch)
	require.NoError(t, err)
	return v
}

// Tolerable boundary shift: GT boundary at x=1, REC boundary at x=2 in a
// 4x1x1 volume, pitch (1,1,1), T=2 -> S=M=0 (spec.md scenario 4).
func TestEnumerateTolerableBoundaryShift(t *testing.T) {
	gt := mustVol(t, [][][]float64{{{1, 1, 2, 2}}}, volume.Pitch{X: 1, Y: 1, Z: 1})
	rec := mustVol(t, [][][]float64{{{1, 1, 1, 2}}}, volume.Pitch{X: 1, Y: 1, Z: 1})

	col, err := cell.Extract(gt, rec)
	require.NoError(t, err)

	require.NoError(t, tolerance.Enumerate(context.Background(), col, rec, 2, 1))

	// cell (rec=1, gt=2) at x=2 is distance 1 from rec-label-2 voxels (x=3):
	// within tolerance T=2, so rec label 2 should be an alternative.
	c := col.ByID[cell.ID{RecLabel: 1, GTLabel: 2}]
	require.NotNil(t, c)
	require.Contains(t, c.Alternatives, 2.0)
}

// Intolerable boundary shift: same setup, T=0.5 -> no alternatives
// (spec.md scenario 5).
func TestEnumerateIntolerableBoundaryShift(t *testing.T) {
	gt := mustVol(t, [][][]float64{{{1, 1, 2, 2}}}, volume.Pitch{X: 1, Y: 1, Z: 1})
	rec := mustVol(t, [][][]float64{{{1, 1, 1, 2}}}, volume.Pitch{X: 1, Y: 1, Z: 1})

	col, err := cell.Extract(gt, rec)
	require.NoError(t, err)

	require.NoError(t, tolerance.Enumerate(context.Background(), col, rec, 0.5, 1))

	c := col.ByID[cell.ID{RecLabel: 1, GTLabel: 2}]
	require.NotNil(t, c)
	require.Empty(t, c.Alternatives)
}

// Anisotropic: the gt=2 voxel at z=1 sits one z-step from the only
// rec-label-2 voxel; with pz=10 that step is 100 nm², beyond T=5 (25 nm²),
// so the voxel cannot be relabeled to 2.
func TestEnumerateAnisotropicZPreventsRelabel(t *testing.T) {
	gt := mustVol(t, [][][]float64{
		{{1}},
		{{2}},
	}, volume.Pitch{X: 1, Y: 1, Z: 10})
	rec := mustVol(t, [][][]float64{
		{{2}},
		{{1}},
	}, volume.Pitch{X: 1, Y: 1, Z: 10})

	col, err := cell.Extract(gt, rec)
	require.NoError(t, err)

	require.NoError(t, tolerance.Enumerate(context.Background(), col, rec, 5, 1))

	c := col.ByID[cell.ID{RecLabel: 1, GTLabel: 2}]
	require.NotNil(t, c)
	require.Empty(t, c.Alternatives)
}

func TestEnumerateDeterministicOrderAcrossRuns(t *testing.T) {
	gt := mustVol(t, [][][]float64{{{1, 1, 2, 2, 3, 3}}}, volume.Pitch{X: 1, Y: 1, Z: 1})
	rec := mustVol(t, [][][]float64{{{10, 20, 10, 20, 10, 20}}}, volume.Pitch{X: 1, Y: 1, Z: 1})

	var firstRun []cell.ID
	for i := 0; i < 5; i++ {
		col, err := cell.Extract(gt, rec)
		require.NoError(t, err)
		require.NoError(t, tolerance.Enumerate(context.Background(), col, rec, 100, 4))

		pairs := col.Matches.Pairs()
		if firstRun == nil {
			firstRun = pairs
		} else {
			require.Equal(t, firstRun, pairs)
		}
	}
}
