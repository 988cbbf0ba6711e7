package cell_test

import (
	"testing"

	"github.com/nivir/ted/cell"
	"github.com/nivir/ted/volume"
	"github.com/stretchr/testify/require"
)

func mustVol(t *testing.T, labels [][][]float64) *volume.Volume {
	t.Helper()
	v, err := volume.FromSlices(labels, volume.DefaultPitch())
	require.NoError(t, err)
	return v
}

func TestExtractSizeMismatch(t *testing.T) {
	gt := mustVol(t, [][][]float64{{{1, 1}}})
	rec := mustVol(t, [][][]float64{{{1, 1, 1}}})

	_, err := cell.Extract(gt, rec)
	require.ErrorIs(t, err, volume.ErrSizeMismatch)
}

func TestExtractPureSplit(t *testing.T) {
	// GT all 1; REC splits along x=1.
	gt := mustVol(t, [][][]float64{{
		{1, 1},
		{1, 1},
	}})
	rec := mustVol(t, [][][]float64{{
		{1, 2},
		{1, 2},
	}})

	col, err := cell.Extract(gt, rec)
	require.NoError(t, err)

	require.Len(t, col.Cells, 2)
	require.ElementsMatch(t, []float64{1}, col.GTLabels)
	require.ElementsMatch(t, []float64{1, 2}, col.RecLabels)

	left := col.ByID[cell.ID{RecLabel: 1, GTLabel: 1}]
	require.NotNil(t, left)
	require.Len(t, left.Locations, 2)

	right := col.ByID[cell.ID{RecLabel: 2, GTLabel: 1}]
	require.NotNil(t, right)
	require.Len(t, right.Locations, 2)

	recs := col.Matches.RecLabelsFor(1)
	require.Contains(t, recs, 1.0)
	require.Contains(t, recs, 2.0)
}

func TestExtractMergesSameLabelPairAcrossVolume(t *testing.T) {
	// Two disjoint regions share the same (gt, rec) pair -> one cell.
	gt := mustVol(t, [][][]float64{{
		{1, 2},
		{2, 1},
	}})
	rec := mustVol(t, [][][]float64{{
		{5, 5},
		{5, 5},
	}})

	col, err := cell.Extract(gt, rec)
	require.NoError(t, err)
	require.Len(t, col.Cells, 2)

	c1 := col.ByID[cell.ID{RecLabel: 5, GTLabel: 1}]
	c2 := col.ByID[cell.ID{RecLabel: 5, GTLabel: 2}]
	require.NotNil(t, c1)
	require.NotNil(t, c2)
	require.Len(t, c1.Locations, 2)
	require.Len(t, c2.Locations, 2)
}

func TestCellLabelsDefaultFirst(t *testing.T) {
	c := &cell.Cell{RecLabel: 3, Alternatives: []float64{4, 5}}
	require.Equal(t, []float64{3, 4, 5}, c.Labels())
}
