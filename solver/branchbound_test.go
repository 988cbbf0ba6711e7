package solver_test

import (
	"context"
	"testing"
	"time"

	"github.com/nivir/ted/cell"
	"github.com/nivir/ted/ilp"
	"github.com/nivir/ted/solver"
	"github.com/nivir/ted/tolerance"
	"github.com/nivir/ted/volume"
	"github.com/stretchr/testify/require"
)

func mustVol(t *testing.T, labels [][][]float64) *volume.Volume {
	t.Helper()
	v, err := volume.FromSlices(labels, volume.DefaultPitch())
	require.NoError(t, err)
	return v
}

func buildProblem(t *testing.T, gtLabels, recLabels [][][]float64, threshold float64) *ilp.Problem {
	t.Helper()
	gt := mustVol(t, gtLabels)
	rec := mustVol(t, recLabels)

	col, err := cell.Extract(gt, rec)
	require.NoError(t, err)
	require.NoError(t, tolerance.Enumerate(context.Background(), col, rec, threshold, 2))

	p, err := ilp.Build(col)
	require.NoError(t, err)
	return p
}

func TestBranchAndBoundEmptyProblemIsZero(t *testing.T) {
	bb := solver.NewBranchAndBound()
	sol, err := bb.Solve(context.Background(), &ilp.Problem{})
	require.NoError(t, err)
	require.Equal(t, solver.Optimal, sol.Status)
	require.Equal(t, 0.0, sol.Objective)
}

func TestBranchAndBoundExactMatchHasZeroCost(t *testing.T) {
	p := buildProblem(t,
		[][][]float64{{{1, 1}, {2, 2}}},
		[][][]float64{{{1, 1}, {2, 2}}},
		0,
	)

	bb := solver.NewBranchAndBound()
	sol, err := bb.Solve(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, solver.Optimal, sol.Status)
	require.Equal(t, 0.0, sol.Objective)
}

func TestBranchAndBoundPureSplitCostsOne(t *testing.T) {
	// GT all label 1; REC splits it into labels 1 and 2 with no tolerance.
	p := buildProblem(t,
		[][][]float64{{{1, 1, 1, 1}}},
		[][][]float64{{{1, 1, 2, 2}}},
		0,
	)

	bb := solver.NewBranchAndBound()
	sol, err := bb.Solve(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, solver.Optimal, sol.Status)
	require.Equal(t, 1.0, sol.Objective)
}

func TestBranchAndBoundPureMergeCostsOne(t *testing.T) {
	// GT has two labels; REC merges both under label 1.
	p := buildProblem(t,
		[][][]float64{{{1, 1, 2, 2}}},
		[][][]float64{{{1, 1, 1, 1}}},
		0,
	)

	bb := solver.NewBranchAndBound()
	sol, err := bb.Solve(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, solver.Optimal, sol.Status)
	require.Equal(t, 1.0, sol.Objective)
}

func TestBranchAndBoundToleranceForgivesBoundaryShift(t *testing.T) {
	// A one-voxel boundary shift, with a tolerance large enough to absorb it,
	// should resolve to zero cost instead of a split/merge pair.
	p := buildProblem(t,
		[][][]float64{{{1, 1, 2, 2}}},
		[][][]float64{{{1, 2, 2, 2}}},
		1000,
	)

	bb := solver.NewBranchAndBound()
	sol, err := bb.Solve(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, solver.Optimal, sol.Status)
	require.Equal(t, 0.0, sol.Objective)
}

func TestBranchAndBoundSurvivalConstraintIsRespected(t *testing.T) {
	p := buildProblem(t,
		[][][]float64{{{1, 1, 2, 2}}},
		[][][]float64{{{1, 1, 2, 2}}},
		0,
	)

	bb := solver.NewBranchAndBound()
	sol, err := bb.Solve(context.Background(), p)
	require.NoError(t, err)

	for r, idx := range p.MergeIndex {
		require.GreaterOrEqual(t, sol.Value(idx), 0.0)

		// Every original rec label is carried by at least one cell.
		carried := 0.0
		for _, c := range p.Cells {
			if v, ok := p.IndicatorIndex[c][r]; ok {
				carried += sol.Value(v)
			}
		}
		require.GreaterOrEqual(t, carried, 1.0, "rec label %v vanished", r)
	}
}

func TestBranchAndBoundRespectsCancelledContext(t *testing.T) {
	p := buildProblem(t,
		[][][]float64{{{1, 1, 1, 1}}},
		[][][]float64{{{1, 1, 2, 2}}},
		0,
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	bb := &solver.BranchAndBound{DeadlineCheckInterval: 1}
	_, err := bb.Solve(ctx, p)
	require.ErrorIs(t, err, solver.ErrSolverFailure)
}

func TestBranchAndBoundDeterministicAcrossRuns(t *testing.T) {
	p := buildProblem(t,
		[][][]float64{{{1, 2, 2, 1}}},
		[][][]float64{{{5, 5, 6, 6}}},
		100,
	)

	bb := solver.NewBranchAndBound()
	first, err := bb.Solve(context.Background(), p)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		sol, err := bb.Solve(context.Background(), p)
		require.NoError(t, err)
		require.Equal(t, first.Objective, sol.Objective)
		require.Equal(t, first.Values, sol.Values)
	}
}
