package cell

import "github.com/nivir/ted/volume"

// ID identifies a Cell by its immutable (recLabel, gtLabel) pair.
type ID struct {
	RecLabel float64
	GTLabel  float64
}

// Cell is the atomic region of joint constancy described in spec.md §3:
// the non-empty set of voxels at which GT = gtLabel and REC = recLabel.
type Cell struct {
	RecLabel float64
	GTLabel  float64

	// Locations holds every voxel belonging to this cell, in the
	// deterministic scan order they were first observed.
	Locations []volume.Coord

	// Alternatives holds the reconstruction labels — other than RecLabel —
	// to which this cell could be relabeled under tolerance. Populated by
	// the tolerance enumerator (package tolerance); always excludes
	// RecLabel itself, since the default label is implicit.
	Alternatives []float64
}

// Labels returns every label this cell could legally adopt in the ILP: its
// own RecLabel plus its Alternatives, in that order (spec.md §4.4).
func (c *Cell) Labels() []float64 {
	labels := make([]float64, 0, 1+len(c.Alternatives))
	labels = append(labels, c.RecLabel)
	labels = append(labels, c.Alternatives...)
	return labels
}

// PossibleMatches maintains the symmetric PMgt/PMrec mappings of spec.md
// §3: gt label -> set of rec labels it might end up with, and the mirror
// image. Mutation is not internally synchronized; the tolerance enumerator
// computes each rec label's qualifying pairs on its own worker goroutine
// (spec.md §5) and merges them into one PossibleMatches sequentially, a
// shard-then-merge discipline that stays deterministic under internal
// parallelism without needing any locking here.
type PossibleMatches struct {
	gtToRec map[float64]map[float64]struct{}
	recToGT map[float64]map[float64]struct{}
	// order preserves first-insertion order of (gt, rec) pairs, since the
	// ILP builder must allocate match variables in a deterministic order
	// (spec.md §4.4, §5).
	order []ID
}

// NewPossibleMatches returns an empty PossibleMatches set.
func NewPossibleMatches() *PossibleMatches {
	return &PossibleMatches{
		gtToRec: make(map[float64]map[float64]struct{}),
		recToGT: make(map[float64]map[float64]struct{}),
	}
}

// Add registers the pair (gt, rec) in both directions. It is a no-op if
// the pair is already present. Not safe for concurrent use: callers that
// add pairs from multiple goroutines must serialize the calls themselves
// (see tolerance.Enumerate, which merges worker results sequentially
// rather than calling Add concurrently).
func (pm *PossibleMatches) Add(gt, rec float64) {
	if _, ok := pm.gtToRec[gt]; !ok {
		pm.gtToRec[gt] = make(map[float64]struct{})
	}
	if _, ok := pm.gtToRec[gt][rec]; ok {
		return
	}
	pm.gtToRec[gt][rec] = struct{}{}

	if _, ok := pm.recToGT[rec]; !ok {
		pm.recToGT[rec] = make(map[float64]struct{})
	}
	pm.recToGT[rec][gt] = struct{}{}

	pm.order = append(pm.order, ID{GTLabel: gt, RecLabel: rec})
}

// RecLabelsFor returns the set of rec labels possibly matching gt.
func (pm *PossibleMatches) RecLabelsFor(gt float64) map[float64]struct{} {
	return pm.gtToRec[gt]
}

// GTLabelsFor returns the set of gt labels possibly matching rec.
func (pm *PossibleMatches) GTLabelsFor(rec float64) map[float64]struct{} {
	return pm.recToGT[rec]
}

// Pairs returns every registered (gt, rec) pair in first-insertion order.
func (pm *PossibleMatches) Pairs() []ID {
	return pm.order
}

// Collection is the full output of the Cell Extractor: every cell found in
// the volume pair, plus the initial possible-match sets and the distinct
// gt/rec label sets observed (spec.md §4.1).
type Collection struct {
	Cells []*Cell
	// ByID indexes Cells by their (recLabel, gtLabel) pair for O(1) lookup
	// during tolerance enumeration and ILP building.
	ByID map[ID]*Cell

	Matches *PossibleMatches

	// GTLabels and RecLabels hold every distinct label observed in GT and
	// REC respectively, in first-seen order (needed for §4.4's
	// deterministic rec-label iteration and the "labels do not disappear"
	// constraint).
	GTLabels  []float64
	RecLabels []float64

	// CellsByRecLabel groups cells by their reconstruction label, in the
	// order §4.4 requires when allocating indicator variables.
	CellsByRecLabel map[float64][]*Cell
}
