package cell

import "github.com/nivir/ted/volume"

// Extract partitions gt and rec into cells keyed by (recLabel, gtLabel)
// and seeds the possible-match sets with every pair observed in the input
// (spec.md §4.1). It returns volume.ErrSizeMismatch if the two volumes do
// not share identical dimensions.
//
// The pass is a single deterministic scan in z-major, y, x order (the same
// order volume.Volume.ForEach uses), so two calls over identical inputs
// always produce cells whose Locations slices are built in the same
// order — required for the reproducibility spec.md §5 demands of every
// downstream variable-index assignment.
//
// Complexity: O(W*H*D) time, O(|Cells| + |distinct labels|) extra memory.
func Extract(gt, rec *volume.Volume) (*Collection, error) {
	if !gt.SameDims(rec) {
		return nil, volume.ErrSizeMismatch
	}

	col := &Collection{
		ByID:            make(map[ID]*Cell),
		Matches:         NewPossibleMatches(),
		CellsByRecLabel: make(map[float64][]*Cell),
	}
	seenGT := make(map[float64]struct{})
	seenRec := make(map[float64]struct{})

	gt.ForEach(func(c volume.Coord, g float64) {
		r := rec.MustAt(c)

		id := ID{RecLabel: r, GTLabel: g}
		cl, ok := col.ByID[id]
		if !ok {
			cl = &Cell{RecLabel: r, GTLabel: g}
			col.ByID[id] = cl
			col.Cells = append(col.Cells, cl)
			col.CellsByRecLabel[r] = append(col.CellsByRecLabel[r], cl)
			col.Matches.Add(g, r)
		}
		cl.Locations = append(cl.Locations, c)

		if _, ok := seenGT[g]; !ok {
			seenGT[g] = struct{}{}
			col.GTLabels = append(col.GTLabels, g)
		}
		if _, ok := seenRec[r]; !ok {
			seenRec[r] = struct{}{}
			col.RecLabels = append(col.RecLabels, r)
		}
	})

	return col, nil
}
