package result

import "github.com/nivir/ted/volume"

// ScanLocations performs the per-voxel scatter comparison spec.md §9
// calls out as a missing piece of the source header: split voxels (every
// voxel of a non-background gt label that is covered by more than one rec
// label), merge voxels (every voxel of a non-background rec label that
// covers more than one gt label), and false positive/negative voxels against the
// two background labels. It is pure post-processing over two finished
// volumes, independent of the ILP that produced corrected.
func ScanLocations(corrected, gt *volume.Volume, gtBackground, recBackground float64) (LocationMasks, error) {
	if !corrected.SameDims(gt) {
		return LocationMasks{}, volume.ErrSizeMismatch
	}

	w, h, d := corrected.Dims()
	masks := LocationMasks{
		Split:         volume.NewMask(w, h, d),
		Merge:         volume.NewMask(w, h, d),
		FalsePositive: volume.NewMask(w, h, d),
		FalseNegative: volume.NewMask(w, h, d),
	}

	// gtCellRecLabels[g] counts the distinct rec labels observed within
	// gt label g; recCellGTLabels[r] mirrors it for merges.
	gtCellRecLabels := make(map[float64]map[float64]struct{})
	recCellGTLabels := make(map[float64]map[float64]struct{})

	corrected.ForEach(func(c volume.Coord, recLabel float64) {
		gtLabel, _ := gt.At(c)

		if gtCellRecLabels[gtLabel] == nil {
			gtCellRecLabels[gtLabel] = make(map[float64]struct{})
		}
		gtCellRecLabels[gtLabel][recLabel] = struct{}{}

		if recCellGTLabels[recLabel] == nil {
			recCellGTLabels[recLabel] = make(map[float64]struct{})
		}
		recCellGTLabels[recLabel][gtLabel] = struct{}{}

		if gtLabel == gtBackground && recLabel != recBackground {
			masks.FalsePositive.Set(c)
		}
		if gtLabel != gtBackground && recLabel == recBackground {
			masks.FalseNegative.Set(c)
		}
	})

	corrected.ForEach(func(c volume.Coord, recLabel float64) {
		gtLabel, _ := gt.At(c)
		if gtLabel != gtBackground && len(gtCellRecLabels[gtLabel]) > 1 {
			masks.Split.Set(c)
		}
		if recLabel != recBackground && len(recCellGTLabels[recLabel]) > 1 {
			masks.Merge.Set(c)
		}
	})

	return masks, nil
}
