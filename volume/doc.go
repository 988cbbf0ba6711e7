// Package volume defines the 3-D label volume shared by every stage of the
// tolerant edit distance pipeline: the cell extractor, the distance
// transform, the tolerance enumerator, and the result extractor all read
// and write Volume values.
//
// A Volume stores one real-valued label per voxel in a flat, row-major
// slice (stride W within a slice, stride W*H between slices). Voxel
// physical spacing is carried alongside the data as a Pitch, since every
// distance computed downstream is anisotropic.
package volume
