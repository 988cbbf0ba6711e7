// Package distance implements the Distance Transform (C2): for every voxel
// of a volume it computes the squared Euclidean distance, in nanometers²,
// to the nearest voxel of a supplied binary mask, honoring anisotropic
// voxel pitch.
//
// The transform is exact — a separable Felzenszwalb–Huttenlocher lower
// envelope of parabolas along each axis in turn — not an approximation
// (spec.md §4.2). Each axis pass folds in that axis's squared pitch as the
// parabola's curvature, so a stack with pz ≫ px, py naturally reports
// larger distances for a given index offset along z than along x or y.
package distance
