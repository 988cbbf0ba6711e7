// Package tolerance implements the Tolerance Enumerator (C3): for each
// reconstruction label it builds a distance field from the voxels
// currently carrying that label, then determines which cells could be
// relabeled to it without any of their voxels exceeding the physical
// distance threshold (spec.md §4.3).
//
// Per spec.md §9's design note, the comparison is always done in squared
// nanometers² against T², with pitch already folded into the distance
// field by package distance — this module never compares a raw distance
// transform output against an unsquared threshold, the bug spec.md flags
// in the reference implementation.
package tolerance
