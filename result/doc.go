// Package result implements the Result Extractor (C6): translating a
// solved ilp.Problem back into the two outputs spec.md §4.6 defines —
// the split/merge Errors summary and the relabeled CorrectedReconstruction
// volume — plus the peripheral post-processing scatter spec.md §9 flags
// as a missing piece of the source header (ScanLocations).
package result
