// Package cell implements the Cell Extractor (C1): it partitions a pair of
// label volumes into maximal regions of constant (reconstruction,
// ground-truth) label pair, and seeds the possible-match bookkeeping that
// the tolerance enumerator later extends.
//
// A cell is keyed by the pair (recLabel, gtLabel), not by connected
// component — two disjoint regions of the volume sharing the same label
// pair belong to the same Cell, matching the original implementation this
// specification preserves (see spec.md §3 note).
package cell
