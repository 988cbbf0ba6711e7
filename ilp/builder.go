package ilp

import (
	"fmt"
	"sort"

	"github.com/nivir/ted/cell"
)

// Build emits the ILP described in spec.md §4.4 from col.
//
// Variable allocation order (spec.md §4.4, with the "ascending label
// value" determinism spec.md §5 calls out explicitly):
//  1. For r in ascending RecLabels, for each cell of that r (in
//     extraction order), one indicator variable per label in
//     {r} ∪ Alternatives(cell).
//  2. One match variable per (gt, rec) pair of col.Matches, in the order
//     those pairs were first observed (extraction order, then tolerance
//     order — itself already deterministic, see package tolerance).
//  3. One split counter per ascending GTLabel, then S.
//  4. One merge counter per ascending RecLabel, then M.
//
// An empty collection (no cells) yields an empty Problem: no variables,
// no constraints — the trivially optimal S = M = 0 (spec.md §4.4 edge
// case).
//
// Complexity: O(|Cells| * avg|alternatives| + |PMgt| + |GTLabels| +
// |RecLabels|) variables and a small constant number of constraints per
// variable (spec.md §5 resource policy).
func Build(col *cell.Collection) (*Problem, error) {
	recLabels := sortedCopy(col.RecLabels)
	gtLabels := sortedCopy(col.GTLabels)

	p := &Problem{
		IndicatorIndex: make(map[*cell.Cell]map[float64]int),
		MatchIndex:     make(map[cell.ID]int),
		SplitIndex:     make(map[float64]int),
		MergeIndex:     make(map[float64]int),
	}
	if len(col.Cells) == 0 {
		return p, nil
	}

	// cellVarsForPair[{rec, gt}] lists every indicator variable x[c, rec]
	// for a cell c with GTLabel == gt — the set "V" of spec.md §4.4's
	// match-activation constraint.
	cellVarsForPair := make(map[cell.ID][]int)

	// 1. Indicator variables.
	for _, r := range recLabels {
		for _, c := range col.CellsByRecLabel[r] {
			p.Cells = append(p.Cells, c)
			labelIdx := make(map[float64]int, 1+len(c.Alternatives))
			for _, label := range c.Labels() {
				idx := p.addVar(Binary, fmt.Sprintf("x[gt=%v,rec=%v->%v]", c.GTLabel, c.RecLabel, label))
				labelIdx[label] = idx

				key := cell.ID{RecLabel: label, GTLabel: c.GTLabel}
				cellVarsForPair[key] = append(cellVarsForPair[key], idx)
			}
			p.IndicatorIndex[c] = labelIdx
		}
	}

	// varsByLabel[r] lists every indicator variable carrying label r,
	// whether as a cell's default or as an alternative — the set the
	// "labels do not disappear" constraint sums over (spec.md §4.4).
	varsByLabel := make(map[float64][]int)
	for _, labelIdx := range p.IndicatorIndex {
		for label, idx := range labelIdx {
			varsByLabel[label] = append(varsByLabel[label], idx)
		}
	}
	// Rebuild varsByLabel deterministically: map iteration above is
	// unordered, but we only need the *set* of indices per label for a
	// sum constraint, whose value is order-independent. Still, we want a
	// stable constraint emission order, so sort each label's indices.
	for label := range varsByLabel {
		sort.Ints(varsByLabel[label])
	}

	// 2. Match variables, in col.Matches insertion order.
	pairs := col.Matches.Pairs()
	matchesByGT := make(map[float64][]int)
	matchesByRec := make(map[float64][]int)
	for _, pair := range pairs {
		idx := p.addVar(Binary, fmt.Sprintf("m[gt=%v,rec=%v]", pair.GTLabel, pair.RecLabel))
		p.MatchIndex[pair] = idx
		matchesByGT[pair.GTLabel] = append(matchesByGT[pair.GTLabel], idx)
		matchesByRec[pair.RecLabel] = append(matchesByRec[pair.RecLabel], idx)
	}

	// 3. Split counters, then S.
	for _, g := range gtLabels {
		p.SplitIndex[g] = p.addVar(IntegerNonNeg, fmt.Sprintf("s[%v]", g))
	}
	p.SIndex = p.addVar(IntegerNonNeg, "S")

	// 4. Merge counters, then M.
	for _, r := range recLabels {
		p.MergeIndex[r] = p.addVar(IntegerNonNeg, fmt.Sprintf("mu[%v]", r))
	}
	p.MIndex = p.addVar(IntegerNonNeg, "M")

	p.addCoverageConstraints()
	p.addSurvivalConstraints(recLabels, varsByLabel)
	p.addMatchConstraints(pairs, cellVarsForPair)
	p.addSplitConstraints(gtLabels, matchesByGT)
	p.addMergeConstraints(recLabels, matchesByRec)
	p.addTotalConstraints(gtLabels, recLabels)

	p.Objective = []Term{{Var: p.SIndex, Coeff: 1}, {Var: p.MIndex, Coeff: 1}}

	return p, nil
}

func (p *Problem) addVar(kind VarKind, name string) int {
	idx := len(p.Variables)
	p.Variables = append(p.Variables, Variable{Index: idx, Kind: kind, Name: name})
	return idx
}

// addCoverageConstraints emits constraint family 1: sum_ℓ x[c,ℓ] = 1.
func (p *Problem) addCoverageConstraints() {
	for _, c := range p.Cells {
		labelIdx := p.IndicatorIndex[c]
		terms := make([]Term, 0, len(labelIdx))
		for _, label := range c.Labels() {
			terms = append(terms, Term{Var: labelIdx[label], Coeff: 1})
		}
		p.Constraints = append(p.Constraints, Constraint{
			Name:  fmt.Sprintf("coverage[gt=%v,rec=%v]", c.GTLabel, c.RecLabel),
			Terms: terms,
			Op:    EQ,
			RHS:   1,
		})
	}
}

// addSurvivalConstraints emits constraint family 2: every original rec
// label's indicator mass is >= 1, counting cells where it appears as an
// alternative too (spec.md §9's "labels cannot disappear" note).
func (p *Problem) addSurvivalConstraints(recLabels []float64, varsByLabel map[float64][]int) {
	for _, r := range recLabels {
		terms := make([]Term, 0, len(varsByLabel[r]))
		for _, idx := range varsByLabel[r] {
			terms = append(terms, Term{Var: idx, Coeff: 1})
		}
		p.Constraints = append(p.Constraints, Constraint{
			Name:  fmt.Sprintf("survive[%v]", r),
			Terms: terms,
			Op:    GE,
			RHS:   1,
		})
	}
}

// addMatchConstraints emits constraint family 3 for every (g,r) in
// col.Matches: m[g,r] - v >= 0 for each contributor v, and sum(v) - m >= 0.
func (p *Problem) addMatchConstraints(pairs []cell.ID, cellVarsForPair map[cell.ID][]int) {
	for _, pair := range pairs {
		m := p.MatchIndex[pair]
		vs := cellVarsForPair[pair]

		for _, v := range vs {
			p.Constraints = append(p.Constraints, Constraint{
				Name:  fmt.Sprintf("matchclamp[gt=%v,rec=%v,v=%d]", pair.GTLabel, pair.RecLabel, v),
				Terms: []Term{{Var: m, Coeff: 1}, {Var: v, Coeff: -1}},
				Op:    GE,
				RHS:   0,
			})
		}

		sumTerms := make([]Term, 0, len(vs)+1)
		for _, v := range vs {
			sumTerms = append(sumTerms, Term{Var: v, Coeff: 1})
		}
		sumTerms = append(sumTerms, Term{Var: m, Coeff: -1})
		p.Constraints = append(p.Constraints, Constraint{
			Name:  fmt.Sprintf("matchsum[gt=%v,rec=%v]", pair.GTLabel, pair.RecLabel),
			Terms: sumTerms,
			Op:    GE,
			RHS:   0,
		})
	}
}

// addSplitConstraints emits constraint family 4: s[g] - sum_r m[g,r] = -1.
func (p *Problem) addSplitConstraints(gtLabels []float64, matchesByGT map[float64][]int) {
	for _, g := range gtLabels {
		terms := []Term{{Var: p.SplitIndex[g], Coeff: 1}}
		for _, idx := range matchesByGT[g] {
			terms = append(terms, Term{Var: idx, Coeff: -1})
		}
		p.Constraints = append(p.Constraints, Constraint{
			Name:  fmt.Sprintf("split[%v]", g),
			Terms: terms,
			Op:    EQ,
			RHS:   -1,
		})
	}
}

// addMergeConstraints emits constraint family 5: μ[r] - sum_g m[g,r] = -1.
func (p *Problem) addMergeConstraints(recLabels []float64, matchesByRec map[float64][]int) {
	for _, r := range recLabels {
		terms := []Term{{Var: p.MergeIndex[r], Coeff: 1}}
		for _, idx := range matchesByRec[r] {
			terms = append(terms, Term{Var: idx, Coeff: -1})
		}
		p.Constraints = append(p.Constraints, Constraint{
			Name:  fmt.Sprintf("merge[%v]", r),
			Terms: terms,
			Op:    EQ,
			RHS:   -1,
		})
	}
}

// addTotalConstraints emits constraint family 6: S - sum_g s[g] = 0 and
// M - sum_r μ[r] = 0.
func (p *Problem) addTotalConstraints(gtLabels, recLabels []float64) {
	sTerms := []Term{{Var: p.SIndex, Coeff: 1}}
	for _, g := range gtLabels {
		sTerms = append(sTerms, Term{Var: p.SplitIndex[g], Coeff: -1})
	}
	p.Constraints = append(p.Constraints, Constraint{Name: "totalS", Terms: sTerms, Op: EQ, RHS: 0})

	mTerms := []Term{{Var: p.MIndex, Coeff: 1}}
	for _, r := range recLabels {
		mTerms = append(mTerms, Term{Var: p.MergeIndex[r], Coeff: -1})
	}
	p.Constraints = append(p.Constraints, Constraint{Name: "totalM", Terms: mTerms, Op: EQ, RHS: 0})
}

func sortedCopy(labels []float64) []float64 {
	out := make([]float64, len(labels))
	copy(out, labels)
	sort.Float64s(out)
	return out
}
