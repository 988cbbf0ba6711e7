package solver

import (
	"context"

	"github.com/nivir/ted/cell"
	"github.com/nivir/ted/ilp"
)

// BranchAndBound is the bundled exact Solver: a depth-first
// branch-and-bound search over per-cell label choices, with deterministic
// branching order, an admissible bound, and soft deadline checks.
//
// Every cell's own reconstruction label is always a feasible choice for
// it, so the all-defaults assignment (every cell keeps its original
// label) is always feasible and is also the very first leaf the search
// visits — it doubles as an admissible upper-bound seed, falling out of
// the branching order itself rather than needing a separate seeding step.
type BranchAndBound struct {
	// DeadlineCheckInterval controls how many search nodes elapse between
	// context cancellation checks. TED problems are typically small, so a
	// low default keeps cancellation responsive without adding overhead
	// to the hot loop.
	DeadlineCheckInterval int
}

// NewBranchAndBound returns a BranchAndBound with the default deadline
// check cadence.
func NewBranchAndBound() *BranchAndBound {
	return &BranchAndBound{DeadlineCheckInterval: 1024}
}

// Solve implements Solver. Per spec.md §7, it never returns a partial
// result: either the search completes and the proven optimum is
// returned, or ctx is cancelled/exceeded mid-search and ErrSolverFailure
// is returned with a zero Solution.
func (bb *BranchAndBound) Solve(ctx context.Context, p *ilp.Problem) (Solution, error) {
	if len(p.Cells) == 0 {
		return Solution{Values: make([]float64, p.NumVariables()), Status: Optimal}, nil
	}

	interval := bb.DeadlineCheckInterval
	if interval <= 0 {
		interval = 1024
	}

	eng := &bbEngine{
		p:            p,
		choice:       make([]float64, len(p.Cells)),
		bestChoice:   make([]float64, len(p.Cells)),
		checkEvery:   interval,
		bestObjective: -1,
	}

	matched := make(map[cell.ID]bool, len(p.Cells))
	eng.search(ctx, 0, matched)

	if eng.timedOut {
		return Solution{}, ErrSolverFailure
	}
	if !eng.foundAny {
		return Solution{}, ErrInfeasibleProblem
	}

	return eng.buildSolution(), nil
}

// bbEngine holds all search state for one Solve call.
type bbEngine struct {
	p *ilp.Problem

	choice     []float64 // choice[i] = label currently assigned to p.Cells[i]
	bestChoice []float64 // best complete, feasible assignment found so far

	bestObjective float64 // S+M of bestChoice; -1 means "none found yet"
	foundAny      bool

	steps      int
	checkEvery int
	timedOut   bool
}

// search explores cell assignments depth-first. matched accumulates the
// (gtLabel, recLabel) pairs proven matched by the assignment made so far
// at depths [0, depth); it is mutated in place and restored on backtrack.
func (e *bbEngine) search(ctx context.Context, depth int, matched map[cell.ID]bool) {
	if e.timedOut {
		return
	}
	e.steps++
	if e.steps%e.checkEvery == 0 {
		select {
		case <-ctx.Done():
			e.timedOut = true
			return
		default:
		}
	}

	if depth == len(e.p.Cells) {
		e.considerComplete(matched)
		return
	}

	// Admissible bound: the match pairs proven so far can only grow as
	// the search descends further, so the split+merge count they already
	// imply is a valid lower bound on any completion.
	if e.foundAny && objectiveFromMatched(matched) >= e.bestObjective {
		return
	}

	c := e.p.Cells[depth]
	for _, label := range c.Labels() {
		e.choice[depth] = label

		key := cell.ID{GTLabel: c.GTLabel, RecLabel: label}
		added := !matched[key]
		if added {
			matched[key] = true
		}

		e.search(ctx, depth+1, matched)

		if added {
			delete(matched, key)
		}
		if e.timedOut {
			return
		}
	}
}

// considerComplete checks a fully assigned leaf for feasibility (every
// original rec label must survive, spec.md §4.4 constraint 2) and, if
// feasible and strictly better than the incumbent, records it.
func (e *bbEngine) considerComplete(matched map[cell.ID]bool) {
	survived := make(map[float64]bool, len(e.p.MergeIndex))
	for key := range matched {
		survived[key.RecLabel] = true
	}
	for r := range e.p.MergeIndex {
		if !survived[r] {
			return // infeasible: r vanished under this assignment
		}
	}

	obj := objectiveFromMatched(matched)
	if !e.foundAny || obj < e.bestObjective {
		e.foundAny = true
		e.bestObjective = obj
		copy(e.bestChoice, e.choice)
	}
}

// objectiveFromMatched computes S+M (spec.md §3 I4–I6) from the set of
// (gtLabel, recLabel) pairs proven matched so far.
func objectiveFromMatched(matched map[cell.ID]bool) float64 {
	byGT := make(map[float64]int)
	byRec := make(map[float64]int)
	for k := range matched {
		byGT[k.GTLabel]++
		byRec[k.RecLabel]++
	}

	var total float64
	for _, n := range byGT {
		if n > 1 {
			total += float64(n - 1)
		}
	}
	for _, n := range byRec {
		if n > 1 {
			total += float64(n - 1)
		}
	}
	return total
}

// buildSolution translates e.bestChoice into a full variable-value vector
// over e.p, using the index maps ilp.Build recorded for exactly this
// purpose.
func (e *bbEngine) buildSolution() Solution {
	values := make([]float64, e.p.NumVariables())
	matched := make(map[cell.ID]bool, len(e.p.Cells))

	for i, c := range e.p.Cells {
		label := e.bestChoice[i]
		for l, idx := range e.p.IndicatorIndex[c] {
			if l == label {
				values[idx] = 1
			}
		}
		matched[cell.ID{GTLabel: c.GTLabel, RecLabel: label}] = true
	}

	for pair, idx := range e.p.MatchIndex {
		if matched[pair] {
			values[idx] = 1
		}
	}

	byGT := make(map[float64]int)
	byRec := make(map[float64]int)
	for k := range matched {
		byGT[k.GTLabel]++
		byRec[k.RecLabel]++
	}

	var totalS, totalM float64
	for g, idx := range e.p.SplitIndex {
		s := float64(byGT[g] - 1)
		if s < 0 {
			s = 0
		}
		values[idx] = s
		totalS += s
	}
	for r, idx := range e.p.MergeIndex {
		m := float64(byRec[r] - 1)
		if m < 0 {
			m = 0
		}
		values[idx] = m
		totalM += m
	}
	values[e.p.SIndex] = totalS
	values[e.p.MIndex] = totalM

	return Solution{Values: values, Objective: totalS + totalM, Status: Optimal}
}
