package sat

import "testing"

func TestAnalyze_learnsAssertingClauseAndBacktrackLevel(t *testing.T) {
	s := newSolverWithVars(5)
	addAll(t, s, [][]int{
		{-1, 2},
		{-1, 3},
		{-2, -3, 4},
		{-4, 5},
		{-4, -5},
	})

	s.trail.newDecisionLevel()
	s.trail.enqueue(lit(1), CRefUndef)
	confl := s.propagate()
	if confl == CRefUndef {
		t.Fatalf("propagate() = CRefUndef, want a conflict")
	}

	learnt, backtrackLevel := s.analyze(confl)
	if len(learnt) == 0 {
		t.Fatalf("analyze() returned an empty learnt clause")
	}
	if backtrackLevel != 0 {
		t.Fatalf("backtrackLevel = %d, want 0 (single decision level involved)", backtrackLevel)
	}

	s.trail.cancelUntil(backtrackLevel, s.heap)
	if got := s.trail.eval(learnt[0]); got != Unknown {
		t.Fatalf("eval(L[0]) after cancelUntil = %v, want Unknown", got)
	}
	for _, l := range learnt[1:] {
		if got := s.trail.eval(l); got != False {
			t.Errorf("eval(%v) = %v, want False", l, got)
		}
	}
}

func TestAnalyze_rootLevelConflictMarksUnsatWithoutAnalysis(t *testing.T) {
	// (1), (¬1∨2), (¬1∨¬2): after the first two clauses fix 1 and 2 at
	// decision level 0, every literal of the third is false there, so
	// AddClause reduces it to the empty clause and marks the solver unsat;
	// analyze is never reached.
	s := newSolverWithVars(2)
	addAll(t, s, [][]int{{1}, {-1, 2}, {-1, -2}})

	if !s.unsat {
		t.Fatalf("solver not marked unsat after root-level conflict")
	}
}
