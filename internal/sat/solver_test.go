package sat

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func lit(d int) Literal {
	if d > 0 {
		return PositiveLiteral(Var(d - 1))
	}
	return NegativeLiteral(Var(-d - 1))
}

func clause(ds ...int) []Literal {
	out := make([]Literal, len(ds))
	for i, d := range ds {
		out[i] = lit(d)
	}
	return out
}

func newSolverWithVars(n int) *Solver {
	s := NewDefaultSolver()
	for i := 0; i < n; i++ {
		s.AddVariable()
	}
	return s
}

func addAll(t *testing.T, s *Solver, clauses [][]int) {
	t.Helper()
	for _, c := range clauses {
		if err := s.AddClause(clause(c...)); err != nil {
			t.Fatalf("AddClause(%v): %v", c, err)
		}
	}
}

// satisfies reports whether model m (1 = true, 0 = false per variable,
// 1-based dimacs sign in clause) satisfies every clause.
func satisfies(m []bool, clauses [][]int) bool {
	for _, c := range clauses {
		ok := false
		for _, d := range c {
			v := d
			if v < 0 {
				v = -v
			}
			val := m[v-1]
			if d < 0 {
				val = !val
			}
			if val {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// TestS1_UnitPropagationChain: (1), (¬1∨2), (¬2∨3) forces 1=T,2=T,3=T with
// no decisions needed.
func TestS1_UnitPropagationChain(t *testing.T) {
	s := newSolverWithVars(3)
	addAll(t, s, [][]int{{1}, {-1, 2}, {-2, 3}})

	status := s.Solve(context.Background())
	if status != StatusSAT {
		t.Fatalf("Solve() = %s, want SAT", status)
	}
	want := []bool{true, true, true}
	if diff := cmp.Diff(want, s.Models[len(s.Models)-1]); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}
}

// TestS2_ImmediateConflict: (1), (¬1) triggers UNSAT at clause addition.
func TestS2_ImmediateConflict(t *testing.T) {
	s := newSolverWithVars(1)
	if err := s.AddClause(clause(1)); err != nil {
		t.Fatalf("AddClause(1): %v", err)
	}
	if err := s.AddClause(clause(-1)); err != nil {
		t.Fatalf("AddClause(-1): %v", err)
	}
	if !s.unsat {
		t.Fatalf("solver not marked unsat after immediate level-0 conflict")
	}
	if status := s.Solve(context.Background()); status != StatusUNSAT {
		t.Fatalf("Solve() = %s, want UNSAT", status)
	}
}

// TestS3_PigeonholeUNSAT: 3 pigeons, 2 holes.
func TestS3_PigeonholeUNSAT(t *testing.T) {
	// Variables: p[i][j] = 2*i+j + 1, i in 0..2 (pigeon), j in 0..1 (hole).
	pv := func(i, j int) int { return i*2 + j + 1 }

	s := newSolverWithVars(6)
	var clauses [][]int
	for i := 0; i < 3; i++ {
		clauses = append(clauses, []int{pv(i, 0), pv(i, 1)})
	}
	for j := 0; j < 2; j++ {
		for i := 0; i < 3; i++ {
			for k := i + 1; k < 3; k++ {
				clauses = append(clauses, []int{-pv(i, j), -pv(k, j)})
			}
		}
	}
	addAll(t, s, clauses)

	if status := s.Solve(context.Background()); status != StatusUNSAT {
		t.Fatalf("Solve() = %s, want UNSAT", status)
	}
}

// TestS4_BacktrackingSAT: requires the solver to backtrack before finding a
// model with 3=T, 4=T.
func TestS4_BacktrackingSAT(t *testing.T) {
	clauses := [][]int{
		{1, 2},
		{-1, 3},
		{-2, 3},
		{-3, 4},
		{-4, 1, 2},
	}
	s := newSolverWithVars(4)
	addAll(t, s, clauses)

	status := s.Solve(context.Background())
	if status != StatusSAT {
		t.Fatalf("Solve() = %s, want SAT", status)
	}
	m := s.Models[len(s.Models)-1]
	if !m[2] || !m[3] {
		t.Fatalf("model %v does not set 3=T, 4=T", m)
	}
	if !satisfies(m, clauses) {
		t.Fatalf("model %v does not satisfy all clauses", m)
	}
}

// TestS5_TautologyAndDuplicateElimination: (1∨¬1∨2) is a tautology and
// discarded; (2∨2∨3) normalizes to (2∨3).
func TestS5_TautologyAndDuplicateElimination(t *testing.T) {
	s := newSolverWithVars(3)
	if err := s.AddClause(clause(1, -1, 2)); err != nil {
		t.Fatalf("AddClause: %v", err)
	}
	if got := s.NumConstraints(); got != 0 {
		t.Fatalf("NumConstraints() = %d after tautology, want 0", got)
	}

	if err := s.AddClause(clause(2, 2, 3)); err != nil {
		t.Fatalf("AddClause: %v", err)
	}
	if got := s.NumConstraints(); got != 1 {
		t.Fatalf("NumConstraints() = %d after (2∨2∨3), want 1", got)
	}
	if got := s.arena.Len(s.clauses[0]); got != 2 {
		t.Fatalf("installed clause has %d literals, want 2 (deduplicated)", got)
	}

	status := s.Solve(context.Background())
	if status != StatusSAT {
		t.Fatalf("Solve() = %s, want SAT", status)
	}
	m := s.Models[len(s.Models)-1]
	if !satisfies(m, [][]int{{2, 3}}) {
		t.Fatalf("model %v does not satisfy (2∨3)", m)
	}
}

// TestS6_RestartUnderBudget builds a pigeonhole instance large enough that
// its refutation requires more than RestartFirst conflicts, and checks that
// at least one restart occurs before UNSAT is returned.
func TestS6_RestartUnderBudget(t *testing.T) {
	const pigeons, holes = 6, 5
	pv := func(i, j int) int { return i*holes + j + 1 }

	s := newSolverWithVars(pigeons * holes)
	s.opts.RestartFirst = 4 // force restarts well before the proof completes

	var clauses [][]int
	for i := 0; i < pigeons; i++ {
		row := make([]int, holes)
		for j := 0; j < holes; j++ {
			row[j] = pv(i, j)
		}
		clauses = append(clauses, row)
	}
	for j := 0; j < holes; j++ {
		for i := 0; i < pigeons; i++ {
			for k := i + 1; k < pigeons; k++ {
				clauses = append(clauses, []int{-pv(i, j), -pv(k, j)})
			}
		}
	}
	addAll(t, s, clauses)

	status := s.Solve(context.Background())
	if status != StatusUNSAT {
		t.Fatalf("Solve() = %s, want UNSAT", status)
	}
	if s.TotalRestarts < 2 {
		t.Fatalf("TotalRestarts = %d, want at least 2 (the initial search plus at least one restart) under a tight budget", s.TotalRestarts)
	}
}

// TestModelCorrectness checks that every SAT verdict carries a model
// satisfying all installed clauses, across a handful of instances.
func TestModelCorrectness(t *testing.T) {
	cases := [][][]int{
		{{1}, {-1, 2}, {-2, 3}},
		{{1, 2}, {-1, 3}, {-2, 3}, {-3, 4}, {-4, 1, 2}},
	}
	for _, clauses := range cases {
		s := newSolverWithVars(8)
		addAll(t, s, clauses)
		if status := s.Solve(context.Background()); status == StatusSAT {
			if !satisfies(s.Models[len(s.Models)-1], clauses) {
				t.Errorf("model does not satisfy clauses %v", clauses)
			}
		}
	}
}

// TestSolve_AlwaysReturnsToLevelZero checks that Solve always leaves the
// solver at decision level 0 regardless of outcome (spec.md §5).
func TestSolve_AlwaysReturnsToLevelZero(t *testing.T) {
	s := newSolverWithVars(3)
	addAll(t, s, [][]int{{1}, {-1, 2}, {-2, 3}})
	s.Solve(context.Background())
	if lvl := s.decisionLevel(); lvl != 0 {
		t.Fatalf("decisionLevel() = %d after Solve, want 0", lvl)
	}
}

// TestSolve_CancelledContext checks that an already-cancelled context makes
// Solve return StatusUnknown rather than hanging or crashing.
func TestSolve_CancelledContext(t *testing.T) {
	s := newSolverWithVars(3)
	addAll(t, s, [][]int{{1, 2, 3}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if status := s.Solve(ctx); status != StatusUnknown {
		t.Fatalf("Solve(cancelled ctx) = %s, want Unknown", status)
	}
	if lvl := s.decisionLevel(); lvl != 0 {
		t.Fatalf("decisionLevel() = %d after cancelled Solve, want 0", lvl)
	}
}
