package sat

import "sort"

// watchClause installs the two watches a live, length >= 2 clause must
// carry (invariant I2): the list for ¬c[0] gets a watch blocked on c[1],
// and vice-versa.
func (s *Solver) watchClause(cref CRef) {
	l0 := s.arena.Lit(cref, 0)
	l1 := s.arena.Lit(cref, 1)
	s.watches.watch(l0.Opposite(), cref, l1)
	s.watches.watch(l1.Opposite(), cref, l0)
}

// unwatchClauseLazy smudges both of a clause's watch lists rather than
// scanning them, deferring actual removal to the next cleanupDirty pass
// (spec.md §4.4).
func (s *Solver) unwatchClauseLazy(cref CRef) {
	s.watches.smudge(s.arena.Lit(cref, 0).Opposite())
	s.watches.smudge(s.arena.Lit(cref, 1).Opposite())
}

// removeClause unwatches and frees a clause, whether original or learnt.
func (s *Solver) removeClause(cref CRef) {
	s.unwatchClauseLazy(cref)
	s.arena.free(cref)
}

// locked reports whether cref is currently the reason for some trail
// literal, which makes it unsafe to delete even if it scores low on
// activity (spec.md §4.10).
func (s *Solver) locked(cref CRef) bool {
	v := s.arena.Lit(cref, 0).Var()
	return s.trail.reason[v] == cref
}

// AddClause installs an original (non-learnt) clause, applying the
// root-level preprocessing spec.md §4.11 specifies: sort+dedup, tautology
// detection, dropping literals false at level 0, detecting a clause already
// satisfied at level 0, and handling the empty/unit/general cases. Must
// only be called at decision level 0.
func (s *Solver) AddClause(lits []Literal) error {
	if s.trail.decisionLevel() != 0 {
		return errDecisionLevelNotZero
	}
	if s.unsat {
		return nil
	}

	buf := append([]Literal(nil), lits...)
	sort.Slice(buf, func(i, j int) bool { return buf[i] < buf[j] })

	out := buf[:0]
	prev := NoLiteral
	for _, l := range buf {
		if l == prev {
			continue // duplicate literal (I4)
		}
		if prev != NoLiteral && l == prev.Opposite() {
			return nil // tautology: p and ¬p both present, discard clause
		}
		prev = l
		switch s.trail.eval(l) {
		case True:
			return nil // already satisfied at level 0, discard
		case False:
			continue // drop literal false at level 0
		}
		out = append(out, l)
	}

	switch len(out) {
	case 0:
		s.unsat = true
		return nil
	case 1:
		s.trail.enqueue(out[0], CRefUndef)
		if s.propagate() != CRefUndef {
			s.unsat = true
		}
		return nil
	default:
		cref := s.arena.alloc(out, false)
		s.clauses = append(s.clauses, cref)
		s.watchClause(cref)
		return nil
	}
}

// learn installs a clause produced by conflict analysis: allocates it in
// the arena, registers it as a learnt clause, watches it, and enqueues its
// asserting literal L[0] with the clause itself as reason. L must already
// have its second-highest-level literal in position 1 (analyze guarantees
// this). A unit clause is not allocated: its literal is enqueued with no
// reason and CRefUndef is returned.
func (s *Solver) learn(lits []Literal) CRef {
	if len(lits) == 1 {
		s.trail.enqueue(lits[0], CRefUndef)
		return CRefUndef
	}
	cref := s.arena.alloc(lits, true)
	s.learnts = append(s.learnts, cref)
	s.watchClause(cref)
	s.trail.enqueue(lits[0], cref)
	s.bumpClauseActivity(cref)
	return cref
}

func (s *Solver) bumpClauseActivity(cref CRef) {
	a := s.arena.Activity(cref) + float32(s.clauseInc)
	s.arena.SetActivity(cref, a)
	if a > 1e30 {
		for _, l := range s.learnts {
			s.arena.SetActivity(l, s.arena.Activity(l)*1e-30)
		}
		s.clauseInc *= 1e-30
	}
}

func (s *Solver) decayClauseActivity() {
	s.clauseInc /= s.opts.ClauseDecay
}

// simplifyClause removes literals false at the current (level-0) context
// and reports whether the clause is already satisfied. Only ever called at
// decision level 0, where a false literal stays false forever.
func (s *Solver) simplifyClause(cref CRef) bool {
	n := s.arena.Len(cref)
	// A satisfied clause is reported before any literal is moved, so its
	// watched slots 0 and 1 are still the ones removeClause unwatches.
	for i := 0; i < n; i++ {
		if s.trail.eval(s.arena.Lit(cref, i)) == True {
			return true
		}
	}
	learnt := s.arena.Learnt(cref)
	var activity float32
	if learnt {
		activity = s.arena.Activity(cref)
	}
	j := 0
	for i := 0; i < n; i++ {
		l := s.arena.Lit(cref, i)
		if s.trail.eval(l) == Unknown {
			s.arena.SetLit(cref, j, l)
			j++
		}
	}
	// False literals are simply dropped by not being copied forward; the
	// clause's recorded length shrinks to j, and a learnt clause's activity
	// word moves to sit right after its last remaining literal. Shrinking is
	// safe here only because this runs exclusively at level 0, before any
	// watches on the clause could be mid-scan.
	s.arena.mem[int(cref)+1] = uint32(j)
	if learnt {
		s.arena.SetActivity(cref, activity)
	}
	return false
}

// Simplify walks both clause lists, freeing any clause satisfied at the
// root level. Must only be called at decision level 0, after a successful
// propagate().
func (s *Solver) Simplify() bool {
	if s.trail.decisionLevel() != 0 {
		panic("Simplify called at non-root decision level")
	}
	if s.unsat {
		return false
	}
	if s.propagate() != CRefUndef {
		s.unsat = true
		return false
	}

	s.simplifyList(&s.learnts)
	s.simplifyList(&s.clauses)
	return true
}

func (s *Solver) simplifyList(list *[]CRef) {
	crefs := *list
	j := 0
	for _, cref := range crefs {
		if s.simplifyClause(cref) {
			s.removeClause(cref)
		} else {
			crefs[j] = cref
			j++
		}
	}
	*list = crefs[:j]
}

// ReduceLearnts halves the learnt clause set, keeping the more active half
// plus any clause that is currently locked (a reason) or binary (spec.md
// §4.10). Runs a compaction afterwards if the arena's wasted fraction
// exceeds the configured threshold.
func (s *Solver) ReduceLearnts() {
	if len(s.learnts) == 0 {
		return
	}

	sort.Slice(s.learnts, func(i, j int) bool {
		return s.arena.Activity(s.learnts[i]) < s.arena.Activity(s.learnts[j])
	})

	mid := len(s.learnts) / 2
	j := 0
	for i, cref := range s.learnts {
		keep := s.locked(cref) || s.arena.Len(cref) == 2 || i >= mid
		if keep {
			s.learnts[j] = cref
			j++
		} else {
			s.removeClause(cref)
		}
	}
	s.learnts = s.learnts[:j]

	if s.arena.wastedFraction() > s.opts.ReduceWasteFraction {
		s.compact()
	}

	s.maxLearntsLimit += s.maxLearntsLimit * s.opts.MaxLearntsGrowth
}

// compact runs arena compaction and rewrites every external CRef (watch
// lists and per-variable reasons) via the relocation pointers left on the
// old arena.
func (s *Solver) compact() {
	s.watches.cleanupDirty(s.arena)

	old := s.arena
	fresh := old.relocate(s.clauses, s.learnts)

	s.watches.relocate(old)
	for v, r := range s.trail.reason {
		if r != CRefUndef && old.Relocated(r) {
			s.trail.reason[v] = old.RelocationTarget(r)
		}
	}

	s.arena = fresh
}
