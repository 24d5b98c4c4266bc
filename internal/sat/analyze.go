package sat

// analyze performs resolution-by-trail-order conflict analysis to the first
// unique implication point (spec.md §4.6). It returns a learnt clause L
// (L[0] is the asserting literal, and when len(L) > 1, L[1] is the literal
// at the second-highest decision level) and the backjump level.
func (s *Solver) analyze(confl CRef) ([]Literal, int) {
	decisionLevel := s.trail.decisionLevel()

	s.seenVar.Clear()
	s.tmpLearnt = s.tmpLearnt[:0]
	s.tmpLearnt = append(s.tmpLearnt, NoLiteral) // reserved slot for the UIP

	path := 0
	idx := len(s.trail.lits) - 1
	p := NoLiteral

	for {
		for i, n := 0, s.resolventLen(confl, p); i < n; i++ {
			q := s.resolventLit(confl, p, i)
			v := q.Var()
			if s.seenVar.Contains(v) || s.trail.level[v] == 0 {
				continue
			}
			s.seenVar.Add(v)
			s.heap.BumpActivity(v)

			if s.trail.level[v] == int32(decisionLevel) {
				path++
				continue
			}
			s.tmpLearnt = append(s.tmpLearnt, q)
		}

		// Walk the trail backward to the next seen literal.
		var v Var
		for {
			p = s.trail.lits[idx]
			idx--
			v = p.Var()
			if s.seenVar.Contains(v) {
				break
			}
		}
		confl = s.trail.reason[v]
		path--

		if path <= 0 {
			break
		}
	}

	s.tmpLearnt[0] = p.Opposite()
	s.minimize()

	backtrackLevel := 0
	if len(s.tmpLearnt) > 1 {
		maxAt := 1
		maxLevel := s.trail.level[s.tmpLearnt[1].Var()]
		for i := 2; i < len(s.tmpLearnt); i++ {
			if lvl := s.trail.level[s.tmpLearnt[i].Var()]; lvl > maxLevel {
				maxLevel = lvl
				maxAt = i
			}
		}
		s.tmpLearnt[1], s.tmpLearnt[maxAt] = s.tmpLearnt[maxAt], s.tmpLearnt[1]
		backtrackLevel = int(maxLevel)
	}

	out := append([]Literal(nil), s.tmpLearnt...)
	return out, backtrackLevel
}

// resolventLen/resolventLit expose the literals being resolved against at
// each analysis step: either the conflicting clause itself (p == NoLiteral)
// or the reason clause for p, skipping p's own negation (reason clauses
// always carry their asserted literal at position 0).
func (s *Solver) resolventLen(confl CRef, p Literal) int {
	n := s.arena.Len(confl)
	if p == NoLiteral {
		return n
	}
	return n - 1
}

func (s *Solver) resolventLit(confl CRef, p Literal, i int) Literal {
	if p == NoLiteral {
		return s.arena.Lit(confl, i)
	}
	return s.arena.Lit(confl, i+1)
}

// minimize applies self-subsumption minimization (spec.md §4.6), dropping
// every non-asserting literal of the learnt clause whose reason chain is
// entirely subsumed by literals already in the clause (or satisfied at the
// root level).
func (s *Solver) minimize() {
	out := s.tmpLearnt[:1]
	for _, l := range s.tmpLearnt[1:] {
		if !s.literalRedundant(l) {
			out = append(out, l)
		}
	}
	s.tmpLearnt = out
}

// literalRedundant walks l's reason chain with a work-list (reusing
// s.tmpMinStack across calls): l is redundant if every literal reachable
// through reason clauses is either already seen, satisfied at decision
// level 0, or itself has a reason (and is therefore recursively
// redundant). A decision literal with no reason anywhere in the chain
// makes l non-redundant.
func (s *Solver) literalRedundant(l Literal) bool {
	if s.trail.reason[l.Var()] == CRefUndef {
		return false
	}

	stack := s.tmpMinStack[:0]
	stack = append(stack, l)

	// Variables marked seen by this call; unmarked again if l turns out not
	// to be redundant, so a failed check cannot make a later one succeed.
	var marked []Var
	redundant := true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		reason := s.trail.reason[cur.Var()]
		n := s.resolventLen(reason, cur)
		for i := 0; i < n; i++ {
			q := s.resolventLit(reason, cur, i)
			v := q.Var()
			if v == cur.Var() || s.seenVar.Contains(v) {
				continue
			}
			if s.trail.level[v] == 0 {
				continue // satisfied at the root, contributes nothing
			}
			if s.trail.reason[v] == CRefUndef {
				redundant = false
				break
			}
			s.seenVar.Add(v)
			marked = append(marked, v)
			stack = append(stack, q)
		}
		if !redundant {
			break
		}
	}
	if !redundant {
		for _, v := range marked {
			s.seenVar.addedAt[v] = 0 // Clear never leaves the timestamp at 0
		}
	}

	s.tmpMinStack = stack[:0]
	return redundant
}
