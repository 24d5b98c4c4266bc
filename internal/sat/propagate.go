package sat

// propagate runs BCP to a fixpoint, following spec.md §4.5. It drains the
// trail from qhead forward, scanning the watch list of each newly-assigned
// literal p (the clauses watching ¬p). On a conflict it returns the falsified clause's
// handle and leaves the trail otherwise consistent; on CRefUndef, the
// partial assignment is consistent with every clause.
func (s *Solver) propagate() CRef {
	s.watches.cleanupDirty(s.arena)

	for s.trail.qhead < len(s.trail.lits) {
		p := s.trail.lits[s.trail.qhead]
		s.trail.qhead++

		list := s.watches.lists[p]
		write := 0

		for read := 0; read < len(list); read++ {
			w := list[read]

			if s.trail.eval(w.blocker) == True {
				list[write] = w
				write++
				continue
			}

			cref := w.cref

			// Ensure the false-literal invariant: clause[1] = ¬p.
			if s.arena.Lit(cref, 0) == p.Opposite() {
				s.arena.SwapLits(cref, 0, 1)
			}

			first := s.arena.Lit(cref, 0)
			if first != w.blocker && s.trail.eval(first) == True {
				list[write] = watcher{cref: cref, blocker: first}
				write++
				continue
			}

			relinked := false
			n := s.arena.Len(cref)
			for k := 2; k < n; k++ {
				lk := s.arena.Lit(cref, k)
				if s.trail.eval(lk) != False {
					s.arena.SwapLits(cref, 1, k)
					s.watches.watch(s.arena.Lit(cref, 1).Opposite(), cref, first)
					relinked = true
					break
				}
			}
			if relinked {
				continue
			}

			// No replacement: the clause is unit or conflicting.
			list[write] = watcher{cref: cref, blocker: first}
			write++

			if s.trail.eval(first) == False {
				// Conflict: copy the remaining watchers verbatim and bail.
				for read++; read < len(list); read++ {
					list[write] = list[read]
					write++
				}
				s.watches.lists[p] = list[:write]
				return cref
			}
			s.trail.enqueue(first, cref)
		}

		s.watches.lists[p] = list[:write]
	}

	return CRefUndef
}
