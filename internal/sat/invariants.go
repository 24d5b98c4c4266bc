package sat

import "github.com/pkg/errors"

// checkWatchInvariant verifies, for every live non-unit clause, that the
// watched-literal post-condition of propagate() holds (spec.md §8): either
// one of the two watched literals is True, or both are Undef and every
// other literal is either False (the clause is a pending unit) or at least
// one is non-False (the clause is open). Intended for use in tests, not on
// the hot path.
func (s *Solver) checkWatchInvariant() error {
	check := func(cref CRef) error {
		if s.arena.Deleted(cref) || s.arena.Len(cref) < 2 {
			return nil
		}
		l0, l1 := s.arena.Lit(cref, 0), s.arena.Lit(cref, 1)
		v0, v1 := s.trail.eval(l0), s.trail.eval(l1)
		if v0 == True || v1 == True {
			return nil
		}
		if v0 != Unknown || v1 != Unknown {
			return errors.Errorf("clause %d: watched literals %v=%v %v=%v, want one True or both Undef", cref, l0, v0, l1, v1)
		}
		for i := 2; i < s.arena.Len(cref); i++ {
			if s.trail.eval(s.arena.Lit(cref, i)) != False {
				return nil // open: a later literal is not False
			}
		}
		return nil // unit/conflicting: handled by propagate's own contract
	}

	for _, cref := range s.clauses {
		if err := check(cref); err != nil {
			return err
		}
	}
	for _, cref := range s.learnts {
		if err := check(cref); err != nil {
			return err
		}
	}
	return nil
}

// checkReasonInvariant verifies that every non-decision trail literal's
// reason clause has that literal in position 0 and every other literal
// False at a decision level no greater than the literal's own (spec.md
// §8). Intended for use in tests.
func (s *Solver) checkReasonInvariant() error {
	for _, l := range s.trail.lits {
		r := s.trail.reason[l.Var()]
		if r == CRefUndef {
			continue
		}
		if s.arena.Lit(r, 0) != l {
			return errors.Errorf("reason(%v) = %v does not have %v in position 0", l, r, l)
		}
		lvl := s.trail.level[l.Var()]
		for i := 1; i < s.arena.Len(r); i++ {
			q := s.arena.Lit(r, i)
			if s.trail.eval(q) != False {
				return errors.Errorf("reason(%v): literal %v is not False", l, q)
			}
			if s.trail.level[q.Var()] > lvl {
				return errors.Errorf("reason(%v): literal %v has a higher decision level", l, q)
			}
		}
	}
	return nil
}
