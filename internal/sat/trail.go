package sat

// trail is the ordered sequence of the current partial assignment, together
// with the per-variable VarData spec.md §3/§4.3 describes: value, decision
// level, reason clause, and saved polarity.
//
// lim[d] records the trail length at the start of decision level d+1, so
// len(lim) is the current decision level. qhead separates already
// propagated assignments (index < qhead) from pending ones.
type trail struct {
	lits []Literal
	lim  []int

	qhead int

	// Per-literal assigned value. Indexed directly by literal (not by
	// variable): assigns[l] and assigns[l.Opposite()] are kept as
	// opposites of one another, which makes eval(l) a single array read
	// instead of a variable lookup plus an XOR.
	assigns []LBool

	level    []int32
	reason   []CRef
	polarity []LBool
}

func newTrail() *trail {
	return &trail{}
}

func (t *trail) decisionLevel() int {
	return len(t.lim)
}

// growTo allocates the bookkeeping for one freshly added variable.
func (t *trail) growTo() {
	t.assigns = append(t.assigns, Unknown, Unknown)
	t.level = append(t.level, -1)
	t.reason = append(t.reason, CRefUndef)
	t.polarity = append(t.polarity, Unknown)
}

// eval returns the current truth value of literal l.
func (t *trail) eval(l Literal) LBool {
	return t.assigns[l]
}

// value returns the current truth value of variable v.
func (t *trail) value(v Var) LBool {
	return t.assigns[PositiveLiteral(v)]
}

// newDecisionLevel opens a new decision level. Must be called immediately
// before enqueuing the decision literal itself.
func (t *trail) newDecisionLevel() {
	t.lim = append(t.lim, len(t.lits))
}

// enqueue asserts l (which must currently be undefined) with the given
// reason clause (CRefUndef for a decision or a root-level unit) and pushes
// it onto the trail.
func (t *trail) enqueue(l Literal, reason CRef) {
	v := l.Var()
	t.assigns[l] = True
	t.assigns[l.Opposite()] = False
	t.level[v] = int32(t.decisionLevel())
	t.reason[v] = reason
	t.lits = append(t.lits, l)
}

// cancelUntil reverts every assignment made at a decision level greater
// than level, saving each unassigned variable's last value as its polarity and
// reinserting it into the VSIDS heap so it can be branched on again.
func (t *trail) cancelUntil(level int, heap *varHeap) {
	if t.decisionLevel() <= level {
		return
	}
	bound := t.lim[level]
	for i := len(t.lits) - 1; i >= bound; i-- {
		l := t.lits[i]
		v := l.Var()
		t.polarity[v] = Lift(l.IsPositive())
		t.assigns[l] = Unknown
		t.assigns[l.Opposite()] = Unknown
		t.reason[v] = CRefUndef
		t.level[v] = -1
		heap.Push(v)
	}
	t.lits = t.lits[:bound]
	t.lim = t.lim[:level]
	t.qhead = bound
}
