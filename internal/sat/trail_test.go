package sat

import "testing"

func newTestTrail(n int) (*trail, *varHeap) {
	tr := newTrail()
	h := newVarHeap(0.95)
	for i := 0; i < n; i++ {
		tr.growTo()
		h.growTo(Var(i))
	}
	return tr, h
}

func TestTrail_enqueueAndEval(t *testing.T) {
	tr, _ := newTestTrail(2)
	l := PositiveLiteral(0)
	tr.enqueue(l, CRefUndef)

	if got := tr.eval(l); got != True {
		t.Errorf("eval(l) = %v, want True", got)
	}
	if got := tr.eval(l.Opposite()); got != False {
		t.Errorf("eval(¬l) = %v, want False", got)
	}
	if got := tr.eval(PositiveLiteral(1)); got != Unknown {
		t.Errorf("eval(unassigned) = %v, want Unknown", got)
	}
}

func TestTrail_decisionLevelsAndCancel(t *testing.T) {
	tr, h := newTestTrail(3)

	tr.newDecisionLevel()
	tr.enqueue(PositiveLiteral(0), CRefUndef)
	if got := tr.decisionLevel(); got != 1 {
		t.Fatalf("decisionLevel() = %d, want 1", got)
	}

	tr.newDecisionLevel()
	tr.enqueue(PositiveLiteral(1), CRefUndef)
	tr.enqueue(NegativeLiteral(2), CRef(42))

	if got := tr.level[1]; got != 2 {
		t.Errorf("level[1] = %d, want 2", got)
	}
	if got := tr.reason[2]; got != CRef(42) {
		t.Errorf("reason[2] = %v, want 42", got)
	}

	tr.cancelUntil(1, h)
	if got := tr.decisionLevel(); got != 1 {
		t.Fatalf("decisionLevel() after cancelUntil(1) = %d, want 1", got)
	}
	if got := tr.value(1); got != Unknown {
		t.Errorf("value(1) after cancel = %v, want Unknown", got)
	}
	if !h.InHeap(1) || !h.InHeap(2) {
		t.Errorf("cancelled variables should be reinserted into the heap")
	}
	if got := tr.value(0); got != True {
		t.Errorf("value(0) after cancelUntil(1) = %v, want True (level 1 survives)", got)
	}
}

func TestTrail_cancelUntilSavesPolarity(t *testing.T) {
	tr, h := newTestTrail(1)
	tr.newDecisionLevel()
	tr.enqueue(NegativeLiteral(0), CRefUndef)
	tr.cancelUntil(0, h)

	if got := tr.polarity[0]; got != False {
		t.Errorf("polarity[0] = %v, want False", got)
	}
}
