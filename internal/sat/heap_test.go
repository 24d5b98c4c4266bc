package sat

import "testing"

func TestVarHeap_popsHighestActivityFirst(t *testing.T) {
	h := newVarHeap(0.95)
	for v := Var(0); v < 5; v++ {
		h.growTo(v)
	}
	for v := Var(0); v < 5; v++ {
		h.Push(v)
	}

	h.BumpActivity(3)
	h.BumpActivity(3)
	h.BumpActivity(1)

	got, ok := h.Pop()
	if !ok || got != 3 {
		t.Fatalf("Pop() = (%v, %v), want (3, true)", got, ok)
	}
	got, ok = h.Pop()
	if !ok || got != 1 {
		t.Fatalf("Pop() = (%v, %v), want (1, true)", got, ok)
	}
}

func TestVarHeap_pushIsIdempotent(t *testing.T) {
	h := newVarHeap(0.95)
	h.growTo(0)
	h.Push(0)
	h.Push(0)
	if got := len(h.heap); got != 1 {
		t.Fatalf("heap length = %d, want 1 after duplicate Push", got)
	}
}

func TestVarHeap_popEmpty(t *testing.T) {
	h := newVarHeap(0.95)
	if _, ok := h.Pop(); ok {
		t.Fatalf("Pop() on empty heap returned ok=true")
	}
}

func TestVarHeap_decayIncreasesFutureBumpWeight(t *testing.T) {
	h := newVarHeap(0.5)
	h.growTo(0)
	h.growTo(1)

	h.BumpActivity(0)
	before := h.varInc
	h.Decay()
	if h.varInc <= before {
		t.Fatalf("varInc did not increase after Decay: before=%v after=%v", before, h.varInc)
	}

	h.BumpActivity(1)
	if h.Activity(1) <= h.Activity(0) {
		t.Fatalf("activity bumped after a decay (%v) should outweigh one bumped before (%v)", h.Activity(1), h.Activity(0))
	}
}

func TestVarHeap_inHeap(t *testing.T) {
	h := newVarHeap(0.95)
	h.growTo(0)
	if h.InHeap(0) {
		t.Fatalf("InHeap(0) = true before Push")
	}
	h.Push(0)
	if !h.InHeap(0) {
		t.Fatalf("InHeap(0) = false after Push")
	}
	h.Pop()
	if h.InHeap(0) {
		t.Fatalf("InHeap(0) = true after Pop")
	}
}
