package sat

// varHeap is a binary max-heap of variables keyed by a real-valued
// activity, used to drive VSIDS branching. Ported from
// togatoga/scrapsat's Heap (src/collections/heap.rs): the heap owns its
// activity array directly rather than delegating to a generic priority
// queue dependency, since spec.md treats the VSIDS heap as core, hand-built
// engineering rather than ambient infrastructure.
type varHeap struct {
	heap    []Var
	indices []int32 // heap[indices[v]] == v, or -1 if v is not in the heap

	activity []float64
	varInc   float64
	varDecay float64
}

const notInHeap int32 = -1

func newVarHeap(decay float64) *varHeap {
	return &varHeap{
		varInc:   1,
		varDecay: decay,
	}
}

// growTo grows the heap's bookkeeping arrays to cover a newly added
// variable, at activity 0.
func (h *varHeap) growTo(v Var) {
	for Var(len(h.indices)) <= v {
		h.indices = append(h.indices, notInHeap)
		h.activity = append(h.activity, 0)
	}
}

func (h *varHeap) InHeap(v Var) bool {
	return int(v) < len(h.indices) && h.indices[v] != notInHeap
}

func (h *varHeap) Activity(v Var) float64 {
	return h.activity[v]
}

func (h *varHeap) greater(a, b Var) bool {
	return h.activity[a] > h.activity[b]
}

func (h *varHeap) siftUp(i int) {
	x := h.heap[i]
	for i > 0 {
		parent := (i - 1) >> 1
		if !h.greater(x, h.heap[parent]) {
			break
		}
		h.heap[i] = h.heap[parent]
		h.indices[h.heap[i]] = int32(i)
		i = parent
	}
	h.heap[i] = x
	h.indices[x] = int32(i)
}

func (h *varHeap) siftDown(i int) {
	x := h.heap[i]
	n := len(h.heap)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		child := left
		if right := left + 1; right < n && h.greater(h.heap[right], h.heap[left]) {
			child = right
		}
		if !h.greater(h.heap[child], x) {
			break
		}
		h.heap[i] = h.heap[child]
		h.indices[h.heap[i]] = int32(i)
		i = child
	}
	h.heap[i] = x
	h.indices[x] = int32(i)
}

// Push inserts v into the heap. A no-op if v is already present.
func (h *varHeap) Push(v Var) {
	if h.InHeap(v) {
		return
	}
	h.indices[v] = int32(len(h.heap))
	h.heap = append(h.heap, v)
	h.siftUp(len(h.heap) - 1)
}

// Pop removes and returns the variable with the highest activity. Returns
// (NoVar, false) if the heap is empty.
func (h *varHeap) Pop() (Var, bool) {
	if len(h.heap) == 0 {
		return NoVar, false
	}
	top := h.heap[0]
	h.indices[top] = notInHeap

	last := len(h.heap) - 1
	h.heap[0] = h.heap[last]
	h.heap = h.heap[:last]
	if last > 0 {
		h.indices[h.heap[0]] = 0
		h.siftDown(0)
	}
	return top, true
}

// BumpActivity increases v's activity by the current bump increment, and
// sifts it up the heap if present. Rescales every activity (and the
// increment) when the bumped value would overflow float64's useful range,
// preserving relative order.
func (h *varHeap) BumpActivity(v Var) {
	h.activity[v] += h.varInc
	if h.activity[v] > 1e100 {
		for i := range h.activity {
			h.activity[i] *= 1e-100
		}
		h.varInc *= 1e-100
	}
	if h.InHeap(v) {
		h.siftUp(int(h.indices[v]))
	}
}

// Decay increases the bump increment, which has the effect of exponentially
// decaying the relative weight of older activity bumps without ever
// rescaling the activity array itself.
func (h *varHeap) Decay() {
	h.varInc /= h.varDecay
}
