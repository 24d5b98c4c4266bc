package sat

// watcher is a clause attached to the watch list of one of its two watched
// literals. blocker is a hint literal (clause[0] or clause[1], always the
// watcher's counterpart) used to shortcut inspection: if the blocker is
// currently true, the clause is already satisfied and need not be touched.
type watcher struct {
	cref    CRef
	blocker Literal
}

// watchIndex is the per-literal index of watchers: watchIndex[p] holds the
// watchers that must be inspected when p becomes true, i.e. clauses that
// have ¬p in one of their two watched slots.
//
// Removal is lazy: smudge only marks the literal's list dirty, and the
// actual filtering happens in cleanupDirty, matching the
// smudge/dirty/clean_all scheme in togatoga/scrapsat's watcher.rs. This
// avoids an O(n) scan for every clause deletion; cleanup runs once, in
// bulk, right before compaction or a propagation sweep that needs it.
type watchIndex struct {
	lists   [][]watcher
	dirty   []bool
	dirties []Literal
}

func newWatchIndex() *watchIndex {
	return &watchIndex{}
}

// growTo ensures the index has slots for both literals of a newly added
// variable.
func (w *watchIndex) growTo(nLits int) {
	for len(w.lists) < nLits {
		w.lists = append(w.lists, nil)
		w.dirty = append(w.dirty, false)
	}
}

func (w *watchIndex) watch(p Literal, cref CRef, blocker Literal) {
	w.lists[p] = append(w.lists[p], watcher{cref: cref, blocker: blocker})
}

// smudge marks p's watch list dirty without scanning it; the actual
// removal of watchers pointing to deleted clauses is deferred to
// cleanupDirty.
func (w *watchIndex) smudge(p Literal) {
	if !w.dirty[p] {
		w.dirty[p] = true
		w.dirties = append(w.dirties, p)
	}
}

// cleanupDirty filters every dirty literal's watch list, dropping watchers
// whose clause is flagged deleted. Must run before any propagation sweep or
// arena compaction that follows a ReduceLearnts pass.
func (w *watchIndex) cleanupDirty(a *arena) {
	for _, p := range w.dirties {
		if !w.dirty[p] {
			continue
		}
		list := w.lists[p]
		j := 0
		for i := range list {
			if !a.Deleted(list[i].cref) {
				list[j] = list[i]
				j++
			}
		}
		w.lists[p] = list[:j]
		w.dirty[p] = false
	}
	w.dirties = w.dirties[:0]
}

// relocate rewrites every watcher's clause handle using the relocation
// pointers left behind on the old (pre-compaction) arena.
func (w *watchIndex) relocate(old *arena) {
	for p := range w.lists {
		list := w.lists[p]
		for i := range list {
			if old.Relocated(list[i].cref) {
				list[i].cref = old.RelocationTarget(list[i].cref)
			}
		}
	}
}
