package sat

// luby returns the i-th term (0-indexed) of the Luby sequence
// 1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8, ...
//
// Implemented directly from the recursive definition in spec.md §4.9: find
// the smallest k with 2^k-1 >= i+1; if i == 2^k-2 return 2^(k-1), otherwise
// recurse on i-(2^(k-1)-1) with one fewer level. This differs from
// togatoga/scrapsat's core/luby.rs, which computes an unrelated
// geometric-growth sequence (tunable by an `inc` multiplier, default 2.5)
// rather than the canonical power-of-two Luby sequence -- see DESIGN.md.
func luby(i int) int {
	k := 1
	size := 1
	for size < i+1 {
		k++
		size = 2*size + 1
	}
	for size-1 != i {
		size = (size - 1) / 2
		k--
		i = i % size
	}
	return 1 << (k - 1)
}
