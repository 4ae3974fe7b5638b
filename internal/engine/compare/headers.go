package compare

import "github.com/crimson-sun/fluxdiff/internal/engine/pattern"

// HeaderResult is a side-by-side comparison of address-field headers.
type HeaderResult struct {
	Result[pattern.Match]
	// DiffOffsets holds, per pair, the first differing byte offset from the
	// marker, or -1.
	DiffOffsets []int
}

// Headers compares the n-th header of a with the n-th header of b, for up to
// limit headers. Two headers are equal when their windows agree over the
// shorter window, capped at compareLen bytes.
func Headers(a, b []pattern.Match, compareLen, limit int) HeaderResult {
	eq := func(x, y pattern.Match) bool { return diffOffset(x.After, y.After, compareLen) < 0 }
	r := HeaderResult{Result: Align(a, b, eq, Window{Limit: limit})}

	r.DiffOffsets = make([]int, len(r.Pairs))
	for i, p := range r.Pairs {
		r.DiffOffsets[i] = -1
		if p.Class == Diff {
			r.DiffOffsets[i] = diffOffset(p.A.After, p.B.After, compareLen)
		}
	}
	return r
}

func diffOffset(x, y []byte, limit int) int {
	n := min(len(x), len(y))
	if limit > 0 {
		n = min(n, limit)
	}
	for i := range n {
		if x[i] != y[i] {
			return i
		}
	}
	return -1
}
