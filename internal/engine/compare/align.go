// Package compare aligns two event-derived sequences and reports where they
// first disagree.
package compare

// Class labels one aligned index.
type Class int

const (
	Match Class = iota
	Diff
	OnlyA
	OnlyB
)

func (c Class) String() string {
	switch c {
	case Match:
		return "match"
	case Diff:
		return "diff"
	case OnlyA:
		return "only-a"
	case OnlyB:
		return "only-b"
	default:
		return "unknown"
	}
}

// Status is the overall outcome of a comparison.
type Status string

const (
	StatusMatch    Status = "match"
	StatusDiverged Status = "diverged"
	// StatusNoData means one or both inputs were empty; nothing was compared.
	StatusNoData Status = "no-data"
)

// Window bounds the indices examined: [Start, Start+Limit). A Limit of zero
// or less means no upper bound beyond the longer input.
type Window struct {
	Start int
	Limit int
}

func (w Window) bounds(n int) (from, to int) {
	from = max(w.Start, 0)
	to = n
	if w.Limit > 0 {
		to = min(to, from+w.Limit)
	}
	return from, max(to, from)
}

// Pair is one aligned index.
type Pair[T any] struct {
	Index      int
	A, B       T
	HasA, HasB bool
	Class      Class
}

// Result is the outcome of aligning two sequences.
type Result[T any] struct {
	Pairs []Pair[T]
	// FirstDivergence is the index of the first pair not classified Match,
	// or -1.
	FirstDivergence int
	Compared        int
	Mismatches      int // pairs classified Diff
	LenA, LenB      int
	Status          Status
}

// Align pairs a[i] with b[i] for every i in the window and classifies each
// index. eq decides equality of present values.
func Align[T any](a, b []T, eq func(x, y T) bool, w Window) Result[T] {
	r := Result[T]{FirstDivergence: -1, LenA: len(a), LenB: len(b)}
	if len(a) == 0 || len(b) == 0 {
		r.Status = StatusNoData
		return r
	}

	from, to := w.bounds(max(len(a), len(b)))
	if from >= to {
		// window starts past both inputs
		r.Status = StatusNoData
		return r
	}
	r.Pairs = make([]Pair[T], 0, to-from)
	for i := from; i < to; i++ {
		p := Pair[T]{Index: i}
		if i < len(a) {
			p.A, p.HasA = a[i], true
		}
		if i < len(b) {
			p.B, p.HasB = b[i], true
		}
		switch {
		case !p.HasB:
			p.Class = OnlyA
		case !p.HasA:
			p.Class = OnlyB
		case eq(p.A, p.B):
			p.Class = Match
		default:
			p.Class = Diff
			r.Mismatches++
		}
		if p.Class != Match && r.FirstDivergence < 0 {
			r.FirstDivergence = i
		}
		r.Pairs = append(r.Pairs, p)
	}

	r.Compared = len(r.Pairs)
	r.Status = StatusMatch
	if r.FirstDivergence >= 0 {
		r.Status = StatusDiverged
	}
	return r
}

// Equal is the eq function for comparable element types.
func Equal[T comparable](x, y T) bool { return x == y }

// Bits compares two bit sequences exactly.
func Bits(a, b []uint8) Result[uint8] {
	return Align(a, b, Equal[uint8], Window{})
}
