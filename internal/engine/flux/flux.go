// Package flux recovers the bit sequence behind each assembled byte of a
// flux-level trace.
//
// The decoder logs one SHIFT per bit consumed and one BYTE_COMPLETE per byte,
// interleaved in time order, so the bits of byte k are the SHIFT lines after
// BYTE_COMPLETE k-1 up to and including BYTE_COMPLETE k.
package flux

import (
	"sort"

	"github.com/crimson-sun/fluxdiff/internal/model"
)

// Index associates SHIFT events with the BYTE_COMPLETE they formed.
type Index struct {
	shifts []*model.ShiftEvent
	bytes  []*model.ByteCompleteEvent
}

// NewIndex builds an Index over one source's flux trace.
func NewIndex(t model.FluxTrace) *Index {
	return &Index{shifts: t.Shifts(), bytes: t.Bytes()}
}

// Len returns the number of assembled bytes.
func (x *Index) Len() int { return len(x.bytes) }

// Byte returns BYTE_COMPLETE k, or nil when k is out of range.
func (x *Index) Byte(k int) *model.ByteCompleteEvent {
	if k < 0 || k >= len(x.bytes) {
		return nil
	}
	return x.bytes[k]
}

// Window returns the half-open line range (lo, hi] that formed byte k.
func (x *Index) Window(k int) (lo, hi int, ok bool) {
	if k < 0 || k >= len(x.bytes) {
		return 0, 0, false
	}
	if k > 0 {
		lo = x.bytes[k-1].Line()
	}
	return lo, x.bytes[k].Line(), true
}

// Shifts returns the SHIFT events that formed byte k, in stream order.
func (x *Index) Shifts(k int) []*model.ShiftEvent {
	lo, hi, ok := x.Window(k)
	if !ok {
		return nil
	}
	from := sort.Search(len(x.shifts), func(i int) bool { return x.shifts[i].Line() > lo })
	to := sort.Search(len(x.shifts), func(i int) bool { return x.shifts[i].Line() > hi })
	return x.shifts[from:to]
}

// Bits returns the bit values that formed byte k.
func (x *Index) Bits(k int) []uint8 {
	s := x.Shifts(k)
	if s == nil {
		return nil
	}
	out := make([]uint8, len(s))
	for i, e := range s {
		out[i] = e.Bit
	}
	return out
}

// BitString renders bits as a string of '0' and '1'.
func BitString(bits []uint8) string {
	b := make([]byte, len(bits))
	for i, v := range bits {
		b[i] = '0' + v
	}
	return string(b)
}
