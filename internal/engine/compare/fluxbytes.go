package compare

import (
	"github.com/crimson-sun/fluxdiff/internal/engine/flux"
	"github.com/crimson-sun/fluxdiff/internal/model"
)

// ByteBits is the bit-level view of one assembled byte on both sides.
type ByteBits struct {
	Index        int
	A, B         model.Opt // assembled byte values
	BitsA, BitsB []uint8
	Bits         Result[uint8]
}

// FluxResult compares two flux decoders byte by byte, with the bit
// sequences behind the bytes leading up to the first difference.
type FluxResult struct {
	Result[*model.ByteCompleteEvent]
	ShiftsA, ShiftsB int
	Context          []ByteBits
}

// FluxBytes aligns the BYTE_COMPLETE streams of a and b. When they diverge,
// Context holds the bits of the diverging byte and of up to byteContext
// bytes before it.
func FluxBytes(a, b model.FluxTrace, w Window, byteContext int) FluxResult {
	xa, xb := flux.NewIndex(a), flux.NewIndex(b)
	eq := func(x, y *model.ByteCompleteEvent) bool { return x.Data == y.Data }

	r := FluxResult{
		Result:  Align(a.Bytes(), b.Bytes(), eq, w),
		ShiftsA: len(a.Shifts()),
		ShiftsB: len(b.Shifts()),
	}
	if r.ShiftsA == 0 || r.ShiftsB == 0 {
		r.Result = Result[*model.ByteCompleteEvent]{FirstDivergence: -1, LenA: r.LenA, LenB: r.LenB, Status: StatusNoData}
		return r
	}

	fd := r.FirstDivergence
	if fd < 0 {
		return r
	}
	for k := max(0, fd-max(byteContext, 0)); k <= fd; k++ {
		bb := ByteBits{Index: k, BitsA: xa.Bits(k), BitsB: xb.Bits(k)}
		if e := xa.Byte(k); e != nil {
			bb.A = model.Some(int(e.Data))
		}
		if e := xb.Byte(k); e != nil {
			bb.B = model.Some(int(e.Data))
		}
		bb.Bits = Bits(bb.BitsA, bb.BitsB)
		r.Context = append(r.Context, bb)
	}
	return r
}
