package compare

import (
	"fmt"

	"github.com/crimson-sun/fluxdiff/internal/model"
	"github.com/crimson-sun/fluxdiff/internal/position"
)

// Angle is the rotational separation of one aligned byte pair.
type Angle struct {
	Degrees float64
	Valid   bool
}

// ByteResult is a byte-stream comparison. A holds MAME reads (angular
// positions), B holds vsim reads (bit positions).
type ByteResult struct {
	Result[model.ByteRead]
	Angles    []Angle // parallel to Pairs
	MeanAngle float64
	AngleN    int
}

// Bytes aligns two extracted byte streams by value. For pairs where both
// sides carry a position, the angular separation of the two reads
// is computed on trackBits.
func Bytes(a, b []model.ByteRead, w Window, trackBits int) ByteResult {
	r := ByteResult{Result: Align(a, b, sameValue, w)}
	r.Angles = make([]Angle, len(r.Pairs))

	var sum float64
	for i, p := range r.Pairs {
		if !p.HasA || !p.HasB {
			continue
		}
		ang, okA := p.A.Position.Get()
		bits, okB := p.B.Position.Get()
		if !okA || !okB {
			continue
		}
		d := position.AngularDifference(ang, bits, trackBits)
		r.Angles[i] = Angle{Degrees: d, Valid: true}
		sum += d
		r.AngleN++
	}
	if r.AngleN > 0 {
		r.MeanAngle = sum / float64(r.AngleN)
	}
	return r
}

func sameValue(x, y model.ByteRead) bool { return x.Value == y.Value }

// SyncNote names the header byte at a pair, if either side holds one.
func SyncNote(p Pair[model.ByteRead]) string {
	for _, v := range []byte{0xD5, 0xAA, 0x96} {
		if (p.HasA && p.A.Value == v) || (p.HasB && p.B.Value == v) {
			return fmt.Sprintf("%02X", v)
		}
	}
	return ""
}
