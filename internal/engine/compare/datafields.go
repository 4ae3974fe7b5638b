package compare

import (
	"github.com/crimson-sun/fluxdiff/internal/engine/pattern"
	"github.com/crimson-sun/fluxdiff/internal/model"
)

// Sector compares the bytes following one pair of data marks.
type Sector struct {
	Number       int
	MarkA, MarkB int // read index of each side's D5 AA AD
	A, B         []byte
	Bytes        Result[byte]
}

// DataFieldResult compares sector data fields.
type DataFieldResult struct {
	Sectors        []Sector
	MarksA, MarksB int
	// FirstDivergence is the first sector whose bytes differ, or -1.
	FirstDivergence int
	Mismatches      int
	Status          Status
}

// DataFields pairs the n-th D5 AA AD mark of each side, for up to
// numSectors sectors, and compares the bytesAfter bytes following each mark.
func DataFields(a, b []model.ByteRead, numSectors, bytesAfter int) DataFieldResult {
	va, vb := values(a), values(b)
	ma := pattern.Indices(va, pattern.DataMark)
	mb := pattern.Indices(vb, pattern.DataMark)

	r := DataFieldResult{MarksA: len(ma), MarksB: len(mb), FirstDivergence: -1}
	if len(ma) == 0 || len(mb) == 0 {
		r.Status = StatusNoData
		return r
	}

	n := min(len(ma), len(mb))
	if numSectors > 0 {
		n = min(n, numSectors)
	}
	for s := range n {
		sec := Sector{
			Number: s,
			MarkA:  ma[s],
			MarkB:  mb[s],
			A:      field(va, ma[s], bytesAfter),
			B:      field(vb, mb[s], bytesAfter),
		}
		common := min(len(sec.A), len(sec.B))
		sec.Bytes = Align(sec.A[:common], sec.B[:common], Equal[byte], Window{})
		r.Mismatches += sec.Bytes.Mismatches
		if sec.Bytes.Status == StatusDiverged && r.FirstDivergence < 0 {
			r.FirstDivergence = s
		}
		r.Sectors = append(r.Sectors, sec)
	}

	r.Status = StatusMatch
	if r.FirstDivergence >= 0 {
		r.Status = StatusDiverged
	}
	return r
}

// field returns up to n bytes after the three marker bytes at i.
func field(seq []byte, i, n int) []byte {
	from := min(i+3, len(seq))
	to := min(from+n, len(seq))
	return seq[from:to]
}

func values(reads []model.ByteRead) []byte {
	out := make([]byte, len(reads))
	for i, r := range reads {
		out[i] = r.Value
	}
	return out
}
