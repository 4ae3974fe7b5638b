package compare

import (
	"sort"

	"github.com/crimson-sun/fluxdiff/internal/model"
)

// DefaultFrameRatio is the minimum min/max valid-byte ratio for two frames
// to count as matching.
const DefaultFrameRatio = 0.8

// FrameRange selects frames [Start, End]. End of zero means no upper bound.
type FrameRange struct {
	Start int
	End   int
}

func (r FrameRange) contains(f int) bool {
	return f >= r.Start && (r.End == 0 || f <= r.End)
}

// FrameCount aggregates the DATA events of one side within one frame.
type FrameCount struct {
	Data  int
	Valid int
	D5    bool // a DATA result of 0xD5 was seen
	bytes []byte
}

// Bytes returns the valid bytes read in the frame.
func (c FrameCount) Bytes() []byte { return c.bytes }

// FrameRow is one frame with DATA activity on at least one side.
type FrameRow struct {
	Frame int
	A, B  FrameCount
	HasA  bool
	HasB  bool
	Ratio float64
	Class Class
}

// FrameFirsts records landmark frames of one side.
type FrameFirsts struct {
	MotorOn model.Opt
	Valid   model.Opt
	D5      model.Opt
}

// FrameResult is a frame-bucketed comparison.
type FrameResult struct {
	Rows            []FrameRow
	FirstDivergence int // frame number, or -1
	Matching        int
	FramesA         int // frames with any event on side A
	FramesB         int
	TotalA, TotalB  FrameCount
	FirstA, FirstB  FrameFirsts
	Status          Status
}

// Frames groups both traces' events by frame and compares valid-byte counts
// per frame. Two counts match when both are zero or min/max exceeds ratio;
// frame boundaries never line up exactly between two emulators.
func Frames(a, b []model.ControllerEvent, rng FrameRange, ratio float64) FrameResult {
	if ratio <= 0 || ratio > 1 {
		ratio = DefaultFrameRatio
	}
	ca, fa, firstA := bucket(a, rng)
	cb, fb, firstB := bucket(b, rng)

	r := FrameResult{
		FirstDivergence: -1,
		FramesA:         fa,
		FramesB:         fb,
		FirstA:          firstA,
		FirstB:          firstB,
	}
	if fa == 0 || fb == 0 {
		r.Status = StatusNoData
		return r
	}

	frames := make([]int, 0, len(ca)+len(cb))
	for f := range ca {
		frames = append(frames, f)
	}
	for f := range cb {
		if _, ok := ca[f]; !ok {
			frames = append(frames, f)
		}
	}
	sort.Ints(frames)

	for _, f := range frames {
		x, hasA := ca[f]
		y, hasB := cb[f]
		if x.Data == 0 && y.Data == 0 {
			continue
		}
		row := FrameRow{Frame: f, A: x, B: y, HasA: x.Data > 0, HasB: y.Data > 0}
		row.Ratio, row.Class = frameClass(x, y, ratio)
		if row.Class == Diff {
			switch {
			case !hasA || x.Data == 0:
				row.Class = OnlyB
			case !hasB || y.Data == 0:
				row.Class = OnlyA
			}
		}

		r.TotalA.Data += x.Data
		r.TotalA.Valid += x.Valid
		r.TotalB.Data += y.Data
		r.TotalB.Valid += y.Valid
		if row.Class == Match {
			r.Matching++
		} else if r.FirstDivergence < 0 {
			r.FirstDivergence = f
		}
		r.Rows = append(r.Rows, row)
	}

	r.Status = StatusMatch
	if r.FirstDivergence >= 0 {
		r.Status = StatusDiverged
	}
	return r
}

func frameClass(x, y FrameCount, ratio float64) (float64, Class) {
	switch {
	case x.Valid == 0 && y.Valid == 0:
		return 1, Match
	case x.Valid == 0 || y.Valid == 0:
		return 0, Diff
	}
	q := float64(min(x.Valid, y.Valid)) / float64(max(x.Valid, y.Valid))
	if q > ratio {
		return q, Match
	}
	return q, Diff
}

// bucket counts DATA events per frame within rng. Events without a frame
// are skipped.
func bucket(events []model.ControllerEvent, rng FrameRange) (map[int]FrameCount, int, FrameFirsts) {
	counts := make(map[int]FrameCount)
	var first FrameFirsts

	for _, ev := range events {
		f, ok := ev.FrameNumber().Get()
		if !ok || !rng.contains(f) {
			continue
		}
		c := counts[f]
		switch e := ev.(type) {
		case *model.MotorOnEvent:
			if !first.MotorOn.Valid {
				first.MotorOn = model.Some(f)
			}
		case *model.DataEvent:
			c.Data++
			if e.Valid() {
				c.Valid++
				c.bytes = append(c.bytes, e.Result)
				if !first.Valid.Valid {
					first.Valid = model.Some(f)
				}
			}
			if e.Result == 0xD5 {
				c.D5 = true
				if !first.D5.Valid {
					first.D5 = model.Some(f)
				}
			}
		}
		counts[f] = c
	}
	return counts, len(counts), first
}

// D5Frames returns up to n frames where either side read 0xD5.
func (r FrameResult) D5Frames(n int) []FrameRow {
	var out []FrameRow
	for _, row := range r.Rows {
		if len(out) >= n {
			break
		}
		if row.A.D5 || row.B.D5 {
			out = append(out, row)
		}
	}
	return out
}
