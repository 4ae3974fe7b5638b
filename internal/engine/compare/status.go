package compare

import (
	"sort"
	"strings"

	"github.com/crimson-sun/fluxdiff/internal/model"
)

// Status read comparison reasons.
const (
	ReasonOK    = "ok"
	ReasonLatch = "latch" // same value, different latched sense index
	ReasonBit7  = "bit7"  // sense bit differs
	ReasonDiff  = "diff"
)

// ValueCount is one entry of a status value histogram.
type ValueCount struct {
	Value byte
	Count int
}

// StatusCensus summarises one side's status reads.
type StatusCensus struct {
	Total int
	Bit7  int // reads with the sense bit set
	Top   []ValueCount
	// SensePattern is the sense bit of the first reads, '1' or '0' each.
	SensePattern string
}

// Bit7Always reports a side whose every status read has the sense bit set,
// which sends every "bmi" branch in the ROM down its error path.
func (c StatusCensus) Bit7Always() bool { return c.Total > 0 && c.Bit7 == c.Total }

// StatusResult is a side-by-side comparison of status register reads.
type StatusResult struct {
	Result[*model.StatusEvent]
	Reasons        []string // parallel to Pairs; empty for unpaired
	CensusA        StatusCensus
	CensusB        StatusCensus
	ReasonMismatch int
}

const (
	censusTop     = 10
	censusPattern = 100
)

// StatusReads compares the n-th status read of a with the n-th of b for up to
// limit reads.
func StatusReads(a, b []*model.StatusEvent, limit int) StatusResult {
	eq := func(x, y *model.StatusEvent) bool { return statusReason(x, y) == ReasonOK }
	r := StatusResult{
		Result:  Align(a, b, eq, Window{Limit: limit}),
		CensusA: census(a),
		CensusB: census(b),
	}
	r.Reasons = make([]string, len(r.Pairs))
	for i, p := range r.Pairs {
		if p.HasA && p.HasB {
			r.Reasons[i] = statusReason(p.A, p.B)
			if r.Reasons[i] != ReasonOK {
				r.ReasonMismatch++
			}
		}
	}
	return r
}

func statusReason(x, y *model.StatusEvent) string {
	switch {
	case x.Result == y.Result && x.Latched != y.Latched:
		return ReasonLatch
	case x.Result == y.Result:
		return ReasonOK
	case x.Result&0x80 != y.Result&0x80:
		return ReasonBit7
	default:
		return ReasonDiff
	}
}

// MotorOn filters status reads taken with the motor on.
func MotorOn(in []*model.StatusEvent) []*model.StatusEvent {
	var out []*model.StatusEvent
	for _, e := range in {
		if e.Motor {
			out = append(out, e)
		}
	}
	return out
}

func census(events []*model.StatusEvent) StatusCensus {
	c := StatusCensus{Total: len(events)}
	hist := make(map[byte]int)
	var pattern strings.Builder
	for i, e := range events {
		hist[e.Result]++
		if e.Result&0x80 != 0 {
			c.Bit7++
		}
		if i < censusPattern {
			if e.Result&0x80 != 0 {
				pattern.WriteByte('1')
			} else {
				pattern.WriteByte('0')
			}
		}
	}
	c.SensePattern = pattern.String()

	for v, n := range hist {
		c.Top = append(c.Top, ValueCount{Value: v, Count: n})
	}
	sort.Slice(c.Top, func(i, j int) bool {
		if c.Top[i].Count != c.Top[j].Count {
			return c.Top[i].Count > c.Top[j].Count
		}
		return c.Top[i].Value < c.Top[j].Value
	})
	if len(c.Top) > censusTop {
		c.Top = c.Top[:censusTop]
	}
	return c
}
