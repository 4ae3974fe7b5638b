package compare

import (
	"strings"

	"github.com/crimson-sun/fluxdiff/internal/model"
)

// Instruction comparison reasons.
const (
	ReasonAddr  = "addr"
	ReasonInstr = "instr"
)

// InstrResult compares the sequences of instructions touching the IWM.
type InstrResult struct {
	Result[model.Instruction]
	Reasons        []string
	TotalA, TotalB int // all parsed instructions, before filtering
}

// Instructions compares the n-th IWM access of a with the n-th of b.
// Instruction text is compared case-insensitively with whitespace collapsed.
func Instructions(a, b []model.Instruction, limit int) InstrResult {
	ia, ib := iwmOnly(a), iwmOnly(b)
	eq := func(x, y model.Instruction) bool { return instrReason(x, y) == ReasonOK }
	r := InstrResult{
		Result: Align(ia, ib, eq, Window{Limit: limit}),
		TotalA: len(a),
		TotalB: len(b),
	}
	r.Reasons = make([]string, len(r.Pairs))
	for i, p := range r.Pairs {
		if p.HasA && p.HasB {
			r.Reasons[i] = instrReason(p.A, p.B)
		}
	}
	return r
}

func instrReason(x, y model.Instruction) string {
	switch {
	case x.Location() != y.Location():
		return ReasonAddr
	case normalizeInstr(x.Text) != normalizeInstr(y.Text):
		return ReasonInstr
	default:
		return ReasonOK
	}
}

func normalizeInstr(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func iwmOnly(in []model.Instruction) []model.Instruction {
	var out []model.Instruction
	for _, ins := range in {
		if ins.IWMAccess {
			out = append(out, ins)
		}
	}
	return out
}
