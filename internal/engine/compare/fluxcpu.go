package compare

import (
	"github.com/crimson-sun/fluxdiff/internal/model"
)

// Flux-versus-CPU reasons.
const (
	ReasonMData = "m_data" // CPU read differs, but the data register holds the decoded byte
	ReasonNoBC  = "no-bc"  // no byte had completed yet
)

// CPURead is one valid CPU data read checked against the decoder.
type CPURead struct {
	LineNo     int
	Value      byte
	Position   int
	Assembled  model.Opt
	BC         model.Opt // most recent async BYTE_COMPLETE before the read
	BCLine     int
	BCPosition int
	Reason     string
	// MDataMismatch marks a read whose value differs from a non-zero data
	// register.
	MDataMismatch bool
}

// FluxCPUResult is a single-trace consistency check of the data path.
type FluxCPUResult struct {
	Reads           []CPURead // within the window
	Total           int       // valid reads in the trace
	BCs             int
	Mismatches      int
	MDataMismatches int
	FirstDivergence int
	Status          Status
}

// FluxVsCPU checks that every valid CPU read with the motor on returns the
// byte the flux decoder most recently completed. events and fx must be
// parsed from the same trace so their line numbers interleave.
func FluxVsCPU(events []model.ControllerEvent, fx model.FluxTrace, w Window) FluxCPUResult {
	bcs := make([]*model.ByteCompleteEvent, 0)
	for _, b := range fx.Bytes() {
		if !b.Sync {
			bcs = append(bcs, b)
		}
	}

	var reads []CPURead
	next := 0
	var last *model.ByteCompleteEvent
	for _, ev := range events {
		d, ok := ev.(*model.DataEvent)
		if !ok || d.Motor.Or(0) != 1 || !d.Position.Valid || !d.Valid() {
			continue
		}
		for next < len(bcs) && bcs[next].Line() < d.Line() {
			last = bcs[next]
			next++
		}
		reads = append(reads, checkRead(d, last))
	}

	r := FluxCPUResult{Total: len(reads), BCs: len(bcs), FirstDivergence: -1}
	if len(reads) == 0 {
		r.Status = StatusNoData
		return r
	}

	from, to := w.bounds(len(reads))
	r.Reads = reads[from:to]
	for i, rd := range r.Reads {
		if rd.MDataMismatch {
			r.MDataMismatches++
		}
		if rd.Reason == ReasonDiff {
			r.Mismatches++
		}
		if (rd.Reason == ReasonDiff || rd.Reason == ReasonMData) && r.FirstDivergence < 0 {
			r.FirstDivergence = from + i
		}
	}
	r.Status = StatusMatch
	if r.FirstDivergence >= 0 || r.MDataMismatches > 0 {
		r.Status = StatusDiverged
	}
	return r
}

func checkRead(d *model.DataEvent, bc *model.ByteCompleteEvent) CPURead {
	rd := CPURead{
		LineNo:    d.Line(),
		Value:     d.Result,
		Position:  d.Position.V,
		Assembled: d.Assembled,
	}
	mdata := d.Assembled.Or(0)
	rd.MDataMismatch = mdata != 0 && int(d.Result) != mdata

	switch {
	case bc == nil:
		rd.Reason = ReasonNoBC
		return rd
	case d.Result == bc.Data:
		rd.Reason = ReasonOK
	case mdata == int(bc.Data):
		rd.Reason = ReasonMData
	default:
		rd.Reason = ReasonDiff
	}
	rd.BC = model.Some(int(bc.Data))
	rd.BCLine = bc.Line()
	rd.BCPosition = bc.Position
	return rd
}
