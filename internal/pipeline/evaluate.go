package pipeline

import (
	"fmt"
	"strings"

	"github.com/crimson-sun/fluxdiff/internal/engine"
	"github.com/crimson-sun/fluxdiff/internal/engine/compare"
	"github.com/crimson-sun/fluxdiff/internal/engine/dedup"
	"github.com/crimson-sun/fluxdiff/internal/engine/extract"
	"github.com/crimson-sun/fluxdiff/internal/engine/flux"
	"github.com/crimson-sun/fluxdiff/internal/engine/pattern"
	"github.com/crimson-sun/fluxdiff/internal/logging"
	"github.com/crimson-sun/fluxdiff/internal/model"
)

const (
	gateActive = extract.GateActive

	// bytes shown per address field in sectors mode
	sectorWindow = 10
	// marker repeat counts listed in repeats mode
	headerRunNotes = 5
)

// evaluation holds the state of one Evaluate call.
type evaluation struct {
	p           *Pipeline
	req         Request
	left, right model.RawTrace
}

func (e *evaluation) window() compare.Window {
	return compare.Window{Start: e.req.Start, Limit: e.req.Limit}
}

func (e *evaluation) gate() extract.Gate {
	if e.req.MotorOn {
		return extract.GateMotor
	}
	return extract.GateNone
}

func (e *evaluation) parse(raw model.RawTrace, src model.Source) model.Trace {
	t := e.p.engine.Parse(src, raw.Lines)
	e.p.logger.Debug("parsed trace", logging.Stats(src, engine.DialectController, t.Stats)...)
	return t
}

func (e *evaluation) parseFlux(raw model.RawTrace, src model.Source) model.FluxTrace {
	t := e.p.engine.ParseFlux(src, raw.Lines)
	e.p.logger.Debug("parsed trace", logging.Stats(src, engine.DialectFlux, t.Stats)...)
	return t
}

func (e *evaluation) parseCPU(raw model.RawTrace, src model.Source) model.CPUTrace {
	t := e.p.engine.ParseCPU(src, raw.Lines)
	e.p.logger.Debug("parsed trace", logging.Stats(src, engine.DialectCPU, t.Stats)...)
	return t
}

func (e *evaluation) traces() (a, b model.Trace) {
	return e.parse(e.left, model.MAME), e.parse(e.right, model.Vsim)
}

func (e *evaluation) reads(g extract.Gate) (a, b []model.ByteRead) {
	ta, tb := e.traces()
	return extract.ValidBytes(ta.Events, g), extract.ValidBytes(tb.Events, g)
}

// fill copies the summary of an alignment into a report.
func fill[T any](r *model.Report, res compare.Result[T]) {
	r.Status = string(res.Status)
	r.Compared = res.Compared
	r.Mismatches = res.Mismatches
	r.FirstDivergence = res.FirstDivergence
	r.Left.Count = res.LenA
	r.Right.Count = res.LenB
}

func newReport() model.Report {
	return model.Report{
		Left:            model.Side{Source: model.MAME},
		Right:           model.Side{Source: model.Vsim},
		FirstDivergence: -1,
		Metrics:         map[string]float64{},
	}
}

func (e *evaluation) bytes(g extract.Gate) model.Report {
	a, b := e.reads(g)
	res := compare.Bytes(a, b, e.window(), e.p.policy.TrackBits)

	r := newReport()
	fill(&r, res.Result)
	for i, p := range res.Pairs {
		row := model.Row{Index: p.Index, Class: p.Class.String(), Note: compare.SyncNote(p)}
		if p.HasA {
			row.Left, row.LeftLine = hex(p.A.Value), p.A.LineNo
		}
		if p.HasB {
			row.Right, row.RightLine = hex(p.B.Value), p.B.LineNo
		}
		if ang := res.Angles[i]; ang.Valid {
			row.Note = strings.TrimSpace(fmt.Sprintf("%s %.1fdeg", row.Note, ang.Degrees))
		}
		r.Rows = append(r.Rows, row)
	}
	r.Notes = append(r.Notes, "gate: "+g.String())
	if res.AngleN > 0 {
		r.Metrics["mean_angle_deg"] = res.MeanAngle
		r.Metrics["angle_pairs"] = float64(res.AngleN)
		r.Metrics["track_bits"] = float64(e.p.policy.TrackBits)
	}
	return r
}

func (e *evaluation) headers() model.Report {
	a, b := e.reads(e.gate())
	pol := e.p.policy
	ha := pattern.Scan(a, pattern.AddressMark, pol.HeaderBefore, pol.HeaderAfter)
	hb := pattern.Scan(b, pattern.AddressMark, pol.HeaderBefore, pol.HeaderAfter)
	res := compare.Headers(ha, hb, pol.HeaderCompareLen, limitOr(e.req.Limit, pol.HeaderLimit))

	r := newReport()
	fill(&r, res.Result)
	for i, p := range res.Pairs {
		row := headerRow(p)
		if off := res.DiffOffsets[i]; off >= 0 {
			row.Note = fmt.Sprintf("offset %d", off)
		} else if p.HasA {
			row.Note = "before " + hexBytes(p.A.Before)
		}
		r.Rows = append(r.Rows, row)
	}
	return r
}

func (e *evaluation) sectors() model.Report {
	a, b := e.reads(e.gate())
	ha := pattern.Scan(a, pattern.AddressMark, 0, sectorWindow)
	hb := pattern.Scan(b, pattern.AddressMark, 0, sectorWindow)
	res := compare.Headers(ha, hb, sectorWindow, limitOr(e.req.Limit, e.p.policy.HeaderLimit))

	r := newReport()
	fill(&r, res.Result)
	for _, p := range res.Pairs {
		r.Rows = append(r.Rows, headerRow(p))
	}
	return r
}

func headerRow(p compare.Pair[pattern.Match]) model.Row {
	row := model.Row{Index: p.Index, Class: p.Class.String()}
	if p.HasA {
		row.Left, row.LeftLine = hexBytes(p.A.After), p.A.LineNo
	}
	if p.HasB {
		row.Right, row.RightLine = hexBytes(p.B.After), p.B.LineNo
	}
	return row
}

func (e *evaluation) frames() model.Report {
	ta, tb := e.traces()
	res := compare.Frames(ta.Events, tb.Events,
		compare.FrameRange{Start: e.req.StartFrame, End: e.req.EndFrame}, e.p.policy.FrameMatchRatio)

	r := newReport()
	r.Status = string(res.Status)
	r.FirstDivergence = res.FirstDivergence
	r.Left.Count, r.Right.Count = res.FramesA, res.FramesB
	r.Compared = len(res.Rows)
	r.Mismatches = len(res.Rows) - res.Matching
	for _, row := range res.Rows {
		note := fmt.Sprintf("ratio %.2f", row.Ratio)
		if row.A.D5 || row.B.D5 {
			note += " D5"
		}
		r.Rows = append(r.Rows, model.Row{
			Index: row.Frame,
			Left:  frameCell(row.A, row.HasA),
			Right: frameCell(row.B, row.HasB),
			Class: row.Class.String(),
			Note:  note,
		})
	}
	r.Metrics["valid_a"] = float64(res.TotalA.Valid)
	r.Metrics["valid_b"] = float64(res.TotalB.Valid)
	r.Metrics["data_a"] = float64(res.TotalA.Data)
	r.Metrics["data_b"] = float64(res.TotalB.Data)
	r.Metrics["matching_frames"] = float64(res.Matching)
	r.Metrics["frame_ratio"] = e.p.policy.FrameMatchRatio
	r.Notes = append(r.Notes, firsts(model.MAME, res.FirstA)...)
	r.Notes = append(r.Notes, firsts(model.Vsim, res.FirstB)...)
	return r
}

func frameCell(c compare.FrameCount, has bool) string {
	if !has {
		return "-"
	}
	return fmt.Sprintf("%d/%d", c.Valid, c.Data)
}

func firsts(src model.Source, f compare.FrameFirsts) []string {
	var out []string
	for _, x := range []struct {
		what string
		o    model.Opt
	}{{"motor on", f.MotorOn}, {"valid byte", f.Valid}, {"D5", f.D5}} {
		if v, ok := x.o.Get(); ok {
			out = append(out, fmt.Sprintf("%s first %s in frame %d", src, x.what, v))
		}
	}
	return out
}

func (e *evaluation) flux() model.Report {
	fa, fb := e.parseFlux(e.left, model.MAME), e.parseFlux(e.right, model.Vsim)
	res := compare.FluxBytes(fa, fb, e.window(), e.p.policy.ByteContext)

	r := newReport()
	fill(&r, res.Result)
	for _, p := range res.Pairs {
		row := model.Row{Index: p.Index, Class: p.Class.String()}
		if p.HasA {
			row.Left, row.LeftLine = hex(p.A.Data), p.A.Line()
		}
		if p.HasB {
			row.Right, row.RightLine = hex(p.B.Data), p.B.Line()
		}
		if p.HasA && p.A.Sync || p.HasB && p.B.Sync {
			row.Note = "sync"
		}
		r.Rows = append(r.Rows, row)
	}
	for _, bb := range res.Context {
		r.Notes = append(r.Notes, fmt.Sprintf("byte %d: mame %s %s, vsim %s %s",
			bb.Index, optHex(bb.A), flux.BitString(bb.BitsA), optHex(bb.B), flux.BitString(bb.BitsB)))
	}
	r.Metrics["shifts_a"] = float64(res.ShiftsA)
	r.Metrics["shifts_b"] = float64(res.ShiftsB)
	return r
}

func (e *evaluation) status() model.Report {
	ta, tb := e.traces()
	sa, sb := ta.Status(), tb.Status()
	if e.req.MotorOn {
		sa, sb = compare.MotorOn(sa), compare.MotorOn(sb)
	}
	res := compare.StatusReads(sa, sb, e.req.Limit)

	r := newReport()
	fill(&r, res.Result)
	for i, p := range res.Pairs {
		row := model.Row{Index: p.Index, Class: p.Class.String(), Note: res.Reasons[i]}
		if p.HasA {
			row.Left, row.LeftLine = statusCell(p.A), p.A.Line()
		}
		if p.HasB {
			row.Right, row.RightLine = statusCell(p.B), p.B.Line()
		}
		r.Rows = append(r.Rows, row)
	}
	for _, c := range []struct {
		src model.Source
		c   compare.StatusCensus
	}{{model.MAME, res.CensusA}, {model.Vsim, res.CensusB}} {
		r.Metrics["bit7_"+string(c.src)] = float64(c.c.Bit7)
		if c.c.Bit7Always() {
			r.Notes = append(r.Notes, fmt.Sprintf("%s: sense bit set on every status read", c.src))
		}
		if len(c.c.Top) > 0 {
			r.Notes = append(r.Notes, fmt.Sprintf("%s top values: %s", c.src, topValues(c.c.Top)))
		}
	}
	return r
}

func statusCell(s *model.StatusEvent) string {
	return fmt.Sprintf("%02X L%d", s.Result, s.Latched)
}

func topValues(vc []compare.ValueCount) string {
	parts := make([]string, len(vc))
	for i, v := range vc {
		parts[i] = fmt.Sprintf("%02Xx%d", v.Value, v.Count)
	}
	return strings.Join(parts, " ")
}

func (e *evaluation) tracks() model.Report {
	ta, tb := e.traces()
	pol := e.p.policy
	res := compare.Tracks(ta.Steps(), tb.Steps(), pol.MAMEDrive, pol.VsimDrive, e.req.Limit)

	r := newReport()
	fill(&r, res.Result)
	for _, p := range res.Pairs {
		row := model.Row{Index: p.Index, Class: p.Class.String()}
		if p.HasA {
			row.Left, row.LeftLine = stepCell(p.A), p.A.Line()
		}
		if p.HasB {
			row.Right, row.RightLine = stepCell(p.B), p.B.Line()
		}
		r.Rows = append(r.Rows, row)
	}
	r.Metrics["steps_a"] = float64(res.StepsA)
	r.Metrics["steps_b"] = float64(res.StepsB)
	r.Metrics["moves_b"] = float64(res.MovesB)
	r.Metrics["max_track_a"] = float64(res.MaxA)
	r.Metrics["max_track_b"] = float64(res.MaxB)
	return r
}

func stepCell(s *model.StepEvent) string {
	return fmt.Sprintf("%d->%d", s.TrackFrom, s.TrackTo)
}

func (e *evaluation) cpu() model.Report {
	ca, cb := e.parseCPU(e.left, model.MAME), e.parseCPU(e.right, model.Vsim)
	res := compare.Instructions(ca.Instructions, cb.Instructions, e.req.Limit)

	r := newReport()
	fill(&r, res.Result)
	for i, p := range res.Pairs {
		row := model.Row{Index: p.Index, Class: p.Class.String(), Note: res.Reasons[i]}
		if p.HasA {
			row.Left, row.LeftLine = p.A.Location()+" "+p.A.Text, p.A.LineNo
		}
		if p.HasB {
			row.Right, row.RightLine = p.B.Location()+" "+p.B.Text, p.B.LineNo
		}
		r.Rows = append(r.Rows, row)
	}
	r.Metrics["instructions_a"] = float64(res.TotalA)
	r.Metrics["instructions_b"] = float64(res.TotalB)
	return r
}

func (e *evaluation) dataFields() model.Report {
	a, b := e.reads(gateActive)
	res := compare.DataFields(a, b, e.p.policy.NumSectors, e.p.policy.DataFieldAfter)

	r := newReport()
	r.Status = string(res.Status)
	r.FirstDivergence = res.FirstDivergence
	r.Left.Count, r.Right.Count = res.MarksA, res.MarksB
	r.Compared = len(res.Sectors)
	r.Mismatches = res.Mismatches
	for _, s := range res.Sectors {
		row := model.Row{
			Index:     s.Number,
			Left:      hexBytes(s.A),
			LeftLine:  a[s.MarkA].LineNo,
			Right:     hexBytes(s.B),
			RightLine: b[s.MarkB].LineNo,
			Class:     compare.Match.String(),
		}
		if fd := s.Bytes.FirstDivergence; fd >= 0 {
			row.Class = compare.Diff.String()
			row.Note = fmt.Sprintf("offset %d, %d bytes differ", fd, s.Bytes.Mismatches)
		}
		r.Rows = append(r.Rows, row)
	}
	return r
}

func (e *evaluation) fluxVsCPU() model.Report {
	t := e.parse(e.right, model.Vsim)
	fx := e.parseFlux(e.right, model.Vsim)
	res := compare.FluxVsCPU(t.Events, fx, e.window())

	r := model.Report{
		Status:          string(res.Status),
		Left:            model.Side{Source: model.Vsim, Path: e.right.Path, Count: res.Total},
		Right:           model.Side{Source: model.Vsim, Path: e.right.Path, Count: res.BCs},
		Compared:        len(res.Reads),
		Mismatches:      res.Mismatches,
		FirstDivergence: res.FirstDivergence,
		Metrics:         map[string]float64{"m_data_mismatches": float64(res.MDataMismatches)},
		Notes:           []string{"left: CPU data reads, right: most recent async BYTE_COMPLETE"},
	}
	from := max(e.req.Start, 0)
	for i, rd := range res.Reads {
		row := model.Row{
			Index:     from + i,
			Left:      hex(rd.Value),
			LeftLine:  rd.LineNo,
			Right:     optHex(rd.BC),
			RightLine: rd.BCLine,
			Note:      rd.Reason,
		}
		switch rd.Reason {
		case compare.ReasonOK:
			row.Class = compare.Match.String()
		case compare.ReasonNoBC:
			row.Class = compare.OnlyA.String()
		default:
			row.Class = compare.Diff.String()
		}
		if rd.MDataMismatch {
			row.Note += " m_data=" + optHex(rd.Assembled)
		}
		r.Rows = append(r.Rows, row)
	}
	return r
}

func (e *evaluation) discrepancies() model.Report {
	t := e.parse(e.right, model.Vsim)
	res := compare.Discrepancies(t.Events)

	r := model.Report{
		Status:          string(compare.StatusMatch),
		Left:            model.Side{Source: model.Vsim, Path: e.right.Path, Count: res.MotorOn},
		Right:           model.Side{Source: model.Vsim, Path: e.right.Path, Count: len(res.Items)},
		Compared:        res.MotorOn,
		Mismatches:      len(res.Items),
		FirstDivergence: -1,
		Notes:           []string{"left: value returned to the CPU, right: assembled byte"},
	}
	switch {
	case res.MotorOn == 0:
		r.Status = string(compare.StatusNoData)
	case len(res.Items) > 0:
		r.Status = string(compare.StatusDiverged)
		r.FirstDivergence = 0
	}
	for i, d := range res.Items {
		r.Rows = append(r.Rows, model.Row{
			Index:    i,
			Left:     hex(d.Returned),
			LeftLine: d.LineNo,
			Right:    hex(d.Assembled),
			Class:    compare.Diff.String(),
			Note:     "rsh=" + optHex(d.ShiftReg),
		})
	}
	return r
}

func (e *evaluation) repeats() model.Report {
	a, b := e.reads(e.gate())
	ra, rb := dedup.Runs(a), dedup.Runs(b)
	same := func(x, y dedup.Run) bool { return x.Value == y.Value }
	res := compare.Align(ra, rb, same, e.window())

	r := newReport()
	fill(&r, res)
	for _, p := range res.Pairs {
		row := model.Row{Index: p.Index, Class: p.Class.String()}
		if p.HasA {
			row.Left, row.LeftLine = runCell(p.A), p.A.FirstLine
		}
		if p.HasB {
			row.Right, row.RightLine = runCell(p.B), p.B.FirstLine
		}
		if p.HasA && p.HasB && p.A.Count != p.B.Count {
			row.Note = "repeat count differs"
		}
		r.Rows = append(r.Rows, row)
	}

	for _, s := range []struct {
		src  model.Source
		runs []dedup.Run
	}{{model.MAME, ra}, {model.Vsim, rb}} {
		st := dedup.Summarize(s.runs)
		r.Metrics["reads_"+string(s.src)] = float64(st.Reads)
		r.Metrics["avg_repeat_"+string(s.src)] = st.Avg
		r.Metrics["max_repeat_"+string(s.src)] = float64(st.Max)
		for i, h := range dedup.HeaderRuns(s.runs, pattern.AddressMark) {
			if i == headerRunNotes {
				break
			}
			r.Notes = append(r.Notes, fmt.Sprintf("%s header at run %d: D5x%d AAx%d 96x%d",
				s.src, h.Index, h.Counts[0], h.Counts[1], h.Counts[2]))
		}
	}
	return r
}

func runCell(r dedup.Run) string {
	return fmt.Sprintf("%s x%d", hex(r.Value), r.Count)
}

var summaryFields = []string{
	"data", "status", "valid", "motor_on", "motor_off",
	"active", "motor_data", "idle_data", "non_ff",
}

func summaryCounts(s compare.Summary) []int {
	return []int{s.Data, s.Status, s.Valid, s.MotorOn, s.MotorOff, s.Active, s.MotorData, s.IdleData, s.NonFF}
}

func (e *evaluation) summary() model.Report {
	ta, tb := e.traces()
	sa, sb := compare.Summarize(ta), compare.Summarize(tb)
	res := compare.Align(summaryCounts(sa), summaryCounts(sb), compare.Equal[int], compare.Window{})

	r := newReport()
	fill(&r, res)
	r.Left.Count, r.Right.Count = len(ta.Events), len(tb.Events)
	if sa.Data == 0 && sb.Data == 0 {
		r.Status = string(compare.StatusNoData)
	}
	for i, p := range res.Pairs {
		r.Rows = append(r.Rows, model.Row{
			Index: p.Index,
			Left:  fmt.Sprint(p.A),
			Right: fmt.Sprint(p.B),
			Class: p.Class.String(),
			Note:  summaryFields[i],
		})
	}
	for _, s := range []compare.Summary{sa, sb} {
		if line, ok := s.FirstMotorOn.Get(); ok {
			r.Notes = append(r.Notes, fmt.Sprintf("%s first MOTOR_ON at line %d", s.Source, line))
		}
		if len(s.FirstNonFF) > 0 {
			r.Notes = append(r.Notes, fmt.Sprintf("%s first non-FF values: %s", s.Source, hexBytes(s.FirstNonFF)))
		}
	}
	return r
}

func limitOr(limit, fallback int) int {
	if limit > 0 {
		return limit
	}
	return fallback
}

func hex(b byte) string { return fmt.Sprintf("%02X", b) }

func optHex(o model.Opt) string {
	if v, ok := o.Get(); ok {
		return fmt.Sprintf("%02X", v)
	}
	return "-"
}

func hexBytes(b []byte) string {
	return strings.TrimSpace(fmt.Sprintf("% X", b))
}
