package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/fluxdiff/internal/engine/pattern"
	"github.com/crimson-sun/fluxdiff/internal/model"
)

func reads(vals ...byte) []model.ByteRead {
	out := make([]model.ByteRead, len(vals))
	for i, v := range vals {
		out[i] = model.ByteRead{Value: v, LineNo: i + 1}
	}
	return out
}

func hdr(src model.Source, line, frame int) model.Header {
	h := model.Header{From: src, LineNo: line}
	if frame >= 0 {
		h.Frame = model.Some(frame)
	}
	return h
}

func dataAt(src model.Source, line, frame int, result byte) *model.DataEvent {
	return &model.DataEvent{Header: hdr(src, line, frame), Result: result}
}

func TestBytesAngles(t *testing.T) {
	a := []model.ByteRead{
		{Value: 0xD5, LineNo: 1, Position: model.Some(100_000_000)},
		{Value: 0xAA, LineNo: 2},
	}
	b := []model.ByteRead{
		{Value: 0xD5, LineNo: 7, Position: model.Some(37607)},
		{Value: 0xAB, LineNo: 8, Position: model.Some(100)},
	}

	r := Bytes(a, b, Window{}, 75215)

	require.Len(t, r.Angles, 2)
	assert.True(t, r.Angles[0].Valid)
	assert.InDelta(t, 0, r.Angles[0].Degrees, 0.01)
	assert.False(t, r.Angles[1].Valid, "missing position on one side")
	assert.Equal(t, 1, r.AngleN)
	assert.InDelta(t, r.Angles[0].Degrees, r.MeanAngle, 1e-9)
	assert.Equal(t, 1, r.FirstDivergence)
	assert.Equal(t, "D5", SyncNote(r.Pairs[0]))
	assert.Equal(t, "AA", SyncNote(r.Pairs[1]))
}

func TestBytesAngleAtPositionZero(t *testing.T) {
	a := []model.ByteRead{{Value: 0xD5, LineNo: 1, Position: model.Some(0)}}
	b := []model.ByteRead{{Value: 0xD5, LineNo: 1, Position: model.Some(0)}}

	r := Bytes(a, b, Window{}, 75215)

	require.Len(t, r.Angles, 1)
	assert.True(t, r.Angles[0].Valid, "position 0 is a real position")
	assert.InDelta(t, 0, r.Angles[0].Degrees, 1e-9)
	assert.Equal(t, 1, r.AngleN)
}

func TestHeaders(t *testing.T) {
	seqA := []byte{0xFF, 0xD5, 0xAA, 0x96, 0x01, 0x02, 0xFF, 0xD5, 0xAA, 0x96, 0x03, 0x04}
	seqB := []byte{0xFF, 0xD5, 0xAA, 0x96, 0x01, 0x02, 0xFF, 0xD5, 0xAA, 0x96, 0x03, 0x05}

	ha := pattern.Find(seqA, pattern.AddressMark, 5, 15)
	hb := pattern.Find(seqB, pattern.AddressMark, 5, 15)

	r := Headers(ha, hb, 10, 10)

	require.Len(t, r.Pairs, 2)
	assert.Equal(t, Match, r.Pairs[0].Class, "last byte differs beyond compareLen")
	assert.Equal(t, Diff, r.Pairs[1].Class)
	assert.Equal(t, -1, r.DiffOffsets[0])
	assert.Equal(t, 4, r.DiffOffsets[1])
	assert.Equal(t, 1, r.FirstDivergence)
}

func TestHeadersCompareLen(t *testing.T) {
	a := []pattern.Match{{After: []byte{0xD5, 0xAA, 0x96, 0x01, 0x02}}}
	b := []pattern.Match{{After: []byte{0xD5, 0xAA, 0x96, 0x01, 0x09}}}

	assert.Equal(t, StatusMatch, Headers(a, b, 4, 10).Status)
	assert.Equal(t, StatusDiverged, Headers(a, b, 5, 10).Status)
	assert.Equal(t, StatusNoData, Headers(a, nil, 5, 10).Status)
}

func framed(src model.Source, frame, data, valid int, line *int) []model.ControllerEvent {
	var out []model.ControllerEvent
	for i := range data {
		v := byte(0x7F)
		if i < valid {
			v = 0x96
		}
		*line++
		out = append(out, dataAt(src, *line, frame, v))
	}
	return out
}

func TestFramesRatio(t *testing.T) {
	var la, lb int
	var a, b []model.ControllerEvent
	a = append(a, framed(model.MAME, 1, 10, 10, &la)...)
	b = append(b, framed(model.Vsim, 1, 10, 9, &lb)...)
	a = append(a, framed(model.MAME, 2, 10, 10, &la)...)
	b = append(b, framed(model.Vsim, 2, 10, 7, &lb)...)

	r := Frames(a, b, FrameRange{}, 0.8)

	require.Len(t, r.Rows, 2)
	assert.Equal(t, Match, r.Rows[0].Class)
	assert.InDelta(t, 0.9, r.Rows[0].Ratio, 1e-9)
	assert.Equal(t, Diff, r.Rows[1].Class)
	assert.Equal(t, 2, r.FirstDivergence)
	assert.Equal(t, 1, r.Matching)
	assert.Equal(t, 20, r.TotalA.Valid)
	assert.Equal(t, 16, r.TotalB.Valid)
	assert.Equal(t, StatusDiverged, r.Status)
}

func TestFramesZeroAndMissing(t *testing.T) {
	var la, lb int
	var a, b []model.ControllerEvent
	a = append(a, framed(model.MAME, 5, 3, 0, &la)...)
	b = append(b, framed(model.Vsim, 5, 4, 0, &lb)...)
	a = append(a, framed(model.MAME, 6, 2, 0, &la)...)
	b = append(b, framed(model.Vsim, 7, 3, 3, &lb)...)

	r := Frames(a, b, FrameRange{}, 0.8)

	require.Len(t, r.Rows, 3)
	assert.Equal(t, Match, r.Rows[0].Class, "both sides read no valid bytes")
	assert.Equal(t, Match, r.Rows[1].Class, "frame absent on B and A has no valid bytes")
	assert.Equal(t, OnlyB, r.Rows[2].Class)
	assert.Equal(t, 7, r.FirstDivergence)
}

func TestFramesRangeAndLandmarks(t *testing.T) {
	a := []model.ControllerEvent{
		&model.MotorOnEvent{Header: hdr(model.MAME, 1, 3)},
		dataAt(model.MAME, 2, 4, 0xD5),
		dataAt(model.MAME, 3, 9, 0xD5),
		dataAt(model.MAME, 4, -1, 0xD5),
	}
	b := []model.ControllerEvent{
		dataAt(model.Vsim, 1, 4, 0xFF),
		dataAt(model.Vsim, 2, 5, 0xD5),
	}

	r := Frames(a, b, FrameRange{Start: 4, End: 5}, 0)

	require.Len(t, r.Rows, 2)
	assert.Equal(t, 4, r.Rows[0].Frame)
	assert.Equal(t, 5, r.Rows[1].Frame)
	assert.Equal(t, model.Some(4), r.FirstA.D5)
	assert.False(t, r.FirstA.MotorOn.Valid, "motor-on frame 3 is outside the range")
	assert.Equal(t, model.Some(4), r.FirstB.Valid)
	assert.Equal(t, model.Some(5), r.FirstB.D5)
	assert.Len(t, r.D5Frames(5), 2)
	assert.Equal(t, []byte{0xD5}, r.Rows[0].A.Bytes())
}

func TestFramesNoData(t *testing.T) {
	a := []model.ControllerEvent{dataAt(model.MAME, 1, -1, 0xD5)}
	b := []model.ControllerEvent{dataAt(model.Vsim, 1, 2, 0xD5)}
	assert.Equal(t, StatusNoData, Frames(a, b, FrameRange{}, 0.8).Status)
}

func status(src model.Source, result, latched byte, motor bool) *model.StatusEvent {
	return &model.StatusEvent{Header: hdr(src, 1, -1), Result: result, Latched: latched, Motor: motor}
}

func TestStatusReasons(t *testing.T) {
	a := []*model.StatusEvent{
		status(model.MAME, 0xA0, 3, true),
		status(model.MAME, 0xA0, 3, true),
		status(model.MAME, 0x20, 0, true),
		status(model.MAME, 0x20, 0, false),
	}
	b := []*model.StatusEvent{
		status(model.Vsim, 0xA0, 3, true),
		status(model.Vsim, 0xA0, 2, true),
		status(model.Vsim, 0xA0, 0, true),
		status(model.Vsim, 0x21, 0, true),
	}

	r := StatusReads(a, b, 30)

	assert.Equal(t, []string{ReasonOK, ReasonLatch, ReasonBit7, ReasonDiff}, r.Reasons)
	assert.Equal(t, 1, r.FirstDivergence)
	assert.Equal(t, 3, r.ReasonMismatch)
	assert.False(t, r.CensusB.Bit7Always())
	assert.Equal(t, 3, r.CensusB.Bit7)
	assert.Equal(t, "1100", r.CensusA.SensePattern)
	assert.Equal(t, []ValueCount{{Value: 0x20, Count: 2}, {Value: 0xA0, Count: 2}}, r.CensusA.Top)
	assert.Len(t, MotorOn(a), 3)
}

func TestStatusBit7Always(t *testing.T) {
	b := []*model.StatusEvent{status(model.Vsim, 0x80, 0, true), status(model.Vsim, 0xA0, 0, true)}
	r := StatusReads([]*model.StatusEvent{status(model.MAME, 0x80, 0, true)}, b, 0)
	assert.True(t, r.CensusB.Bit7Always())
	assert.False(t, StatusCensus{}.Bit7Always())
}

func step(src model.Source, drive, from, to int) *model.StepEvent {
	return &model.StepEvent{Header: hdr(src, 1, -1), On: true, Drive: drive, TrackFrom: from, TrackTo: to}
}

func TestTracks(t *testing.T) {
	a := []*model.StepEvent{
		step(model.MAME, 2, 0, 1),
		step(model.MAME, 3, 0, 1),
		step(model.MAME, 2, 1, 2),
		step(model.MAME, 2, 2, 3),
	}
	b := []*model.StepEvent{
		step(model.Vsim, 1, 0, 1),
		step(model.Vsim, 1, 1, 1),
		step(model.Vsim, 1, 1, 2),
		step(model.Vsim, 1, 2, 4),
		{Header: hdr(model.Vsim, 1, -1), Drive: 1, Direction: 1},
	}

	r := Tracks(a, b, DefaultMAMEDrive, DefaultVsimDrive, 50)

	assert.Equal(t, 3, r.StepsA)
	assert.Equal(t, 4, r.StepsB)
	assert.Equal(t, 3, r.MovesB)
	assert.Equal(t, 2, r.FirstDivergence)
	assert.Equal(t, 3, r.MaxA)
	assert.Equal(t, 4, r.MaxB)
}

func TestInstructions(t *testing.T) {
	a := []model.Instruction{
		{LineNo: 1, Bank: "FF", Addr: "D5A0", Text: "lda  $c0ec,x", IWMAccess: true},
		{LineNo: 2, Bank: "FF", Addr: "D5A2", Text: "nop"},
		{LineNo: 3, Bank: "FF", Addr: "D5A3", Text: "lda $c0ee,x", IWMAccess: true},
		{LineNo: 4, Bank: "FF", Addr: "D5A6", Text: "sta $c0e9", IWMAccess: true},
	}
	b := []model.Instruction{
		{LineNo: 5, Bank: "FF", Addr: "D5A0", Text: "LDA $C0EC,X", IWMAccess: true},
		{LineNo: 6, Bank: "FF", Addr: "D5A3", Text: "lda $c0ed,x", IWMAccess: true},
		{LineNo: 7, Bank: "FF", Addr: "D5A9", Text: "sta $c0e9", IWMAccess: true},
	}

	r := Instructions(a, b, 0)

	assert.Equal(t, []string{ReasonOK, ReasonInstr, ReasonAddr}, r.Reasons)
	assert.Equal(t, 1, r.FirstDivergence)
	assert.Equal(t, 4, r.TotalA)
	assert.Equal(t, 3, r.LenA)
}

func TestDataFields(t *testing.T) {
	a := reads(0xFF, 0xD5, 0xAA, 0xAD, 0x96, 0x97, 0x9A, 0xFF, 0xD5, 0xAA, 0xAD, 0xB0, 0xB1)
	b := reads(0xD5, 0xAA, 0xAD, 0x96, 0x97, 0x9A, 0xD5, 0xAA, 0xAD, 0xB0, 0xB2)

	r := DataFields(a, b, 5, 3)

	require.Len(t, r.Sectors, 2)
	assert.Equal(t, []byte{0x96, 0x97, 0x9A}, r.Sectors[0].A)
	assert.Equal(t, StatusMatch, r.Sectors[0].Bytes.Status)
	assert.Equal(t, []byte{0xB0, 0xB1}, r.Sectors[1].A)
	assert.Equal(t, 1, r.Sectors[1].Bytes.FirstDivergence)
	assert.Equal(t, 1, r.FirstDivergence)
	assert.Equal(t, 1, r.Mismatches)

	assert.Len(t, DataFields(a, b, 1, 3).Sectors, 1)
	assert.Equal(t, StatusNoData, DataFields(a, reads(0xFF), 5, 3).Status)
}

func fluxTrace(src model.Source, bytes []byte, bits [][]uint8) model.FluxTrace {
	ft := model.FluxTrace{Source: src}
	line := 0
	for i, v := range bytes {
		for _, bit := range bits[i] {
			line++
			ft.Events = append(ft.Events, &model.ShiftEvent{Header: hdr(src, line, -1), Bit: bit})
		}
		line++
		ft.Events = append(ft.Events, &model.ByteCompleteEvent{Header: hdr(src, line, -1), Data: v})
	}
	return ft
}

func TestFluxBytes(t *testing.T) {
	a := fluxTrace(model.MAME, []byte{0xFF, 0xD5, 0xAA},
		[][]uint8{{1, 1}, {1, 1, 0, 1}, {1, 0, 1, 0}})
	b := fluxTrace(model.Vsim, []byte{0xFF, 0xD5, 0xAB},
		[][]uint8{{1, 1}, {1, 1, 0, 1}, {1, 0, 1, 1}})

	r := FluxBytes(a, b, Window{}, 1)

	assert.Equal(t, 2, r.FirstDivergence)
	require.Len(t, r.Context, 2)
	assert.Equal(t, 1, r.Context[0].Index)
	assert.Equal(t, StatusMatch, r.Context[0].Bits.Status)
	assert.Equal(t, model.Some(0xAA), r.Context[1].A)
	assert.Equal(t, model.Some(0xAB), r.Context[1].B)
	assert.Equal(t, 3, r.Context[1].Bits.FirstDivergence)
	assert.Equal(t, 10, r.ShiftsA)
}

func TestFluxBytesNoShifts(t *testing.T) {
	a := fluxTrace(model.MAME, []byte{0xD5}, [][]uint8{{}})
	b := fluxTrace(model.Vsim, []byte{0xD5}, [][]uint8{{1}})
	assert.Equal(t, StatusNoData, FluxBytes(a, b, Window{}, 2).Status)
}

func TestFluxVsCPU(t *testing.T) {
	rd := func(line int, result byte, asm, motor int) *model.DataEvent {
		d := dataAt(model.Vsim, line, -1, result)
		d.Assembled = model.Some(asm)
		d.Motor = model.Some(motor)
		d.Position = model.Some(line * 10)
		return d
	}
	bc := func(line int, data byte, sync bool) *model.ByteCompleteEvent {
		return &model.ByteCompleteEvent{Header: hdr(model.Vsim, line, -1), Data: data, Position: line, Sync: sync}
	}

	events := []model.ControllerEvent{
		rd(1, 0xFF, 0xFF, 1), // before any byte completed
		rd(3, 0xD5, 0xD5, 1),
		rd(5, 0xAB, 0xAA, 1), // CPU got something else; m_data was right
		rd(6, 0xAA, 0xAA, 0), // motor off
		rd(8, 0x97, 0x97, 1),
	}
	fx := model.FluxTrace{Events: []model.FluxEvent{
		bc(2, 0xD5, false),
		bc(4, 0xAA, false),
		bc(7, 0x96, false),
		bc(7, 0x97, true),
	}}

	r := FluxVsCPU(events, fx, Window{})

	require.Len(t, r.Reads, 4)
	assert.Equal(t, ReasonNoBC, r.Reads[0].Reason)
	assert.Equal(t, ReasonOK, r.Reads[1].Reason)
	assert.Equal(t, ReasonMData, r.Reads[2].Reason)
	assert.True(t, r.Reads[2].MDataMismatch)
	assert.Equal(t, ReasonDiff, r.Reads[3].Reason)
	assert.Equal(t, model.Some(0x96), r.Reads[3].BC)
	assert.Equal(t, 7, r.Reads[3].BCLine)
	assert.Equal(t, 3, r.BCs)
	assert.Equal(t, 1, r.Mismatches)
	assert.Equal(t, 1, r.MDataMismatches)
	assert.Equal(t, 2, r.FirstDivergence)
	assert.Equal(t, StatusDiverged, r.Status)

	assert.Equal(t, StatusNoData, FluxVsCPU(nil, fx, Window{}).Status)
}

func TestDiscrepancies(t *testing.T) {
	d := func(line int, result byte, asm, motor int) *model.DataEvent {
		e := dataAt(model.Vsim, line, -1, result)
		e.Assembled = model.Some(asm)
		e.Motor = model.Some(motor)
		e.ShiftReg = model.Some(int(result))
		return e
	}
	events := []model.ControllerEvent{
		d(1, 0xD5, 0xD5, 1),
		d(2, 0x2A, 0xAA, 1),
		d(3, 0x2A, 0x2A, 1),
		d(4, 0x11, 0x96, 0),
	}

	r := Discrepancies(events)

	assert.Equal(t, 3, r.MotorOn)
	require.Len(t, r.Items, 1)
	assert.Equal(t, Discrepancy{LineNo: 2, Returned: 0x2A, Assembled: 0xAA, ShiftReg: model.Some(0x2A)}, r.Items[0])
}

func TestSummarize(t *testing.T) {
	active := dataAt(model.MAME, 3, -1, 0xD5)
	active.Active = model.Some(1)
	tr := model.Trace{Source: model.MAME, Events: []model.ControllerEvent{
		&model.MotorOnEvent{Header: hdr(model.MAME, 2, -1)},
		active,
		dataAt(model.MAME, 4, -1, 0xFF),
		status(model.MAME, 0xA0, 0, true),
		&model.MotorOffEvent{Header: hdr(model.MAME, 6, -1)},
	}}

	s := Summarize(tr)

	assert.Equal(t, 2, s.Data)
	assert.Equal(t, 2, s.Valid)
	assert.Equal(t, 1, s.Status)
	assert.Equal(t, 1, s.MotorOn)
	assert.Equal(t, 1, s.MotorOff)
	assert.Equal(t, model.Some(2), s.FirstMotorOn)
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, 1, s.NonFF)
	assert.Equal(t, []byte{0xD5}, s.FirstNonFF)
}
