package classifier

import (
	"regexp"

	"github.com/crimson-sun/fluxdiff/internal/model"
)

const (
	mameDataFields   = `result=([0-9a-f]{2}) active=(\d) data=([0-9a-f]{2}) status=([0-9a-f]{2}) mode=([0-9a-f]{2}) floppy=(.+)`
	mameStatusFields = `result=([0-9a-f]{2}) \(bit7_wp=\d bit5_motor=(\d) mode=([0-9a-f]{2}) phases=([0-9a-f]+)\) floppy=(.+)`
)

// MAME returns the rule set for MAME IWM debug logs. Data and status lines
// come in four generations (frame and position, frame only, position only,
// neither); step commands come from the floppy device and carry no track
// number.
func MAME() Dialect[model.ControllerEvent] { return mameDialect }

var mameDialect = Dialect[model.ControllerEvent]{
	Source: model.MAME,
	Rules: []Rule[model.ControllerEvent]{
		{
			Name:    "data_frame_pos",
			Pattern: regexp.MustCompile(`\[:fdc\] IWM_DATA @([^ ]+) frame=(\d+) pos=(\d+): ` + mameDataFields),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				c.SetFrame(decInt(m[2]))
				ev := mameData(c.Header(m[1]), m[4:])
				ev.Position = model.Some(decInt(m[3]))
				return ev, true
			},
		},
		{
			Name:    "data_frame",
			Pattern: regexp.MustCompile(`\[:fdc\] IWM_DATA @([^ ]+) frame=(\d+): ` + mameDataFields),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				c.SetFrame(decInt(m[2]))
				return mameData(c.Header(m[1]), m[3:]), true
			},
		},
		{
			Name:    "data_pos",
			Pattern: regexp.MustCompile(`\[:fdc\] IWM_DATA @([^ ]+) pos=(\d+): ` + mameDataFields),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				ev := mameData(c.Header(m[1]), m[3:])
				ev.Position = model.Some(decInt(m[2]))
				return ev, true
			},
		},
		{
			Name:    "data",
			Pattern: regexp.MustCompile(`\[:fdc\] IWM_DATA @([^:]+): ` + mameDataFields),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				return mameData(c.Header(m[1]), m[2:]), true
			},
		},
		{
			Name:    "status_frame",
			Pattern: regexp.MustCompile(`\[:fdc\] IWM_STATUS @([^ ]+) frame=(\d+): ` + mameStatusFields),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				c.SetFrame(decInt(m[2]))
				return mameStatus(c.Header(m[1]), m[3:]), true
			},
		},
		{
			Name:    "status",
			Pattern: regexp.MustCompile(`\[:fdc\] IWM_STATUS @([^:]+): ` + mameStatusFields),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				return mameStatus(c.Header(m[1]), m[2:]), true
			},
		},
		{
			Name:    "motor_on_frame",
			Pattern: regexp.MustCompile(`\[:fdc\] IWM_MOTOR_ON @([^ ]+) frame=(\d+): control=([0-9a-f]{2}) floppy=(.+)`),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				c.SetFrame(decInt(m[2]))
				return &model.MotorOnEvent{Header: c.Header(m[1]), Control: hexByte(m[3]), Floppy: m[4]}, true
			},
		},
		{
			Name:    "motor_on",
			Pattern: regexp.MustCompile(`\[:fdc\] IWM_MOTOR_ON @([^:]+): control=([0-9a-f]{2}) floppy=(.+)`),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				return &model.MotorOnEvent{Header: c.Header(m[1]), Control: hexByte(m[2]), Floppy: m[3]}, true
			},
		},
		{
			Name:    "motor_off",
			Pattern: regexp.MustCompile(`\[:fdc\] IWM_MOTOR_OFF @([^:]+)`),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				return &model.MotorOffEvent{Header: c.Header(m[1])}, true
			},
		},
		{
			Name:    "devsel",
			Pattern: regexp.MustCompile(`\[:\] DEVSEL (\d): (.+) @(.+)`),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				return &model.DevselEvent{Header: c.Header(m[3]), Device: decInt(m[1]), Desc: m[2]}, true
			},
		},
		{
			Name:    "diskreg",
			Pattern: regexp.MustCompile(`\[:\] DISKREG WR ([0-9a-f]{2})->([0-9a-f]{2}) \((.+)\) @(.+)`),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				return &model.DiskRegEvent{Header: c.Header(m[4]), From: hexByte(m[1]), To: hexByte(m[2]), Desc: m[3]}, true
			},
		},
		{
			Name:    "step_dir",
			Pattern: regexp.MustCompile(`\[:fdc:(\d):.*\] cmd step dir ([+-]1)`),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				drive, dir := decInt(m[1]), decInt(m[2])
				c.SetDirection(drive, dir)
				return &model.StepEvent{Header: c.Header(""), Drive: drive, Direction: dir}, true
			},
		},
		{
			Name:    "step_on",
			Pattern: regexp.MustCompile(`\[:fdc:(\d):.*\] cmd step on`),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				drive := decInt(m[1])
				from, to, dir := c.Step(drive)
				return &model.StepEvent{
					Header:    c.Header(""),
					On:        true,
					Drive:     drive,
					Direction: dir,
					TrackFrom: from,
					TrackTo:   to,
				}, true
			},
		},
	},
}

// mameData builds a data event from the shared field groups:
// result, active, data, status, mode, floppy.
func mameData(h model.Header, f []string) *model.DataEvent {
	return &model.DataEvent{
		Header:    h,
		Result:    hexByte(f[0]),
		Active:    model.Some(decInt(f[1])),
		Assembled: model.Some(hexInt(f[2])),
		Status:    model.Some(hexInt(f[3])),
		Mode:      model.Some(hexInt(f[4])),
		Floppy:    f[5],
	}
}

// mameStatus builds a status event from: result, motor, mode, phases, floppy.
// MAME does not log SEL, so the latched index is the low phase bits.
func mameStatus(h model.Header, f []string) *model.StatusEvent {
	phases := hexInt(f[3])
	return &model.StatusEvent{
		Header:  h,
		Result:  hexByte(f[0]),
		Motor:   flag(f[1]),
		Mode:    model.Some(hexInt(f[2])),
		Phases:  byte(phases),
		Latched: byte(phases & 7),
		Extra:   f[4],
	}
}
