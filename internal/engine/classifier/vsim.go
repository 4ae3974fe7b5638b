package classifier

import (
	"fmt"
	"regexp"

	"github.com/crimson-sun/fluxdiff/internal/model"
)

// Vsim returns the rule set for the simulator's IWM_FLUX / FLUX_DRIVE log.
// vsim lines carry no frame number of their own; "Frame: N" marker lines set
// the frame for every event that follows.
func Vsim() Dialect[model.ControllerEvent] { return vsimDialect }

var vsimDialect = Dialect[model.ControllerEvent]{
	Source: model.Vsim,
	Rules: []Rule[model.ControllerEvent]{
		{
			Name:    "frame",
			Pattern: regexp.MustCompile(`^Frame: (\d+)$`),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				c.SetFrame(decInt(m[1]))
				return nil, false
			},
		},
		{
			Name:    "status_newest",
			Pattern: regexp.MustCompile(`IWM_FLUX: READ STATUS @([0-9a-f]+) -> ([0-9a-f]{2}) \(sense=(\d) m_reg=([0-9a-f]+) latched=([0-9a-f]+) sel=(\d) phases=([0-9a-f]+) is_35=(\d) motor_active=(\d) mounted=(\d)\)`),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				return &model.StatusEvent{
					Header:  c.Header(m[1]),
					Result:  hexByte(m[2]),
					Motor:   flag(m[9]),
					Phases:  byte(hexInt(m[7])),
					Latched: byte(hexInt(m[5])),
					MReg:    model.Some(hexInt(m[4])),
					Sel:     model.Some(decInt(m[6])),
					Extra: fmt.Sprintf("sense=%s m_reg=%s latched=%s sel=%s phases=%s is_35=%s mounted=%s",
						m[3], m[4], m[5], m[6], m[7], m[8], m[10]),
				}, true
			},
		},
		{
			Name:    "status_sense",
			Pattern: regexp.MustCompile(`IWM_FLUX: READ STATUS @([0-9a-f]+) -> ([0-9a-f]{2}) \(sense=(\d) phases=([0-9a-f]+) is_35=(\d) motor_active=(\d) mounted=(\d)\)`),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				phases := hexInt(m[4])
				return &model.StatusEvent{
					Header:  c.Header(m[1]),
					Result:  hexByte(m[2]),
					Motor:   flag(m[6]),
					Phases:  byte(phases),
					Latched: byte(phases & 7),
					Extra:   fmt.Sprintf("sense=%s phases=%s is_35=%s mounted=%s", m[3], m[4], m[5], m[7]),
				}, true
			},
		},
		{
			Name:    "status_data_rdy",
			Pattern: regexp.MustCompile(`IWM_FLUX: READ STATUS @([0-9a-f]+) -> ([0-9a-f]{2}) \(data_rdy=(\d) m_data_read=(\d) phases=([0-9a-f]+) is_35=(\d) motor_active=(\d) mounted=(\d)\)`),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				phases := hexInt(m[5])
				return &model.StatusEvent{
					Header:  c.Header(m[1]),
					Result:  hexByte(m[2]),
					Motor:   flag(m[7]),
					Phases:  byte(phases),
					Latched: byte(phases & 7),
					Extra:   fmt.Sprintf("data_rdy=%s phases=%s is_35=%s mounted=%s", m[3], m[5], m[6], m[8]),
				}, true
			},
		},
		{
			Name:    "data_active",
			Pattern: regexp.MustCompile(`IWM_FLUX: READ DATA @([0-9a-f]+) -> ([0-9a-f]{2}) pos=(\d+) \(active=(\d) spin=(\d) rsh=([0-9a-f]{2}) data=([0-9a-f]{2}) bc=(\d+) dr=(\d) q6=(\d) q7=(\d)`),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				return &model.DataEvent{
					Header:    c.Header(m[1]),
					Result:    hexByte(m[2]),
					Position:  model.Some(decInt(m[3])),
					Active:    model.Some(decInt(m[4])),
					Motor:     model.Some(decInt(m[5])),
					ShiftReg:  model.Some(hexInt(m[6])),
					Assembled: model.Some(hexInt(m[7])),
					Q6:        model.Some(decInt(m[10])),
					Q7:        model.Some(decInt(m[11])),
				}, true
			},
		},
		{
			Name:    "data_motor_pos",
			Pattern: regexp.MustCompile(`IWM_FLUX: READ DATA @([0-9a-f]+) -> ([0-9a-f]{2}) pos=(\d+) \(motor=(\d) rsh=([0-9a-f]{2}) data=([0-9a-f]{2}) bc=(\d+) dr=(\d) q6=(\d) q7=(\d)\)`),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				return &model.DataEvent{
					Header:    c.Header(m[1]),
					Result:    hexByte(m[2]),
					Position:  model.Some(decInt(m[3])),
					Motor:     model.Some(decInt(m[4])),
					ShiftReg:  model.Some(hexInt(m[5])),
					Assembled: model.Some(hexInt(m[6])),
					Q6:        model.Some(decInt(m[9])),
					Q7:        model.Some(decInt(m[10])),
				}, true
			},
		},
		{
			Name:    "data_motor",
			Pattern: regexp.MustCompile(`IWM_FLUX: READ DATA @([0-9a-f]+) -> ([0-9a-f]{2}) \(motor=(\d) rsh=([0-9a-f]{2}) data=([0-9a-f]{2}) bc=(\d+) dr=(\d) q6=(\d) q7=(\d)\)`),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				return &model.DataEvent{
					Header:    c.Header(m[1]),
					Result:    hexByte(m[2]),
					Motor:     model.Some(decInt(m[3])),
					ShiftReg:  model.Some(hexInt(m[4])),
					Assembled: model.Some(hexInt(m[5])),
					Q6:        model.Some(decInt(m[8])),
					Q7:        model.Some(decInt(m[9])),
				}, true
			},
		},
		{
			Name:    "phases",
			Pattern: regexp.MustCompile(`IWM_WOZ: phases ([0-9a-f]+) -> ([0-9a-f]+) \(is_35=(\d)\)`),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				return &model.PhasesEvent{Header: c.Header(""), From: m[1], To: m[2], Is35: flag(m[3])}, true
			},
		},
		{
			Name:    "flux_status",
			Pattern: regexp.MustCompile(`FLUX_DRIVE\[(\d)\]: Status: motor=(\d) track_loaded=(\d) bit_pos=(\d+)/(\d+)`),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				return &model.FluxStatusEvent{
					Header:      c.Header(m[1]),
					Drive:       decInt(m[1]),
					Motor:       flag(m[2]),
					TrackLoaded: flag(m[3]),
					BitPos:      decInt(m[4]),
					BitCount:    decInt(m[5]),
				}, true
			},
		},
		{
			Name:    "step_dir",
			Pattern: regexp.MustCompile(`FLUX_DRIVE\[(\d)\]: cmd step dir ([+-]1)`),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				drive, dir := decInt(m[1]), decInt(m[2])
				c.SetDirection(drive, dir)
				return &model.StepEvent{Header: c.Header(""), Drive: drive, Direction: dir}, true
			},
		},
		{
			Name:    "step_on",
			Pattern: regexp.MustCompile(`FLUX_DRIVE\[(\d)\]: cmd step on \(dir=([+-]1)\) head_phase=\d+->\d+ track=(\d+)->(\d+)`),
			Build: func(m []string, c *Cursor) (model.ControllerEvent, bool) {
				return &model.StepEvent{
					Header:    c.Header(""),
					On:        true,
					Drive:     decInt(m[1]),
					Direction: decInt(m[2]),
					TrackFrom: decInt(m[3]),
					TrackTo:   decInt(m[4]),
				}, true
			},
		},
	},
}
