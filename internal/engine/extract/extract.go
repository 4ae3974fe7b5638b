// Package extract reduces a controller event stream to the data bytes the
// CPU actually received.
package extract

import "github.com/crimson-sun/fluxdiff/internal/model"

// Gate selects which DATA events may contribute bytes.
type Gate int

const (
	// GateNone accepts every valid byte while the motor fold is on. The fold
	// starts on, so only an explicit MOTOR_OFF suppresses bytes.
	GateNone Gate = iota
	// GateMotor starts with the motor off. MOTOR_ON/MOTOR_OFF lines toggle it;
	// sources without them set it from each event's own motor flag.
	GateMotor
	// GateActive accepts a byte only when its own event reports the drive
	// active: MAME active=1, vsim spin/motor=1.
	GateActive
)

func (g Gate) String() string {
	switch g {
	case GateMotor:
		return "motor"
	case GateActive:
		return "active"
	default:
		return "none"
	}
}

// ValidBytes returns, in stream order, the result byte of every gated DATA
// event whose bit 7 is set.
func ValidBytes(events []model.ControllerEvent, gate Gate) []model.ByteRead {
	on := gate != GateMotor
	var out []model.ByteRead

	for _, ev := range events {
		switch e := ev.(type) {
		case *model.MotorOnEvent:
			on = true
		case *model.MotorOffEvent:
			on = false
		case *model.StatusEvent:
			if gate == GateMotor && e.Source() == model.Vsim {
				on = e.Motor
			}
		case *model.DataEvent:
			if !accept(e, gate, &on) || !e.Valid() {
				continue
			}
			out = append(out, model.ByteRead{Value: e.Result, LineNo: e.Line(), Position: e.Position})
		}
	}
	return out
}

func accept(e *model.DataEvent, gate Gate, on *bool) bool {
	switch gate {
	case GateActive:
		return activeFlag(e) == 1
	case GateMotor:
		if e.Source() == model.Vsim {
			if m, ok := e.Motor.Get(); ok {
				*on = m == 1
			}
		}
	}
	return *on
}

func activeFlag(e *model.DataEvent) int {
	if e.Source() == model.Vsim {
		return e.Motor.Or(0)
	}
	return e.Active.Or(0)
}

// Values returns just the byte values of reads.
func Values(reads []model.ByteRead) []byte {
	out := make([]byte, len(reads))
	for i, r := range reads {
		out[i] = r.Value
	}
	return out
}
