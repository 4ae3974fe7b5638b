package compare

import "github.com/crimson-sun/fluxdiff/internal/model"

// Summary counts the events of one trace.
type Summary struct {
	Source       model.Source
	Data         int
	Status       int
	Valid        int // DATA with bit 7 set
	MotorOn      int
	MotorOff     int
	FirstMotorOn model.Opt // line of the first MOTOR_ON
	Active       int       // DATA with active=1
	MotorData    int       // DATA with motor/spin=1
	IdleData     int       // DATA with motor/spin=0
	NonFF        int       // DATA returning anything but 0xFF
	FirstNonFF   []byte
}

const firstNonFF = 5

// Summarize counts the events of one trace.
func Summarize(t model.Trace) Summary {
	s := Summary{Source: t.Source}
	for _, ev := range t.Events {
		switch e := ev.(type) {
		case *model.DataEvent:
			s.Data++
			if e.Valid() {
				s.Valid++
			}
			if e.Active.Or(0) == 1 {
				s.Active++
			}
			if m, ok := e.Motor.Get(); ok {
				if m == 1 {
					s.MotorData++
				} else {
					s.IdleData++
				}
			}
			if e.Result != 0xFF {
				s.NonFF++
				if len(s.FirstNonFF) < firstNonFF {
					s.FirstNonFF = append(s.FirstNonFF, e.Result)
				}
			}
		case *model.StatusEvent:
			s.Status++
		case *model.MotorOnEvent:
			s.MotorOn++
			if !s.FirstMotorOn.Valid {
				s.FirstMotorOn = model.Some(e.Line())
			}
		case *model.MotorOffEvent:
			s.MotorOff++
		}
	}
	return s
}
