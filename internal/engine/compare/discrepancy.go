package compare

import "github.com/crimson-sun/fluxdiff/internal/model"

// Discrepancy is a vsim DATA read whose returned value differs from the
// byte the decoder assembled.
type Discrepancy struct {
	LineNo    int
	Returned  byte
	Assembled byte
	ShiftReg  model.Opt
}

// DiscrepancyResult lists returned-versus-assembled mismatches.
type DiscrepancyResult struct {
	MotorOn int // DATA events with the motor on
	Items   []Discrepancy
}

// Discrepancies scans motor-on DATA events for reads that returned something
// other than a valid assembled byte, typically the raw shift register.
func Discrepancies(events []model.ControllerEvent) DiscrepancyResult {
	var r DiscrepancyResult
	for _, ev := range events {
		d, ok := ev.(*model.DataEvent)
		if !ok || d.Motor.Or(0) != 1 {
			continue
		}
		r.MotorOn++
		asm, ok := d.Assembled.Get()
		if !ok || asm&0x80 == 0 || int(d.Result) == asm {
			continue
		}
		r.Items = append(r.Items, Discrepancy{
			LineNo:    d.Line(),
			Returned:  d.Result,
			Assembled: byte(asm),
			ShiftReg:  d.ShiftReg,
		})
	}
	return r
}
