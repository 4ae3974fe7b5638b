package model

import "fmt"

// ControllerEvent is one IWM controller event parsed from a trace line.
// The concrete type is one of the *Event structs in this file.
type ControllerEvent interface {
	Kind() Kind
	Source() Source
	Line() int
	FrameNumber() Opt
	sealed()
}

// DataEvent is a read of the IWM data register.
type DataEvent struct {
	Header
	Result    byte // value surfaced to the CPU
	Active    Opt  // MAME active / vsim active
	Motor     Opt  // vsim spin (newest format) or motor (older formats)
	Status    Opt  // MAME status register
	Mode      Opt  // MAME mode register
	ShiftReg  Opt  // vsim rsh
	Assembled Opt  // vsim data=, the byte the decoder assembled
	Q6        Opt
	Q7        Opt
	Position  Opt // native disk position: MAME angular, vsim bits
	Floppy    string
}

func (*DataEvent) Kind() Kind { return KindData }

// Valid reports whether Result has bit 7 set, i.e. carries real disk data.
func (e *DataEvent) Valid() bool { return e.Result&0x80 != 0 }

// StatusEvent is a read of the IWM status register.
type StatusEvent struct {
	Header
	Result  byte
	Motor   bool
	Mode    Opt
	Phases  byte // 4-bit phase register
	Latched byte // sense register index; phases&7 unless the line reports it
	MReg    Opt  // vsim m_reg, {sel, phases[2:0]}
	Sel     Opt  // vsim SEL line
	Extra   string
}

func (*StatusEvent) Kind() Kind { return KindStatus }

// MotorOnEvent is a MAME IWM_MOTOR_ON line.
type MotorOnEvent struct {
	Header
	Control byte
	Floppy  string
}

func (*MotorOnEvent) Kind() Kind { return KindMotorOn }

// MotorOffEvent is a MAME IWM_MOTOR_OFF line.
type MotorOffEvent struct {
	Header
}

func (*MotorOffEvent) Kind() Kind { return KindMotorOff }

// DevselEvent is a MAME device select change.
type DevselEvent struct {
	Header
	Device int
	Desc   string
}

func (*DevselEvent) Kind() Kind { return KindDevsel }

// Extra returns the descriptive text of the event.
func (e *DevselEvent) Extra() string { return e.Desc }

// DiskRegEvent is a MAME write to the DISKREG register.
type DiskRegEvent struct {
	Header
	From, To byte
	Desc     string
}

func (*DiskRegEvent) Kind() Kind { return KindDiskReg }

// Extra returns the register transition in the trace's own notation.
func (e *DiskRegEvent) Extra() string {
	return fmt.Sprintf("%02x->%02x (%s)", e.From, e.To, e.Desc)
}

// PhasesEvent is a vsim stepper phase transition.
type PhasesEvent struct {
	Header
	From, To string // phase bits as printed, e.g. "0001"
	Is35     bool
}

func (*PhasesEvent) Kind() Kind { return KindPhases }

// Extra returns the transition in the trace's own notation.
func (e *PhasesEvent) Extra() string {
	is35 := 0
	if e.Is35 {
		is35 = 1
	}
	return fmt.Sprintf("%s->%s (35=%d)", e.From, e.To, is35)
}

// FluxStatusEvent is a vsim FLUX_DRIVE status line.
type FluxStatusEvent struct {
	Header
	Drive       int
	Motor       bool
	TrackLoaded bool
	BitPos      int
	BitCount    int
}

func (*FluxStatusEvent) Kind() Kind { return KindFluxStatus }

// Extra returns a one-line description of the drive state.
func (e *FluxStatusEvent) Extra() string {
	return fmt.Sprintf("drive%d motor=%t loaded=%t pos=%d/%d", e.Drive, e.Motor, e.TrackLoaded, e.BitPos, e.BitCount)
}

// StepEvent is a head step command. STEP_DIR events only carry Direction;
// STEP_ON events carry the resulting track transition.
type StepEvent struct {
	Header
	On        bool
	Drive     int
	Direction int // +1 or -1
	TrackFrom int
	TrackTo   int
}

func (e *StepEvent) Kind() Kind {
	if e.On {
		return KindStepOn
	}
	return KindStepDir
}

// Moved reports whether a step actually changed track.
func (e *StepEvent) Moved() bool { return e.On && e.TrackFrom != e.TrackTo }
