package model

// Source identifies which emulator produced a trace.
type Source string

const (
	// MAME traces use the angular position scale and explicit MOTOR_ON/OFF lines.
	MAME Source = "mame"
	// Vsim traces carry motor/spin flags on every DATA and STATUS line.
	Vsim Source = "vsim"
)

// Opt is an optional integer field. The zero value is unset.
type Opt struct {
	V     int
	Valid bool
}

// Some returns a set Opt holding v.
func Some(v int) Opt {
	return Opt{V: v, Valid: true}
}

// Get returns the value and whether it is set.
func (o Opt) Get() (int, bool) {
	return o.V, o.Valid
}

// Or returns the value, or fallback when unset.
func (o Opt) Or(fallback int) int {
	if !o.Valid {
		return fallback
	}
	return o.V
}

// Header carries the fields common to every parsed event.
type Header struct {
	From      Source
	LineNo    int    // 1-based line in the source trace
	Timestamp string // raw timestamp or register offset, as printed
	Frame     Opt
}

// Source returns the emulator that produced the event.
func (h Header) Source() Source { return h.From }

// Line returns the 1-based line number the event was parsed from.
func (h Header) Line() int { return h.LineNo }

// FrameNumber returns the frame counter in effect for the event, if any.
func (h Header) FrameNumber() Opt { return h.Frame }

func (h Header) sealed() {}
