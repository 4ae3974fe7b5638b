package classifier

import "github.com/crimson-sun/fluxdiff/internal/model"

// DefaultMaxTrack is the highest track a MAME step can reach.
const DefaultMaxTrack = 79

// Cursor is the sequential context of one parse: the line being classified,
// the latest frame counter and, for sources that only log step commands, the
// per-drive step direction and track. A Cursor belongs to a single parse call.
type Cursor struct {
	Source   model.Source
	Line     int
	Frame    model.Opt
	MaxTrack int

	direction map[int]int
	track     map[int]int
}

// NewCursor returns a cursor positioned before the first line of src.
func NewCursor(src model.Source, maxTrack int) *Cursor {
	if maxTrack <= 0 {
		maxTrack = DefaultMaxTrack
	}
	return &Cursor{
		Source:    src,
		MaxTrack:  maxTrack,
		direction: make(map[int]int),
		track:     make(map[int]int),
	}
}

// Header builds the common event header for the current line.
func (c *Cursor) Header(timestamp string) model.Header {
	return model.Header{
		From:      c.Source,
		LineNo:    c.Line,
		Timestamp: timestamp,
		Frame:     c.Frame,
	}
}

// SetFrame records a frame counter that applies to this and later lines.
func (c *Cursor) SetFrame(n int) {
	c.Frame = model.Some(n)
}

// SetDirection records the step direction of drive.
func (c *Cursor) SetDirection(drive, dir int) {
	c.direction[drive] = dir
}

// Step moves drive one track in its current direction (default +1),
// clamped to [0, MaxTrack].
func (c *Cursor) Step(drive int) (from, to, dir int) {
	dir, ok := c.direction[drive]
	if !ok {
		dir = 1
	}
	from = c.track[drive]
	to = from + dir
	if to < 0 {
		to = 0
	} else if to > c.MaxTrack {
		to = c.MaxTrack
	}
	c.track[drive] = to
	return from, to, dir
}
