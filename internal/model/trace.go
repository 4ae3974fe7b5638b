package model

// RawTrace is the decoded text of one trace, split into lines.
type RawTrace struct {
	Source Source
	Path   string
	Lines  []string
}

// ParseStats counts what happened to each line during a parse.
type ParseStats struct {
	Lines      int
	Classified int
	Dropped    int
	ByRule     map[string]int
}

// Trace is the ordered controller event stream of one source.
type Trace struct {
	Source Source
	Events []ControllerEvent
	Stats  ParseStats
}

// FluxTrace is the ordered flux event stream of one source.
type FluxTrace struct {
	Source Source
	Events []FluxEvent
	Stats  ParseStats
}

// Shifts returns the SHIFT events in stream order.
func (t FluxTrace) Shifts() []*ShiftEvent {
	var out []*ShiftEvent
	for _, e := range t.Events {
		if s, ok := e.(*ShiftEvent); ok {
			out = append(out, s)
		}
	}
	return out
}

// Bytes returns the BYTE_COMPLETE events in stream order.
func (t FluxTrace) Bytes() []*ByteCompleteEvent {
	var out []*ByteCompleteEvent
	for _, e := range t.Events {
		if b, ok := e.(*ByteCompleteEvent); ok {
			out = append(out, b)
		}
	}
	return out
}

// CPUTrace is the ordered instruction stream of one source.
type CPUTrace struct {
	Source       Source
	Instructions []Instruction
	Stats        ParseStats
}

// ByteRead is one valid data byte observed by the CPU.
type ByteRead struct {
	Value    byte
	LineNo   int
	Position Opt
}

// Data returns the DATA events in stream order.
func (t Trace) Data() []*DataEvent {
	var out []*DataEvent
	for _, e := range t.Events {
		if d, ok := e.(*DataEvent); ok {
			out = append(out, d)
		}
	}
	return out
}

// Status returns the STATUS events in stream order.
func (t Trace) Status() []*StatusEvent {
	var out []*StatusEvent
	for _, e := range t.Events {
		if s, ok := e.(*StatusEvent); ok {
			out = append(out, s)
		}
	}
	return out
}

// Steps returns the STEP_ON events in stream order.
func (t Trace) Steps() []*StepEvent {
	var out []*StepEvent
	for _, e := range t.Events {
		if s, ok := e.(*StepEvent); ok && s.On {
			out = append(out, s)
		}
	}
	return out
}

// Count returns how many events of kind k the trace holds.
func (t Trace) Count(k Kind) int {
	n := 0
	for _, e := range t.Events {
		if e.Kind() == k {
			n++
		}
	}
	return n
}
