package model

// FluxEvent is one bit-level decoder event.
type FluxEvent interface {
	FluxKind() FluxKind
	Source() Source
	Line() int
	sealed()
}

// ShiftEvent records one bit shifted into the read shift register.
type ShiftEvent struct {
	Header
	Bit       uint8
	Before    byte
	After     byte
	Edge      EdgeState
	WindowEnd int
}

func (*ShiftEvent) FluxKind() FluxKind { return FluxShift }

// ByteCompleteEvent records an assembled byte.
type ByteCompleteEvent struct {
	Header
	Data     byte
	Position int
	Sync     bool // BYTE_COMPLETE_SYNC rather than _ASYNC
}

func (*ByteCompleteEvent) FluxKind() FluxKind { return FluxByteComplete }

// EdgeEvent records a detected flux transition.
type EdgeEvent struct {
	Header
	FluxTime int
	Before   byte
}

func (*EdgeEvent) FluxKind() FluxKind { return FluxEdge }

// StartReadEvent marks the decoder entering read mode.
type StartReadEvent struct {
	Header
}

func (*StartReadEvent) FluxKind() FluxKind { return FluxStartRead }
