package model

// Kind is the discriminator of a ControllerEvent.
type Kind int

const (
	KindData Kind = iota
	KindStatus
	KindMotorOn
	KindMotorOff
	KindDevsel
	KindDiskReg
	KindPhases
	KindFluxStatus
	KindStepDir
	KindStepOn
)

var kindNames = [...]string{
	KindData:       "DATA",
	KindStatus:     "STATUS",
	KindMotorOn:    "MOTOR_ON",
	KindMotorOff:   "MOTOR_OFF",
	KindDevsel:     "DEVSEL",
	KindDiskReg:    "DISKREG",
	KindPhases:     "PHASES",
	KindFluxStatus: "FLUX_STATUS",
	KindStepDir:    "STEP_DIR",
	KindStepOn:     "STEP_ON",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// FluxKind is the discriminator of a FluxEvent.
type FluxKind int

const (
	FluxShift FluxKind = iota
	FluxByteComplete
	FluxEdge
	FluxStartRead
)

func (k FluxKind) String() string {
	switch k {
	case FluxShift:
		return "SHIFT"
	case FluxByteComplete:
		return "BYTE_COMPLETE"
	case FluxEdge:
		return "EDGE"
	case FluxStartRead:
		return "START_READ"
	default:
		return "UNKNOWN"
	}
}

// EdgeState is the flux decoder window state recorded on a SHIFT.
type EdgeState int

const (
	Edge0 EdgeState = iota
	Edge1
)

func (e EdgeState) String() string {
	if e == Edge1 {
		return "EDGE_1"
	}
	return "EDGE_0"
}
