package compare

import "github.com/crimson-sun/fluxdiff/internal/model"

// Default drive numbers of the first 3.5" drive in each emulator.
const (
	DefaultMAMEDrive = 2
	DefaultVsimDrive = 1
)

// TrackResult compares head stepping. Side A counts every step command of
// its drive; side B counts only steps that changed track, since vsim also
// logs steps that hit the end stop.
type TrackResult struct {
	Result[*model.StepEvent]
	StepsA, StepsB int // step-on commands for the selected drive
	MovesB         int
	MaxA, MaxB     int
}

// Tracks compares the destination track of each step.
func Tracks(a, b []*model.StepEvent, driveA, driveB, limit int) TrackResult {
	stepsA := stepsFor(a, driveA)
	stepsB := stepsFor(b, driveB)
	var moves []*model.StepEvent
	for _, s := range stepsB {
		if s.Moved() {
			moves = append(moves, s)
		}
	}

	eq := func(x, y *model.StepEvent) bool { return x.TrackTo == y.TrackTo }
	return TrackResult{
		Result: Align(stepsA, moves, eq, Window{Limit: limit}),
		StepsA: len(stepsA),
		StepsB: len(stepsB),
		MovesB: len(moves),
		MaxA:   maxTrack(stepsA),
		MaxB:   maxTrack(moves),
	}
}

func stepsFor(in []*model.StepEvent, drive int) []*model.StepEvent {
	var out []*model.StepEvent
	for _, s := range in {
		if s.On && s.Drive == drive {
			out = append(out, s)
		}
	}
	return out
}

func maxTrack(in []*model.StepEvent) int {
	m := 0
	for _, s := range in {
		m = max(m, s.TrackTo)
	}
	return m
}
