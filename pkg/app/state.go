package app

import (
	"fmt"
	"time"
)

// StateKind identifies an application lifecycle state
type StateKind int

const (
	StateInitialising StateKind = iota
	StateCalibrating
	StateRunning
	StateExiting
)

func (k StateKind) String() string {
	switch k {
	case StateInitialising:
		return "initialising"
	case StateCalibrating:
		return "calibrating"
	case StateRunning:
		return "running"
	case StateExiting:
		return "exiting"
	default:
		return fmt.Sprintf("StateKind(%d)", int(k))
	}
}

// State is the current lifecycle state and the data that belongs to it
type State struct {
	Kind        StateKind
	SecondStage bool      // Calibrating: the first reference point has been recorded
	Start       time.Time // Running: when rendering began
}

func (s State) String() string {
	switch s.Kind {
	case StateCalibrating:
		return fmt.Sprintf("%s(second stage: %t)", s.Kind, s.SecondStage)
	default:
		return s.Kind.String()
	}
}

// Event drives transitions between states
type Event int

const (
	EventInitialised Event = iota
	EventCalibrated
	EventExited
)

func (e Event) String() string {
	switch e {
	case EventInitialised:
		return "initialised"
	case EventCalibrated:
		return "calibrated"
	case EventExited:
		return "exited"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Next returns the state that follows s on event e, or false when e does not apply to s.
// Exiting is reachable from every state; calibration only completes in its second stage.
func Next(s State, e Event, now time.Time) (State, bool) {
	switch {
	case e == EventExited:
		return State{Kind: StateExiting}, true
	case s.Kind == StateInitialising && e == EventInitialised:
		return State{Kind: StateCalibrating}, true
	case s.Kind == StateCalibrating && s.SecondStage && e == EventCalibrated:
		return State{Kind: StateRunning, Start: now}, true
	default:
		return s, false
	}
}
