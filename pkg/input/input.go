package input

import (
	"image"

	"github.com/df07/go-terminal-raytracer/pkg/geometry"
)

// Snapshot is everything the application needs from input devices for one frame
type Snapshot struct {
	Held       geometry.Direction // Movement directions currently held
	MouseDelta image.Point        // Pointer motion since the last Recenter
	Pointer    image.Point        // Last known pointer position in terminal coordinates
	Clicked    bool               // A primary click happened this frame
	Click      image.Point        // Where the click happened
	Quit       bool               // The user asked to exit
}

// Source produces one Snapshot per frame
type Source interface {
	// Snapshot drains pending input and returns the state for this frame
	Snapshot() Snapshot
	// Recenter resets the pointer reference so the next MouseDelta starts from zero
	Recenter()
}

// Scripted replays a fixed sequence of snapshots, then asks to quit.
// It drives the application without a terminal.
type Scripted struct {
	frames    []Snapshot
	next      int
	recenters int
}

// NewScripted creates a source that returns frames in order
func NewScripted(frames ...Snapshot) *Scripted {
	return &Scripted{frames: frames}
}

// Snapshot returns the next scripted frame, or a quit request once they run out
func (s *Scripted) Snapshot() Snapshot {
	if s.next >= len(s.frames) {
		return Snapshot{Quit: true}
	}
	frame := s.frames[s.next]
	s.next++
	return frame
}

// Recenter counts recenter requests
func (s *Scripted) Recenter() {
	s.recenters++
}

// Recenters returns how many times Recenter was called
func (s *Scripted) Recenters() int {
	return s.recenters
}
