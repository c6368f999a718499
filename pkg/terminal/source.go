package terminal

import (
	"image"
	"time"

	"github.com/nsf/termbox-go"

	"github.com/df07/go-terminal-raytracer/pkg/geometry"
	"github.com/df07/go-terminal-raytracer/pkg/input"
)

// SourceConfig contains keyboard and mouse handling parameters
type SourceConfig struct {
	// HoldWindow is how long a key counts as held after its last press or repeat.
	// Terminals report key repeats, not releases.
	HoldWindow time.Duration
	// LookStep is the pointer delta produced by one arrow key press
	LookStep int
}

// DefaultSourceConfig returns sensible default values
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		HoldWindow: 150 * time.Millisecond,
		LookStep:   20,
	}
}

// action is what a single key event asks for
type action struct {
	move geometry.Direction
	look image.Point
	quit bool
}

// translateKey maps a key event onto movement, look and quit actions
func translateKey(ev termbox.Event, lookStep int) action {
	switch ev.Key {
	case termbox.KeyEsc, termbox.KeyCtrlC:
		return action{quit: true}
	case termbox.KeySpace:
		return action{move: geometry.DirectionUp}
	case termbox.KeyArrowUp:
		return action{look: image.Pt(0, lookStep)}
	case termbox.KeyArrowDown:
		return action{look: image.Pt(0, -lookStep)}
	case termbox.KeyArrowLeft:
		return action{look: image.Pt(-lookStep, 0)}
	case termbox.KeyArrowRight:
		return action{look: image.Pt(lookStep, 0)}
	}

	switch ev.Ch {
	case 'w', 'W':
		return action{move: geometry.DirectionForward}
	case 's', 'S':
		return action{move: geometry.DirectionBackward}
	case 'a', 'A':
		return action{move: geometry.DirectionLeft}
	case 'd', 'D':
		return action{move: geometry.DirectionRight}
	case ' ':
		return action{move: geometry.DirectionUp}
	case 'c', 'C':
		return action{move: geometry.DirectionDown}
	case 'q', 'Q':
		return action{quit: true}
	}
	return action{}
}

// Source turns termbox events into per-frame input snapshots
type Source struct {
	events <-chan termbox.Event
	config SourceConfig
	now    func() time.Time

	pressed  map[geometry.Direction]time.Time
	pointer  image.Point
	delta    image.Point
	dragging bool
	quit     bool
}

var _ input.Source = (*Source)(nil)

// NewSource creates a source reading events from the channel
func NewSource(events <-chan termbox.Event, config SourceConfig) *Source {
	return &Source{
		events:  events,
		config:  config,
		now:     time.Now,
		pressed: make(map[geometry.Direction]time.Time),
	}
}

// Snapshot drains every pending event and reports the state for this frame
func (s *Source) Snapshot() input.Snapshot {
	var snap input.Snapshot

drain:
	for {
		select {
		case ev := <-s.events:
			s.apply(ev, &snap)
		default:
			break drain
		}
	}

	now := s.now()
	for direction, at := range s.pressed {
		if now.Sub(at) <= s.config.HoldWindow {
			snap.Held = snap.Held.With(direction, true)
		} else {
			delete(s.pressed, direction)
		}
	}

	snap.MouseDelta = s.delta
	snap.Pointer = s.pointer
	snap.Quit = s.quit
	return snap
}

// apply folds one event into the source state and the snapshot being built
func (s *Source) apply(ev termbox.Event, snap *input.Snapshot) {
	switch ev.Type {
	case termbox.EventKey:
		a := translateKey(ev, s.config.LookStep)
		if a.quit {
			s.quit = true
		}
		if a.move != 0 {
			s.pressed[a.move] = s.now()
		}
		s.delta = s.delta.Add(a.look)

	case termbox.EventMouse:
		position := image.Pt(ev.MouseX, ev.MouseY)
		switch {
		case ev.Key == termbox.MouseLeft && ev.Mod&termbox.ModMotion != 0:
			if s.dragging {
				s.delta = s.delta.Add(position.Sub(s.pointer))
			}
			s.dragging = true
		case ev.Key == termbox.MouseLeft:
			snap.Clicked = true
			snap.Click = position
			s.dragging = true
		case ev.Key == termbox.MouseRelease:
			s.dragging = false
		}
		s.pointer = position
	}
}

// Recenter starts the next pointer delta from zero
func (s *Source) Recenter() {
	s.delta = image.Point{}
}
