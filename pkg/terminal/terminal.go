package terminal

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/nsf/termbox-go"

	"github.com/df07/go-terminal-raytracer/pkg/core"
)

// GlyphsPerCell is the number of terminal columns one canvas cell occupies
const GlyphsPerCell = 2

// Terminal owns the terminal while the application runs: raw mode, the alternate
// screen, mouse reporting and the event polling goroutine
type Terminal struct {
	out    *bufio.Writer
	events chan termbox.Event
	wg     sync.WaitGroup
	logger core.Logger
	closed bool
}

// Open initialises termbox, sets the window title and starts polling events
func Open(title string, out io.Writer, logger core.Logger) (*Terminal, error) {
	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("initialise terminal: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)
	termbox.HideCursor()

	t := &Terminal{
		out:    bufio.NewWriter(out),
		events: make(chan termbox.Event, 64),
		logger: logger,
	}

	if err := t.SetTitle(title); err != nil {
		termbox.Close()
		return nil, err
	}

	t.wg.Add(1)
	go t.poll()
	return t, nil
}

// poll forwards events until interrupted. Events that do not fit in the queue are
// dropped so PollEvent keeps being called and Interrupt can always be delivered.
func (t *Terminal) poll() {
	defer t.wg.Done()
	for {
		ev := termbox.PollEvent()
		if ev.Type == termbox.EventInterrupt {
			return
		}
		select {
		case t.events <- ev:
		default:
			t.logger.Printf("input queue full, dropping event type %d\n", ev.Type)
		}
	}
}

// SetTitle asks the terminal emulator to change the window title
func (t *Terminal) SetTitle(title string) error {
	if _, err := fmt.Fprintf(t.out, "\x1b]0;%s\x07", title); err != nil {
		return fmt.Errorf("set title: %w", err)
	}
	return t.out.Flush()
}

// Size returns the terminal size in character cells
func (t *Terminal) Size() image.Point {
	w, h := termbox.Size()
	return image.Pt(w, h)
}

// FitGrid returns the largest canvas that fits the terminal. The last row stays free
// because the final line break would otherwise scroll the screen.
func (t *Terminal) FitGrid() image.Point {
	return FitGrid(t.Size())
}

// FitGrid converts a terminal size in characters into a canvas size in cells
func FitGrid(size image.Point) image.Point {
	return image.Pt(size.X/GlyphsPerCell, size.Y-1)
}

// Sink returns a writer that draws whole frames from the top-left corner
func (t *Terminal) Sink() *Sink {
	return &Sink{w: t.out}
}

// Input returns an input source reading this terminal's events
func (t *Terminal) Input(config SourceConfig) *Source {
	return NewSource(t.events, config)
}

// Close stops event polling and restores the terminal
func (t *Terminal) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	termbox.Interrupt()
	t.wg.Wait()

	// clear and leave the alternate screen
	_, err := t.out.WriteString("\x1b[0m\x1b[2J")
	if err == nil {
		err = t.out.Flush()
	}
	termbox.Close()
	return err
}
