package terminal

import (
	"bufio"
	"io"
)

// cursorHome moves the cursor to the top-left corner
const cursorHome = "\x1b[H"

// Sink writes each frame from the top-left corner and flushes it in one go
type Sink struct {
	w *bufio.Writer
}

// NewSink creates a sink over w
func NewSink(w io.Writer) *Sink {
	return &Sink{w: bufio.NewWriter(w)}
}

// Write homes the cursor, writes the frame and flushes
func (s *Sink) Write(frame []byte) (int, error) {
	if _, err := s.w.WriteString(cursorHome); err != nil {
		return 0, err
	}
	n, err := s.w.Write(frame)
	if err != nil {
		return n, err
	}
	return n, s.w.Flush()
}
