package app

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/df07/go-terminal-raytracer/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string
	Timestamp time.Time
}

// ConsoleLogger implements core.Logger by forwarding to another logger and
// remembering the latest message for the HUD
type ConsoleLogger struct {
	next core.Logger
	now  func() time.Time

	mu   sync.Mutex
	last ConsoleMessage
}

// NewConsoleLogger creates a console logger forwarding to next, which may be nil
func NewConsoleLogger(next core.Logger) *ConsoleLogger {
	return &ConsoleLogger{next: next, now: time.Now}
}

// Printf implements core.Logger interface
func (cl *ConsoleLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	if cl.next != nil {
		cl.next.Printf("%s", message)
	}

	cl.mu.Lock()
	cl.last = ConsoleMessage{
		Message:   strings.TrimRight(message, "\n"),
		Timestamp: cl.now(),
	}
	cl.mu.Unlock()
}

// Last returns the most recent message, if any
func (cl *ConsoleLogger) Last() (ConsoleMessage, bool) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.last, !cl.last.Timestamp.IsZero()
}
