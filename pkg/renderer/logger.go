package renderer

import (
	"io"
	"log"

	"github.com/df07/go-terminal-raytracer/pkg/core"
)

// DefaultLogger implements core.Logger on top of a standard library logger
type DefaultLogger struct {
	logger *log.Logger
}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	dl.logger.Printf(format, args...)
}

// NewDefaultLogger creates a timestamped logger writing to w.
// The terminal owns stdout while running, so w is usually a file or io.Discard.
func NewDefaultLogger(w io.Writer) core.Logger {
	return &DefaultLogger{logger: log.New(w, "", log.LstdFlags|log.Lmicroseconds)}
}
