package simulator

import (
	"bufio"
	"fmt"
	"io"

	"github.com/viant/kernelsim/internal/clock"
)

const (
	driverDelimiter = ':'
	kernelDelimiter = '#'
)

// logWriter renders the simulation log: one line per message prefixed with the
// virtual time in milliseconds, and a blank line closing every step that
// logged something.
type logWriter struct {
	w       *bufio.Writer
	clock   *clock.Virtual
	pending bool
	lines   int
	err     error
}

func newLogWriter(w io.Writer, c *clock.Virtual) *logWriter {
	return &logWriter{w: bufio.NewWriter(w), clock: c}
}

func (l *logWriter) driver(format string, args ...interface{}) {
	l.write(driverDelimiter, fmt.Sprintf(format, args...))
}

func (l *logWriter) kernel(message string) {
	l.write(kernelDelimiter, message)
}

func (l *logWriter) write(delimiter byte, message string) {
	if l.err != nil {
		return
	}
	_, l.err = fmt.Fprintf(l.w, "%.3fms %c %s\n", l.clock.Millis(), delimiter, message)
	l.pending = true
	l.lines++
}

// endStep writes the blank separator when the step logged something.
func (l *logWriter) endStep() {
	if !l.pending || l.err != nil {
		return
	}
	l.err = l.w.WriteByte('\n')
	l.pending = false
}

func (l *logWriter) flush() error {
	if l.err != nil {
		return l.err
	}
	return l.w.Flush()
}
