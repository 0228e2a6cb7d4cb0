package sink

import (
	"fmt"
	"io"
	"sync"

	"github.com/itexoft/procvd/internal/colorize"
	"github.com/itexoft/procvd/internal/procmodel"
)

// ConsoleSink writes lines and events directly to an io.Writer (typically
// os.Stdout), one line per record, colorized per ProcessKey. Safe for
// concurrent use; writes are serialized under a mutex the way the
// teacher's ring buffer serializes appends.
type ConsoleSink struct {
	mu     sync.Mutex
	out    io.Writer
	colors *colorize.Assigner
}

// NewConsoleSink creates a ConsoleSink writing to out. colorEnabled
// controls whether ANSI color codes are emitted.
func NewConsoleSink(out io.Writer, colorEnabled bool) *ConsoleSink {
	return &ConsoleSink{out: out, colors: colorize.NewAssigner(colorEnabled)}
}

// Write renders: [<timestamp>] [group:<g>] [proc:<p>] [path:<display>] [out|err] <line>
func (s *ConsoleSink) Write(line procmodel.OutputLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.colors.Color(line.Key.String())
	prefix := fmt.Sprintf("[%s] [group:%s] [proc:%s] [path:%s] [%s]",
		line.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
		line.Key.Group, line.Key.Process, line.DisplayPath, line.Stream)
	_, _ = c.Fprintf(s.out, "%s %s\n", prefix, line.Line)
}

// WriteEvent renders: [<timestamp>] [group:<g>] [proc:<p>] [path:<display>] [event:<kind>] [code:<n>]? <message>?
func (s *ConsoleSink) WriteEvent(event procmodel.OutputEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.colors.Color(event.Key.String())
	out := fmt.Sprintf("[%s] [group:%s] [proc:%s] [path:%s] [event:%s]",
		event.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
		event.Key.Group, event.Key.Process, event.DisplayPath, event.Kind)
	if event.ExitCode != nil {
		out += fmt.Sprintf(" [code:%d]", *event.ExitCode)
	}
	if event.Message != "" {
		out += " " + event.Message
	}
	_, _ = c.Fprintln(s.out, out)
}
