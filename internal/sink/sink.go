// Package sink defines the Output Sink Interface the supervision runtime
// writes to, plus three implementations: a direct console writer, an
// in-memory per-process chunked buffer, and a Redis Stream publisher.
//
// Implementations must be safe for concurrent Write/WriteEvent calls from
// many producers. The implementations here write synchronously on the
// caller's goroutine: ConsoleSink blocks on its io.Writer, and RedisSink
// blocks on each XADD for up to 2 seconds.
package sink

import "github.com/itexoft/procvd/internal/procmodel"

// Sink consumes per-line output and lifecycle events. Both methods are
// expected to return quickly from the supervisor's point of view;
// back-pressure is the sink's concern.
type Sink interface {
	Write(line procmodel.OutputLine)
	WriteEvent(event procmodel.OutputEvent)
}

// Multi fans every call out to all underlying sinks in registration order.
// Used to combine, e.g., a ConsoleSink with a BufferSink.
type Multi []Sink

func (m Multi) Write(line procmodel.OutputLine) {
	for _, s := range m {
		s.Write(line)
	}
}

func (m Multi) WriteEvent(event procmodel.OutputEvent) {
	for _, s := range m {
		s.WriteEvent(event)
	}
}
