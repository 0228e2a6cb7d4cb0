package sink

import (
	"sync"

	"github.com/itexoft/procvd/internal/procmodel"
)

// ringBuffer is a fixed-capacity circular buffer of output lines with O(1)
// append and O(n) read, adapted from the teacher's log_buffer.go.
type ringBuffer struct {
	mu      sync.RWMutex
	entries []procmodel.OutputLine
	head    int
	size    int
	full    bool
}

func newRingBuffer(capacity int) *ringBuffer {
	if capacity <= 0 {
		capacity = 500
	}
	return &ringBuffer{entries: make([]procmodel.OutputLine, capacity)}
}

func (b *ringBuffer) append(line procmodel.OutputLine) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capN := len(b.entries)
	b.entries[b.head] = line
	b.head = (b.head + 1) % capN
	if b.full {
		return
	}
	b.size++
	if b.size == capN {
		b.full = true
	}
}

// snapshot returns up to `lines` most recent entries, oldest → newest.
// lines <= 0 returns everything buffered.
func (b *ringBuffer) snapshot(lines int) []procmodel.OutputLine {
	b.mu.RLock()
	defer b.mu.RUnlock()

	capN := len(b.entries)
	if b.size == 0 {
		return nil
	}
	if lines <= 0 || lines > b.size {
		lines = b.size
	}

	result := make([]procmodel.OutputLine, lines)
	var newest int
	if b.full {
		newest = (b.head - 1 + capN) % capN
	} else {
		newest = b.size - 1
	}
	for i := 0; i < lines; i++ {
		idx := (newest - i + capN) % capN
		result[lines-1-i] = b.entries[idx]
	}
	return result
}

// BufferSink keeps a bounded in-memory ring buffer of recent output lines
// and the last terminal/lifecycle event per ProcessKey, used by the
// optional HTTP status API to serve recent output without a live
// subscription. Adapted from the teacher's log_manager.go per-PID buffer
// registry, keyed on ProcessKey instead of PID.
type BufferSink struct {
	mu          sync.RWMutex
	perKeyLines map[procmodel.ProcessKey]*ringBuffer
	lastEvent   map[procmodel.ProcessKey]procmodel.OutputEvent
	lineCap     int
}

// NewBufferSink creates a BufferSink retaining up to lineCap lines per
// ProcessKey (0 defaults to 500, matching the teacher's ring buffer).
func NewBufferSink(lineCap int) *BufferSink {
	return &BufferSink{
		perKeyLines: make(map[procmodel.ProcessKey]*ringBuffer),
		lastEvent:   make(map[procmodel.ProcessKey]procmodel.OutputEvent),
		lineCap:     lineCap,
	}
}

func (s *BufferSink) Write(line procmodel.OutputLine) {
	s.mu.Lock()
	buf, ok := s.perKeyLines[line.Key]
	if !ok {
		buf = newRingBuffer(s.lineCap)
		s.perKeyLines[line.Key] = buf
	}
	s.mu.Unlock()
	buf.append(line)
}

func (s *BufferSink) WriteEvent(event procmodel.OutputEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastEvent[event.Key] = event
}

// RecentLines returns up to `lines` most recent buffered lines for key,
// oldest → newest. Returns nil if nothing has been buffered for key.
func (s *BufferSink) RecentLines(key procmodel.ProcessKey, lines int) []procmodel.OutputLine {
	s.mu.RLock()
	buf, ok := s.perKeyLines[key]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	return buf.snapshot(lines)
}

// LastEvent returns the most recent event seen for key, if any.
func (s *BufferSink) LastEvent(key procmodel.ProcessKey) (procmodel.OutputEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.lastEvent[key]
	return ev, ok
}

// Snapshot returns the last known event for every key observed so far.
func (s *BufferSink) Snapshot() map[procmodel.ProcessKey]procmodel.OutputEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[procmodel.ProcessKey]procmodel.OutputEvent, len(s.lastEvent))
	for k, v := range s.lastEvent {
		out[k] = v
	}
	return out
}
