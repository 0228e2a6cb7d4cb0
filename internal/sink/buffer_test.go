package sink

import (
	"testing"
	"time"

	"github.com/itexoft/procvd/internal/procmodel"
)

func testKey() procmodel.ProcessKey {
	return procmodel.ProcessKey{Group: "web", Process: "app"}
}

func TestBufferSinkRecentLinesOrderAndCap(t *testing.T) {
	s := NewBufferSink(3)
	key := testKey()

	for i := 0; i < 5; i++ {
		s.Write(procmodel.OutputLine{
			Key:       key,
			Stream:    procmodel.StreamStdout,
			Line:      string(rune('a' + i)),
			Timestamp: time.Unix(int64(i), 0),
		})
	}

	got := s.RecentLines(key, 0)
	if len(got) != 3 {
		t.Fatalf("expected buffer capped at 3 entries, got %d", len(got))
	}
	want := []string{"c", "d", "e"}
	for i, line := range got {
		if line.Line != want[i] {
			t.Fatalf("entry %d = %q, want %q", i, line.Line, want[i])
		}
	}
}

func TestBufferSinkUnknownKeyReturnsNil(t *testing.T) {
	s := NewBufferSink(10)
	if got := s.RecentLines(testKey(), 5); got != nil {
		t.Fatalf("expected nil for unbuffered key, got %v", got)
	}
}

func TestBufferSinkLastEvent(t *testing.T) {
	s := NewBufferSink(10)
	key := testKey()

	if _, ok := s.LastEvent(key); ok {
		t.Fatal("expected no event before any WriteEvent call")
	}

	s.WriteEvent(procmodel.OutputEvent{Key: key, Kind: procmodel.EventStarting, Timestamp: time.Unix(1, 0)})
	s.WriteEvent(procmodel.OutputEvent{Key: key, Kind: procmodel.EventExited, Timestamp: time.Unix(2, 0)})

	ev, ok := s.LastEvent(key)
	if !ok || ev.Kind != procmodel.EventExited {
		t.Fatalf("expected last event to be EventExited, got %+v ok=%v", ev, ok)
	}

	snap := s.Snapshot()
	if len(snap) != 1 || snap[key].Kind != procmodel.EventExited {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
