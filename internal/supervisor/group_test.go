package supervisor

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/itexoft/procvd/internal/procmodel"
	"github.com/itexoft/procvd/internal/sink"
)

// scriptedExecutor drives a per-key sequence of canned behaviors so
// tests can assert restart counting without spawning real processes.
type scriptedExecutor struct {
	mu        sync.Mutex
	runCounts map[procmodel.ProcessKey]int
	behavior  func(key procmodel.ProcessKey, attempt int) procmodel.ExecutionResult
}

func newScriptedExecutor(behavior func(key procmodel.ProcessKey, attempt int) procmodel.ExecutionResult) *scriptedExecutor {
	return &scriptedExecutor{runCounts: make(map[procmodel.ProcessKey]int), behavior: behavior}
}

func (s *scriptedExecutor) Run(ctx context.Context, proc procmodel.ResolvedProcess, snk sink.Sink) procmodel.ExecutionResult {
	s.mu.Lock()
	s.runCounts[proc.Key]++
	attempt := s.runCounts[proc.Key]
	s.mu.Unlock()

	result := s.behavior(proc.Key, attempt)
	if result.IsCancelled {
		<-ctx.Done()
	}
	return result
}

func (s *scriptedExecutor) count(key procmodel.ProcessKey) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runCounts[key]
}

type noopSink struct{}

func (noopSink) Write(procmodel.OutputLine)       {}
func (noopSink) WriteEvent(procmodel.OutputEvent) {}

func TestGroupModeRestartsAllProcessesOnAnyExit(t *testing.T) {
	keyA := procmodel.ProcessKey{Group: "core", Process: "a"}
	keyB := procmodel.ProcessKey{Group: "core", Process: "b"}

	ex := newScriptedExecutor(func(key procmodel.ProcessKey, attempt int) procmodel.ExecutionResult {
		if key == keyA && attempt == 1 {
			code := 1
			return procmodel.ExecutionResult{ExitCode: &code}
		}
		return procmodel.ExecutionResult{IsCancelled: true}
	})

	group := procmodel.ResolvedProcessGroup{
		Name:          "core",
		RestartMode:   procmodel.RestartGroup,
		RestartPolicy: procmodel.RestartPolicy{RestartDelay: 5 * time.Millisecond},
		Processes: []procmodel.ResolvedProcess{
			{Key: keyA}, {Key: keyB},
		},
	}

	sup := NewGroupSupervisor(group, ex, noopSink{}, nil, zaptest.NewLogger(t))

	stopCtx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	sup.Run(stopCtx)

	if ex.count(keyA) < 2 {
		t.Fatalf("runCount(a) = %d, want >= 2", ex.count(keyA))
	}
	if ex.count(keyB) < 2 {
		t.Fatalf("runCount(b) = %d, want >= 2", ex.count(keyB))
	}
}

func TestProcessModeIsolatesRestarts(t *testing.T) {
	keyA := procmodel.ProcessKey{Group: "core", Process: "a"}
	keyB := procmodel.ProcessKey{Group: "core", Process: "b"}

	var mu sync.Mutex
	bDone := make(chan struct{})
	var bDoneOnce sync.Once

	ex := newScriptedExecutor(func(key procmodel.ProcessKey, attempt int) procmodel.ExecutionResult {
		if key == keyA {
			code := 1
			return procmodel.ExecutionResult{ExitCode: &code}
		}
		mu.Lock()
		bDoneOnce.Do(func() { close(bDone) })
		mu.Unlock()
		return procmodel.ExecutionResult{IsCancelled: true}
	})

	group := procmodel.ResolvedProcessGroup{
		Name:          "core",
		RestartMode:   procmodel.RestartProcess,
		RestartPolicy: procmodel.RestartPolicy{RestartDelay: 5 * time.Millisecond},
		Processes: []procmodel.ResolvedProcess{
			{Key: keyA}, {Key: keyB},
		},
	}

	sup := NewGroupSupervisor(group, ex, noopSink{}, nil, zaptest.NewLogger(t))

	stopCtx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		sup.Run(stopCtx)
		close(done)
	}()

	<-bDone
	time.Sleep(30 * time.Millisecond)

	if ex.count(keyA) < 2 {
		t.Fatalf("runCount(a) = %d, want >= 2", ex.count(keyA))
	}
	if got := ex.count(keyB); got != 1 {
		t.Fatalf("runCount(b) = %d, want exactly 1", got)
	}

	<-done
}

func TestProcessModeRestartBudgetExhausted(t *testing.T) {
	key := procmodel.ProcessKey{Group: "main", Process: "fail"}
	var exitedCount, failedCount int
	var mu sync.Mutex

	ex := newScriptedExecutor(func(procmodel.ProcessKey, int) procmodel.ExecutionResult {
		code := 1
		return procmodel.ExecutionResult{ExitCode: &code}
	})

	countingSink := &countingEventSink{onEvent: func(e procmodel.OutputEvent) {
		mu.Lock()
		defer mu.Unlock()
		switch e.Kind {
		case procmodel.EventExited:
			exitedCount++
		case procmodel.EventFailed:
			failedCount++
		}
	}}

	maxRestarts := 2
	group := procmodel.ResolvedProcessGroup{
		Name:        "main",
		RestartMode: procmodel.RestartProcess,
		RestartPolicy: procmodel.RestartPolicy{
			MaxRestarts:  &maxRestarts,
			RestartDelay: 10 * time.Millisecond,
		},
		Processes: []procmodel.ResolvedProcess{{Key: key}},
	}

	sup := NewGroupSupervisor(group, &executorWrapper{inner: ex}, countingSink, nil, zaptest.NewLogger(t))

	stopCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	sup.Run(stopCtx)

	mu.Lock()
	defer mu.Unlock()
	if exitedCount != 3 {
		t.Fatalf("exitedCount = %d, want 3", exitedCount)
	}
	if failedCount != 1 {
		t.Fatalf("failedCount = %d, want 1", failedCount)
	}
}

// executorWrapper wraps scriptedExecutor to emit the terminal events a
// real DefaultExecutor would, since the Group Supervisor itself never
// emits Exited/Stopped events — only the executor does.
type executorWrapper struct {
	inner *scriptedExecutor
}

func (w *executorWrapper) Run(ctx context.Context, proc procmodel.ResolvedProcess, snk sink.Sink) procmodel.ExecutionResult {
	result := w.inner.Run(ctx, proc, snk)
	kind := procmodel.EventExited
	if result.IsCancelled {
		kind = procmodel.EventStopped
	}
	snk.WriteEvent(procmodel.OutputEvent{Key: proc.Key, Kind: kind, ExitCode: result.ExitCode})
	return result
}

type countingEventSink struct {
	onEvent func(procmodel.OutputEvent)
}

func (countingEventSink) Write(procmodel.OutputLine) {}
func (c countingEventSink) WriteEvent(e procmodel.OutputEvent) {
	c.onEvent(e)
}
