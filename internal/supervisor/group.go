// Package supervisor implements the Group Supervisor and Top-Level
// Supervisor state machines from spec.md §4.5-§4.6: the per-group
// run/restart loop, its two restart-mode variants, and the
// cross-group restart propagation that fans a group's Restarting
// event out to its dependents.
//
// Grounded on the teacher's ProcessManager.Start/Stop
// (internal/infrastructure/processmgr/process_manager.go), which also
// keeps one cancellable context per supervised unit behind a mutex and
// tears down via that context rather than a signal channel; generalized
// here from "one process per id" to "one executor race (or per-process
// loop) per group", and from a single cancel-on-Stop operation to the
// two-level stopToken/runToken hierarchy spec.md §5 requires.
package supervisor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/itexoft/procvd/internal/executor"
	"github.com/itexoft/procvd/internal/procmodel"
	"github.com/itexoft/procvd/internal/sink"
)

// RestartReason classifies why a group is about to restart.
type RestartReason int

const (
	// ReasonProcessExit: a process exited (or failed) naturally.
	ReasonProcessExit RestartReason = iota
	// ReasonExternalRequest: RequestRestart was called.
	ReasonExternalRequest
)

func (r RestartReason) String() string {
	if r == ReasonExternalRequest {
		return "external_request"
	}
	return "process_exit"
}

// RestartingHandler is invoked synchronously each time a group is about
// to restart. Implementations must not block: per spec.md §5, the
// handler's effect (dependent teardown and re-spawn) is asynchronous
// even though the call itself is synchronous.
type RestartingHandler func(groupName string, reason RestartReason)

// GroupSupervisor owns one group's run/restart lifecycle.
type GroupSupervisor struct {
	group     procmodel.ResolvedProcessGroup
	executor  executor.Executor
	sink      sink.Sink
	onRestart RestartingHandler
	log       *zap.Logger

	mu                sync.Mutex
	runCancel         context.CancelFunc
	restartRequested  bool
	groupRestartCount int
}

// NewGroupSupervisor creates a GroupSupervisor for group. onRestart may
// be nil (no dependents to notify).
func NewGroupSupervisor(group procmodel.ResolvedProcessGroup, ex executor.Executor, snk sink.Sink, onRestart RestartingHandler, log *zap.Logger) *GroupSupervisor {
	return &GroupSupervisor{
		group:     group,
		executor:  ex,
		sink:      snk,
		onRestart: onRestart,
		log:       log.Named("supervisor").With(zap.String("group", group.Name)),
	}
}

// Run executes the main loop from spec.md §4.5 until stopToken is
// tripped or the group's restart budget is exhausted.
func (g *GroupSupervisor) Run(stopToken context.Context) {
	g.groupRestartCount = 0
	for stopToken.Err() == nil {
		runCtx, cancel := context.WithCancel(stopToken)

		g.mu.Lock()
		g.runCancel = cancel
		if g.restartRequested {
			g.restartRequested = false
			cancel()
		}
		g.mu.Unlock()

		var reason *RestartReason
		switch g.group.RestartMode {
		case procmodel.RestartGroup:
			reason = g.runGroupMode(runCtx, stopToken)
		default:
			reason = g.runProcessMode(runCtx, stopToken)
		}

		g.mu.Lock()
		g.runCancel = nil
		g.mu.Unlock()

		if stopToken.Err() != nil || reason == nil {
			return
		}

		if g.group.RestartPolicy.Exhausted(g.groupRestartCount) {
			g.emitGroupEvent(procmodel.EventFailed, "restart limit reached")
			return
		}
		g.groupRestartCount++

		g.emitGroupEvent(procmodel.EventRestarting, "")
		if g.onRestart != nil {
			g.onRestart(g.group.Name, *reason)
		}

		select {
		case <-stopToken.Done():
			return
		case <-time.After(g.group.RestartPolicy.RestartDelay):
		}
	}
}

// RequestRestart implements spec.md §4.5.3: trip the current run token,
// or, if the supervisor is idle between iterations, flag the restart so
// the next iteration starts already tripped.
func (g *GroupSupervisor) RequestRestart() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.runCancel == nil {
		g.restartRequested = true
		return
	}
	g.runCancel()
}

func (g *GroupSupervisor) emitGroupEvent(kind procmodel.EventKind, message string) {
	g.sink.WriteEvent(procmodel.OutputEvent{
		Key:         procmodel.GroupKey(g.group.Name),
		DisplayPath: g.group.Name,
		Kind:        kind,
		Timestamp:   time.Now(),
		Message:     message,
	})
}

func (g *GroupSupervisor) emitProcessFailed(proc procmodel.ResolvedProcess, message string) {
	g.sink.WriteEvent(procmodel.OutputEvent{
		Key:         proc.Key,
		DisplayPath: proc.DisplayPath,
		Kind:        procmodel.EventFailed,
		Timestamp:   time.Now(),
		Message:     message,
	})
}
