package supervisor

import (
	"context"
	"sync"
	"time"

	"github.com/itexoft/procvd/internal/procmodel"
)

// runProcessMode implements spec.md §4.5.2: each process restarts
// independently under its own local budget; only an external restart
// request or stopToken tears down the whole group.
func (g *GroupSupervisor) runProcessMode(runCtx context.Context, stopToken context.Context) *RestartReason {
	var wg sync.WaitGroup
	wg.Add(len(g.group.Processes))

	for i := range g.group.Processes {
		proc := g.group.Processes[i]
		go func() {
			defer wg.Done()
			g.runProcessLoop(runCtx, proc)
		}()
	}

	wg.Wait()

	if stopToken.Err() != nil {
		return nil
	}
	if runCtx.Err() != nil {
		r := ReasonExternalRequest
		return &r
	}
	return nil
}

// runProcessLoop repeatedly runs one process until it is cancelled or
// exhausts the group's restart budget.
func (g *GroupSupervisor) runProcessLoop(runCtx context.Context, proc procmodel.ResolvedProcess) {
	restartCount := 0
	for {
		result := g.executor.Run(runCtx, proc, g.sink)
		if runCtx.Err() != nil || result.IsCancelled {
			return
		}

		if g.group.RestartPolicy.Exhausted(restartCount) {
			g.emitProcessFailed(proc, "restart limit reached")
			return
		}
		restartCount++

		select {
		case <-runCtx.Done():
			return
		case <-time.After(g.group.RestartPolicy.RestartDelay):
		}
	}
}
