package supervisor

import "context"

// runGroupMode implements spec.md §4.5.1: race all processes in the
// group, and on the first natural exit or failure, cancel runCtx to
// tear down the rest.
func (g *GroupSupervisor) runGroupMode(runCtx context.Context, stopToken context.Context) *RestartReason {
	type completion struct {
		isCancelled bool
	}

	total := len(g.group.Processes)
	results := make(chan completion, total)

	for i := range g.group.Processes {
		proc := g.group.Processes[i]
		go func() {
			res := g.executor.Run(runCtx, proc, g.sink)
			results <- completion{isCancelled: res.IsCancelled}
		}()
	}

	var reason *RestartReason
	received := 0

loop:
	for received < total {
		select {
		case <-stopToken.Done():
			reason = nil
			break loop
		case c := <-results:
			received++
			if !c.isCancelled {
				r := ReasonProcessExit
				reason = &r
				break loop
			}
			if runCtx.Err() != nil {
				r := ReasonExternalRequest
				reason = &r
				break loop
			}
			// else: cancellation wasn't ours yet (spurious/other); keep racing.
		}
	}

	g.cancelRun()

	for ; received < total; received++ {
		<-results
	}

	if reason == nil && stopToken.Err() == nil {
		r := ReasonExternalRequest
		reason = &r
	}
	return reason
}

// cancelRun trips the current run token so any sibling executions still
// racing are torn down.
func (g *GroupSupervisor) cancelRun() {
	g.mu.Lock()
	cancel := g.runCancel
	g.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
