package supervisor

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/itexoft/procvd/internal/depgraph"
	"github.com/itexoft/procvd/internal/executor"
	"github.com/itexoft/procvd/internal/procmodel"
	"github.com/itexoft/procvd/internal/sink"
)

// TopLevelSupervisor owns every Group Supervisor for a resolved config
// and wires cross-group restart propagation per spec.md §4.6.
//
// Grounded on the teacher's ProcessManager, which fans a map of
// supervised units out to independent goroutines; here the fan-out uses
// golang.org/x/sync/errgroup (already a teacher dependency) instead of a
// bare sync.WaitGroup, since no per-group error needs swallowing the
// way the teacher's pipe-drain goroutines do.
type TopLevelSupervisor struct {
	graph       *depgraph.Graph
	supervisors map[string]*GroupSupervisor
	startOrder  []string
	log         *zap.Logger
}

// NewTopLevelSupervisor builds one GroupSupervisor per group in cfg and
// subscribes each one's Restarting notifications to its dependents,
// per spec.md §4.6: on every Restarting fire, look up Dependents[group]
// and call RequestRestart on each, without awaiting the effect.
func NewTopLevelSupervisor(cfg *procmodel.ResolvedProcessConfig, graph *depgraph.Graph, ex executor.Executor, snk sink.Sink, log *zap.Logger) *TopLevelSupervisor {
	top := &TopLevelSupervisor{
		graph:       graph,
		supervisors: make(map[string]*GroupSupervisor, len(cfg.Groups)),
		startOrder:  graph.StartOrder,
		log:         log.Named("toplevel"),
	}

	for name, group := range cfg.Groups {
		groupName := name
		onRestart := func(restartedGroup string, reason RestartReason) {
			top.propagate(restartedGroup, reason)
		}
		top.supervisors[groupName] = NewGroupSupervisor(group, ex, snk, onRestart, log)
	}

	return top
}

// propagate notifies every direct dependent of restartedGroup that it
// should restart. Propagation is one-hop: transitive propagation
// happens because each dependent's own Restarting event will, in turn,
// invoke this same function.
func (t *TopLevelSupervisor) propagate(restartedGroup string, reason RestartReason) {
	for _, dependent := range t.graph.Dependents[restartedGroup] {
		sup, ok := t.supervisors[dependent]
		if !ok {
			continue
		}
		t.log.Debug("propagating restart",
			zap.String("from", restartedGroup),
			zap.String("to", dependent),
			zap.String("reason", reason.String()))
		sup.RequestRestart()
	}
}

// RequestRestart asks the named group's supervisor to restart, the same
// path cross-group propagation uses. Returns false if no such group
// exists.
func (t *TopLevelSupervisor) RequestRestart(groupName string) bool {
	sup, ok := t.supervisors[groupName]
	if !ok {
		return false
	}
	sup.RequestRestart()
	return true
}

// GroupNames returns every supervised group name, in start order.
func (t *TopLevelSupervisor) GroupNames() []string {
	return append([]string(nil), t.startOrder...)
}

// Run launches every group supervisor's Run concurrently, in the
// graph's start order (a dispatch hint only), and returns once all of
// them have returned.
func (t *TopLevelSupervisor) Run(stopToken context.Context) error {
	var g errgroup.Group

	for _, name := range t.startOrder {
		sup := t.supervisors[name]
		g.Go(func() error {
			sup.Run(stopToken)
			return nil
		})
	}

	return g.Wait()
}
