package depgraph

import (
	"reflect"
	"testing"
)

func TestBuildTopologicalOrderAndDependents(t *testing.T) {
	names := []string{"api", "core", "db", "worker"}
	deps := map[string][]string{
		"api":    {"core"},
		"worker": {"core", "db"},
		"db":     {},
		"core":   {},
	}

	g, err := Build(names, func(n string) []string { return deps[n] })
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	pos := make(map[string]int, len(g.StartOrder))
	for i, n := range g.StartOrder {
		pos[n] = i
	}
	for group, ds := range deps {
		for _, d := range ds {
			if pos[d] >= pos[group] {
				t.Fatalf("dependency %q must precede %q in start order %v", d, group, g.StartOrder)
			}
		}
	}

	if got := g.Dependents["core"]; !reflect.DeepEqual(got, []string{"api", "worker"}) {
		t.Fatalf("Dependents[core] = %v, want [api worker]", got)
	}
	if got := g.Dependents["db"]; !reflect.DeepEqual(got, []string{"worker"}) {
		t.Fatalf("Dependents[db] = %v, want [worker]", got)
	}
}

func TestBuildDeterministicTieBreak(t *testing.T) {
	names := []string{"zeta", "alpha", "mu"}
	deps := map[string][]string{"zeta": nil, "alpha": nil, "mu": nil}

	g1, err := Build(names, func(n string) []string { return deps[n] })
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{"alpha", "mu", "zeta"}
	if !reflect.DeepEqual(g1.StartOrder, want) {
		t.Fatalf("StartOrder = %v, want %v", g1.StartOrder, want)
	}

	g2, err := Build(names, func(n string) []string { return deps[n] })
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reflect.DeepEqual(g1.StartOrder, g2.StartOrder) {
		t.Fatalf("StartOrder not deterministic across calls: %v vs %v", g1.StartOrder, g2.StartOrder)
	}
}

func TestBuildCycleDetected(t *testing.T) {
	names := []string{"a", "b"}
	deps := map[string][]string{"a": {"b"}, "b": {"a"}}

	_, err := Build(names, func(n string) []string { return deps[n] })
	if err == nil {
		t.Fatal("expected CycleDetectedError")
	}
	var cycleErr *CycleDetectedError
	if !isCycleErr(err, &cycleErr) {
		t.Fatalf("expected *CycleDetectedError, got %T: %v", err, err)
	}
}

func TestBuildUnknownDependency(t *testing.T) {
	names := []string{"a"}
	deps := map[string][]string{"a": {"ghost"}}

	_, err := Build(names, func(n string) []string { return deps[n] })
	if err == nil {
		t.Fatal("expected UnknownDependencyError")
	}
	if _, ok := err.(*UnknownDependencyError); !ok {
		t.Fatalf("expected *UnknownDependencyError, got %T: %v", err, err)
	}
}

func isCycleErr(err error, target **CycleDetectedError) bool {
	ce, ok := err.(*CycleDetectedError)
	if ok {
		*target = ce
	}
	return ok
}
