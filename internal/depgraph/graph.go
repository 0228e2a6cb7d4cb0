// Package depgraph derives a deterministic start order and reverse
// dependency (dependents) index from a resolved process configuration.
package depgraph

import (
	"fmt"
	"sort"
)

// Graph holds the derived start order and reverse adjacency.
type Graph struct {
	// StartOrder is a topological order of group names, ties broken by
	// lexicographic ascending name.
	StartOrder []string
	// Dependents maps a group name to the sorted list of groups that
	// declare it as a dependency.
	Dependents map[string][]string
}

// UnknownDependencyError reports a Dependencies entry with no matching
// group.
type UnknownDependencyError struct {
	Group      string
	Dependency string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("group %q depends on unknown group %q", e.Group, e.Dependency)
}

// CycleDetectedError reports that the dependency graph contains a cycle.
// Remaining lists the groups that could not be ordered.
type CycleDetectedError struct {
	Remaining []string
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("dependency cycle detected among groups: %v", e.Remaining)
}

// Build computes the DependencyGraph for the given groups. names is the
// full set of group names; deps(name) returns that group's declared
// dependency names.
//
// Algorithm (spec.md §4.1): compute in-degrees, seed a min-ordered
// frontier with all zero-in-degree names, repeatedly extract the
// lexicographic minimum, append to StartOrder, decrement the in-degree of
// each dependent, and seed it once it reaches zero. If fewer names are
// emitted than exist, the remainder forms at least one cycle.
func Build(names []string, deps func(name string) []string) (*Graph, error) {
	nameSet := make(map[string]struct{}, len(names))
	for _, n := range names {
		nameSet[n] = struct{}{}
	}

	dependents := make(map[string][]string, len(names))
	inDegree := make(map[string]int, len(names))
	for _, n := range names {
		inDegree[n] = 0
	}

	for _, n := range names {
		for _, d := range deps(n) {
			if _, ok := nameSet[d]; !ok {
				return nil, &UnknownDependencyError{Group: n, Dependency: d}
			}
			dependents[d] = append(dependents[d], n)
			inDegree[n]++
		}
	}
	for d := range dependents {
		sort.Strings(dependents[d])
	}

	frontier := make([]string, 0, len(names))
	for _, n := range names {
		if inDegree[n] == 0 {
			frontier = append(frontier, n)
		}
	}
	sort.Strings(frontier)

	order := make([]string, 0, len(names))
	for len(frontier) > 0 {
		sort.Strings(frontier)
		next := frontier[0]
		frontier = frontier[1:]
		order = append(order, next)

		for _, dep := range dependents[next] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				frontier = append(frontier, dep)
			}
		}
	}

	if len(order) != len(names) {
		emitted := make(map[string]struct{}, len(order))
		for _, n := range order {
			emitted[n] = struct{}{}
		}
		remaining := make([]string, 0, len(names)-len(order))
		for _, n := range names {
			if _, ok := emitted[n]; !ok {
				remaining = append(remaining, n)
			}
		}
		sort.Strings(remaining)
		return nil, &CycleDetectedError{Remaining: remaining}
	}

	for _, n := range names {
		if _, ok := dependents[n]; !ok {
			dependents[n] = nil
		}
	}

	return &Graph{StartOrder: order, Dependents: dependents}, nil
}
