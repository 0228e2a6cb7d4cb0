package depgraph

import (
	"sort"

	"github.com/itexoft/procvd/internal/procmodel"
)

// FromConfig builds the DependencyGraph for a resolved process config.
func FromConfig(cfg *procmodel.ResolvedProcessConfig) (*Graph, error) {
	names := make([]string, 0, len(cfg.Groups))
	for name := range cfg.Groups {
		names = append(names, name)
	}
	sort.Strings(names)

	return Build(names, func(name string) []string {
		return cfg.Groups[name].Dependencies
	})
}
