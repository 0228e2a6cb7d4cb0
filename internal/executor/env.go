package executor

import (
	"os"
	"strings"

	"github.com/itexoft/procvd/internal/procmodel"
)

// buildEnv starts from the supervisor's own environment and applies the
// process's declared overrides: EnvValue.Unset removes the variable
// entirely regardless of what the parent carries, otherwise the
// variable is set (or overridden) to EnvValue.Value. Grounded on the
// teacher's NewProcessManager, which also built each child's env by
// appending overrides onto os.Environ() rather than replacing it.
func buildEnv(overrides map[string]procmodel.EnvValue) []string {
	base := os.Environ()
	if len(overrides) == 0 {
		return base
	}

	result := make([]string, 0, len(base)+len(overrides))
	unset := make(map[string]bool, len(overrides))
	for name, v := range overrides {
		if v.Unset {
			unset[name] = true
		}
	}

	for _, kv := range base {
		name := kv
		if idx := strings.IndexByte(kv, '='); idx >= 0 {
			name = kv[:idx]
		}
		if _, overridden := overrides[name]; overridden {
			continue
		}
		result = append(result, kv)
	}

	for name, v := range overrides {
		if v.Unset {
			continue
		}
		result = append(result, name+"="+v.Value)
	}

	return result
}
