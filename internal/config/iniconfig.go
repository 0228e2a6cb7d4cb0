package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/itexoft/procvd/pkg/jsonx"
)

// iniEnvUnset is the sentinel value that marks an "env.NAME" key as an
// explicit unset rather than a value, since INI has no null literal.
const iniEnvUnset = "~unset~"

// Section naming convention for the INI loader:
//
//	[defaults]                     cascading settings shared by every group
//	[groupset.<name>]              cascading settings for one group-set
//	[group.<name>]                 cascading settings plus groupSets/dependencies for one group
//	[process.<group>.<name>]       one process within <group>
//
// Comma-separated lists (args, groupSets, dependencies) are split by
// splitCSV, which trims each item and drops empty ones. Per-variable environment overrides are "env.NAME"
// keys within a group/process/group-set/defaults section; the value
// iniEnvUnset marks an explicit unset.
func LoadINI(path string) (*RawConfig, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load ini config %s: %w", path, err)
	}
	return DecodeINI(cfg)
}

// DecodeINI builds a RawConfig from an already-loaded ini.File, used
// directly by tests and by LoadINI.
func DecodeINI(cfg *ini.File) (*RawConfig, error) {
	raw := &RawConfig{
		GroupSets: make(map[string]RawLevel),
		Groups:    make(map[string]RawGroup),
	}

	if main, err := cfg.GetSection(ini.DefaultSection); err == nil {
		raw.BaseDirectory = main.Key("baseDirectory").String()
	}

	if s, err := cfg.GetSection("defaults"); err == nil {
		raw.Defaults = levelFromSection(s)
	}

	groupProcesses := make(map[string]map[string]RawProcess)

	for _, s := range cfg.Sections() {
		name := s.Name()
		switch {
		case strings.HasPrefix(name, "groupset."):
			setName := strings.TrimPrefix(name, "groupset.")
			raw.GroupSets[setName] = levelFromSection(s)

		case strings.HasPrefix(name, "group."):
			groupName := strings.TrimPrefix(name, "group.")
			g := RawGroup{
				RawLevel:     levelFromSection(s),
				GroupSets:    splitCSV(s.Key("groupSets").String()),
				Dependencies: splitCSV(s.Key("dependencies").String()),
				Processes:    make(map[string]RawProcess),
			}
			raw.Groups[groupName] = g

		case strings.HasPrefix(name, "process."):
			rest := strings.TrimPrefix(name, "process.")
			idx := strings.Index(rest, ".")
			if idx < 0 {
				return nil, fmt.Errorf("invalid process section %q: expected process.<group>.<name>", name)
			}
			groupName, procName := rest[:idx], rest[idx+1:]

			proc := RawProcess{
				RawLevel: levelFromSection(s),
				Path:     s.Key("path").String(),
				Command:  s.Key("command").String(),
				Args:     splitCSV(s.Key("args").String()),
			}
			if groupProcesses[groupName] == nil {
				groupProcesses[groupName] = make(map[string]RawProcess)
			}
			groupProcesses[groupName][procName] = proc
		}
	}

	for groupName, procs := range groupProcesses {
		g, ok := raw.Groups[groupName]
		if !ok {
			g = RawGroup{Processes: make(map[string]RawProcess)}
		}
		for pname, p := range procs {
			g.Processes[pname] = p
		}
		raw.Groups[groupName] = g
	}

	if err := Validate(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func levelFromSection(s *ini.Section) RawLevel {
	var level RawLevel

	if s.HasKey("restartMode") {
		v := s.Key("restartMode").String()
		level.RestartMode = &v
	}
	if s.HasKey("workingDirectory") {
		v := s.Key("workingDirectory").String()
		level.WorkingDirectory = &v
	}
	if s.HasKey("outputMode") {
		v := s.Key("outputMode").String()
		level.OutputMode = &v
	}
	if s.HasKey("outputDir") {
		v := s.Key("outputDir").String()
		level.OutputDir = &v
	}
	if s.HasKey("outputMaxBytes") {
		v, _ := s.Key("outputMaxBytes").Int64()
		level.OutputMaxBytes = &v
	}
	if s.HasKey("outputMaxFiles") {
		v, _ := s.Key("outputMaxFiles").Int()
		level.OutputMaxFiles = &v
	}
	if s.HasKey("maxRestarts") || s.HasKey("restartDelayMs") {
		policy := &RawRestartPolicy{}
		if s.HasKey("maxRestarts") {
			raw := s.Key("maxRestarts").String()
			policy.MaxRestarts = maxRestartsField(raw)
		}
		if s.HasKey("restartDelayMs") {
			v, _ := s.Key("restartDelayMs").Int64()
			policy.RestartDelayMS = &v
		}
		level.RestartPolicy = policy
	}

	env := envFromSection(s)
	if len(env) > 0 {
		level.Env = env
	}

	return level
}

// maxRestartsField parses the INI string form of maxRestarts into the
// tri-state jsonx.Field: empty string means explicitly unlimited (INI
// has no null, so an empty value plays that role here), anything else
// is decoded as a JSON integer. A value that does not decode leaves the
// field unset (inherited) without an error, and the sign is not checked.
func maxRestartsField(raw string) jsonx.Field[int] {
	var field jsonx.Field[int]
	if raw == "" {
		_ = field.UnmarshalJSON([]byte("null"))
		return field
	}
	_ = field.UnmarshalJSON([]byte(raw))
	return field
}

func envFromSection(s *ini.Section) map[string]jsonx.Field[string] {
	var env map[string]jsonx.Field[string]
	for _, k := range s.Keys() {
		name, ok := strings.CutPrefix(k.Name(), "env.")
		if !ok {
			continue
		}
		if env == nil {
			env = make(map[string]jsonx.Field[string])
		}
		var field jsonx.Field[string]
		if k.String() == iniEnvUnset {
			_ = field.UnmarshalJSON([]byte("null"))
		} else {
			_ = field.UnmarshalJSON([]byte(strconv.Quote(k.String())))
		}
		env[name] = field
	}
	return env
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
