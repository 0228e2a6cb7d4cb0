// Package config loads a ResolvedProcessConfig from JSON or INI input.
// Both loaders decode into the same raw model (RawConfig) and share one
// merge routine: defaults → group-set (alphabetical) → group → process,
// matching spec.md §6's description of what a config loader must do
// before handing the runtime a ResolvedProcessConfig.
package config

import "github.com/itexoft/procvd/pkg/jsonx"

// RawRestartPolicy mirrors procmodel.RestartPolicy at the raw-config
// level. MaxRestarts uses jsonx.Field so a cascading level can
// distinguish "not specified here, inherit" (unset) from "explicitly
// unlimited" (null) from "explicitly bounded" (a value) — the exact
// tri-state spec.md §3 calls for on the resolved MaxRestarts field
// itself, pushed one layer earlier so merging can tell inheritance from
// override.
type RawRestartPolicy struct {
	MaxRestarts    jsonx.Field[int] `json:"maxRestarts"`
	RestartDelayMS *int64           `json:"restartDelayMs,omitempty" validate:"omitempty,min=0"`
}

// RawLevel is the set of settings that cascade through
// defaults → group-set → group → process. A nil field means "not
// specified at this level"; mergeLevel overlays non-nil override fields
// onto a base.
type RawLevel struct {
	RestartMode      *string                        `json:"restartMode,omitempty" validate:"omitempty,oneof=process group"`
	RestartPolicy    *RawRestartPolicy               `json:"restartPolicy,omitempty"`
	WorkingDirectory *string                        `json:"workingDirectory,omitempty"`
	Env              map[string]jsonx.Field[string] `json:"env,omitempty"`
	OutputMode       *string                        `json:"outputMode,omitempty" validate:"omitempty,oneof=inherit file"`
	OutputDir        *string                        `json:"outputDir,omitempty"`
	OutputMaxBytes   *int64                         `json:"outputMaxBytes,omitempty" validate:"omitempty,min=0"`
	OutputMaxFiles   *int                           `json:"outputMaxFiles,omitempty" validate:"omitempty,min=1"`
}

// RawProcess is one process definition nested under a group. Exactly one
// of Command or Path must be set; Resolve checks this (resolveProcess in
// merge.go) and returns a ProcessDefinitionError otherwise.
type RawProcess struct {
	RawLevel
	Path    string   `json:"path,omitempty"`
	Args    []string `json:"args,omitempty"`
	Command string   `json:"command,omitempty"`
}

// RawGroup is one supervised group: its cascading settings plus the
// group-sets and dependencies it references and its processes.
type RawGroup struct {
	RawLevel
	GroupSets    []string              `json:"groupSets,omitempty"`
	Dependencies []string              `json:"dependencies,omitempty"`
	Processes    map[string]RawProcess `json:"processes" validate:"required,min=1,dive"`
}

// RawConfig is the full decoded input, before merge/resolve.
type RawConfig struct {
	BaseDirectory string              `json:"baseDirectory,omitempty"`
	Defaults      RawLevel            `json:"defaults,omitempty"`
	GroupSets     map[string]RawLevel `json:"groupSets,omitempty"`
	Groups        map[string]RawGroup `json:"groups" validate:"required,min=1,dive"`
}
