package config

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/itexoft/procvd/internal/procmodel"
	"github.com/itexoft/procvd/internal/wrapper"
	"github.com/itexoft/procvd/pkg/jsonx"
)

const defaultOutputSubdir = "logs"

// mergeLevel overlays override's set fields onto base, returning a new
// RawLevel. base is left unmodified.
func mergeLevel(base, override RawLevel) RawLevel {
	result := base

	if override.RestartMode != nil {
		result.RestartMode = override.RestartMode
	}
	if override.RestartPolicy != nil {
		merged := RawRestartPolicy{}
		if result.RestartPolicy != nil {
			merged = *result.RestartPolicy
		}
		if override.RestartPolicy.MaxRestarts.IsSet() {
			merged.MaxRestarts = override.RestartPolicy.MaxRestarts
		}
		if override.RestartPolicy.RestartDelayMS != nil {
			merged.RestartDelayMS = override.RestartPolicy.RestartDelayMS
		}
		result.RestartPolicy = &merged
	}
	if override.WorkingDirectory != nil {
		result.WorkingDirectory = override.WorkingDirectory
	}
	if override.Env != nil {
		merged := make(map[string]jsonx.Field[string], len(result.Env)+len(override.Env))
		for k, v := range result.Env {
			merged[k] = v
		}
		for k, v := range override.Env {
			merged[k] = v
		}
		result.Env = merged
	}
	if override.OutputMode != nil {
		result.OutputMode = override.OutputMode
	}
	if override.OutputDir != nil {
		result.OutputDir = override.OutputDir
	}
	if override.OutputMaxBytes != nil {
		result.OutputMaxBytes = override.OutputMaxBytes
	}
	if override.OutputMaxFiles != nil {
		result.OutputMaxFiles = override.OutputMaxFiles
	}
	return result
}

// Resolve merges defaults → group-set (alphabetical) → group → process
// for every group and process in raw, and returns the immutable
// ResolvedProcessConfig the supervision runtime consumes.
func Resolve(raw *RawConfig) (*procmodel.ResolvedProcessConfig, error) {
	baseDir := raw.BaseDirectory
	if baseDir == "" {
		baseDir = "."
	}
	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]procmodel.ResolvedProcessGroup, len(raw.Groups))
	groupNames := make([]string, 0, len(raw.Groups))
	for name := range raw.Groups {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	for _, name := range groupNames {
		rawGroup := raw.Groups[name]

		level := raw.Defaults
		setNames := append([]string(nil), rawGroup.GroupSets...)
		sort.Strings(setNames)
		for _, setName := range setNames {
			gs, ok := raw.GroupSets[setName]
			if !ok {
				return nil, &UnknownGroupSetError{Group: name, GroupSet: setName}
			}
			level = mergeLevel(level, gs)
		}
		level = mergeLevel(level, rawGroup.RawLevel)

		restartMode := procmodel.RestartProcess
		if level.RestartMode != nil && *level.RestartMode == "group" {
			restartMode = procmodel.RestartGroup
		}

		var maxRestarts *int
		if level.RestartPolicy != nil {
			if v, ok := level.RestartPolicy.MaxRestarts.Value(); ok {
				maxRestarts = &v
			}
		}
		restartDelay := time.Duration(0)
		if level.RestartPolicy != nil && level.RestartPolicy.RestartDelayMS != nil {
			restartDelay = time.Duration(*level.RestartPolicy.RestartDelayMS) * time.Millisecond
		}

		processNames := make([]string, 0, len(rawGroup.Processes))
		for pname := range rawGroup.Processes {
			processNames = append(processNames, pname)
		}
		sort.Strings(processNames)

		processes := make([]procmodel.ResolvedProcess, 0, len(processNames))
		for _, pname := range processNames {
			rawProc := rawGroup.Processes[pname]
			procLevel := mergeLevel(level, rawProc.RawLevel)

			resolved, err := resolveProcess(absBaseDir, name, pname, rawProc, procLevel)
			if err != nil {
				return nil, err
			}
			processes = append(processes, resolved)
		}

		groups[name] = procmodel.ResolvedProcessGroup{
			Name:          name,
			RestartMode:   restartMode,
			RestartPolicy: procmodel.RestartPolicy{MaxRestarts: maxRestarts, RestartDelay: restartDelay},
			Dependencies:  append([]string(nil), rawGroup.Dependencies...),
			Processes:     processes,
		}
	}

	return &procmodel.ResolvedProcessConfig{BaseDirectory: absBaseDir, Groups: groups}, nil
}

func resolveProcess(baseDir, groupName, procName string, raw RawProcess, level RawLevel) (procmodel.ResolvedProcess, error) {
	key := procmodel.ProcessKey{Group: groupName, Process: procName}

	hasCommand := raw.Command != ""
	hasPath := raw.Path != ""
	switch {
	case hasCommand == hasPath:
		reason := "exactly one of \"command\" or \"path\" must be set"
		return procmodel.ResolvedProcess{}, &ProcessDefinitionError{Group: groupName, Process: procName, Reason: reason}
	}

	workDir := baseDir
	if level.WorkingDirectory != nil {
		workDir = resolvePath(baseDir, *level.WorkingDirectory)
	}

	var executablePath, displayPath, shellCommand string
	if hasCommand {
		shellCommand = raw.Command
		displayPath = raw.Command
	} else {
		executablePath = resolvePath(baseDir, raw.Path)
		displayPath = raw.Path
	}

	outputMode := procmodel.OutputInherit
	if level.OutputMode != nil && *level.OutputMode == "file" {
		outputMode = procmodel.OutputFile
	}

	var outputPath string
	var outputMaxBytes int64
	var outputMaxFiles int
	if outputMode == procmodel.OutputFile {
		outputDir := filepath.Join(baseDir, defaultOutputSubdir)
		if level.OutputDir != nil {
			outputDir = resolvePath(baseDir, *level.OutputDir)
		}
		outputPath = filepath.Join(outputDir, wrapper.Sanitize(groupName), wrapper.Sanitize(procName)+".log")
		if level.OutputMaxBytes != nil {
			outputMaxBytes = *level.OutputMaxBytes
		}
		outputMaxFiles = 1
		if level.OutputMaxFiles != nil {
			outputMaxFiles = *level.OutputMaxFiles
		}
	}

	return procmodel.ResolvedProcess{
		Key:              key,
		ExecutablePath:   executablePath,
		DisplayPath:      displayPath,
		WorkingDirectory: workDir,
		Arguments:        append([]string(nil), raw.Args...),
		Environment:      resolveEnv(level.Env),
		ShellCommand:     shellCommand,
		OutputMode:       outputMode,
		OutputPath:       outputPath,
		OutputMaxBytes:   outputMaxBytes,
		OutputMaxFiles:   outputMaxFiles,
	}, nil
}

func resolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

func resolveEnv(env map[string]jsonx.Field[string]) map[string]procmodel.EnvValue {
	if len(env) == 0 {
		return nil
	}
	out := make(map[string]procmodel.EnvValue, len(env))
	for name, field := range env {
		if field.IsNull() {
			out[name] = procmodel.EnvValue{Unset: true}
			continue
		}
		v, ok := field.Value()
		if !ok {
			continue
		}
		out[name] = procmodel.EnvValue{Value: v}
	}
	return out
}
