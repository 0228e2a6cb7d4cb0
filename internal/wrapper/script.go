// Package wrapper implements the Default Executor's file-mode wrapper
// script strategy: start-of-run log rotation plus generation of a small
// per-process launcher script that redirects the child's stdout/stderr
// to the active log file before exec'ing the real command.
//
// Grounded on the teacher's SystemdService, which generates a unit file
// from a text/template and writes it under mutex protection
// (services/systemd.go); the same template-then-write shape is reused
// here for a shell/batch launcher instead of a systemd unit.
package wrapper

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/itexoft/procvd/internal/procmodel"
)

// Prepared describes the outcome of preparing one file-mode invocation:
// the wrapper script to spawn and the tail start position a File Tailer
// should seed from.
type Prepared struct {
	ScriptPath  string
	TailStart   int64
	LogPath     string
	DisplayPath string
}

// Prepare performs steps 1-4 of the file-mode invocation sequence:
// ensure the log directory exists, rotate the log if it has grown past
// OutputMaxBytes, record the tail start position, and generate the
// platform wrapper script for proc into a sibling .procvd directory.
func Prepare(proc procmodel.ResolvedProcess) (*Prepared, error) {
	logDir := filepath.Dir(proc.OutputPath)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory %s: %w", logDir, err)
	}

	if err := Rotate(proc.OutputPath, proc.OutputMaxBytes, proc.OutputMaxFiles); err != nil {
		return nil, fmt.Errorf("rotate %s: %w", proc.OutputPath, err)
	}

	f, err := os.OpenFile(proc.OutputPath, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", proc.OutputPath, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat log %s: %w", proc.OutputPath, err)
	}
	tailStart := info.Size()
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close log %s: %w", proc.OutputPath, err)
	}

	wrapperDir := filepath.Join(logDir, ".procvd")
	if err := os.MkdirAll(wrapperDir, 0o755); err != nil {
		return nil, fmt.Errorf("create wrapper directory %s: %w", wrapperDir, err)
	}

	scriptName := Sanitize(proc.Key.Group) + "." + Sanitize(proc.Key.Process) + scriptExtension()
	scriptPath := filepath.Join(wrapperDir, scriptName)

	content := buildScript(proc)
	if err := os.WriteFile(scriptPath, []byte(content), scriptMode()); err != nil {
		return nil, fmt.Errorf("write wrapper script %s: %w", scriptPath, err)
	}

	return &Prepared{
		ScriptPath:  scriptPath,
		TailStart:   tailStart,
		LogPath:     proc.OutputPath,
		DisplayPath: proc.DisplayPath,
	}, nil
}
