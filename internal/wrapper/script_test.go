//go:build !windows

package wrapper

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itexoft/procvd/internal/procmodel"
)

func TestPrepareGeneratesExecutableWrapperAndRecordsTailStart(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "web", "main.log")

	proc := procmodel.ResolvedProcess{
		Key:              procmodel.ProcessKey{Group: "web", Process: "main"},
		ExecutablePath:   "/usr/bin/app",
		DisplayPath:      "/usr/bin/app",
		WorkingDirectory: dir,
		OutputMode:       procmodel.OutputFile,
		OutputPath:       logPath,
	}

	prepared, err := Prepare(proc)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if prepared.TailStart != 0 {
		t.Fatalf("expected tail start 0 for a fresh log, got %d", prepared.TailStart)
	}

	info, err := os.Stat(prepared.ScriptPath)
	if err != nil {
		t.Fatalf("expected wrapper script to exist: %v", err)
	}
	if info.Mode()&0o100 == 0 {
		t.Fatalf("expected wrapper script to be executable, mode=%v", info.Mode())
	}

	content, err := os.ReadFile(prepared.ScriptPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), `exec '/usr/bin/app' "$@"`) {
		t.Fatalf("wrapper script missing direct-exec line: %s", content)
	}
	if !strings.Contains(string(content), logPath) {
		t.Fatalf("wrapper script missing log redirection: %s", content)
	}

	wantScriptPath := filepath.Join(dir, "web", ".procvd", "web.main.sh")
	if prepared.ScriptPath != wantScriptPath {
		t.Fatalf("ScriptPath = %s, want %s", prepared.ScriptPath, wantScriptPath)
	}
}

func TestPrepareUsesShellForShellCommand(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "jobs", "task.log")

	proc := procmodel.ResolvedProcess{
		Key:              procmodel.ProcessKey{Group: "jobs", Process: "task"},
		ShellCommand:     "echo hi && exit 0",
		DisplayPath:      "echo hi && exit 0",
		WorkingDirectory: dir,
		OutputMode:       procmodel.OutputFile,
		OutputPath:       logPath,
	}

	prepared, err := Prepare(proc)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	content, err := os.ReadFile(prepared.ScriptPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "/bin/sh -c") {
		t.Fatalf("expected shell invocation, got: %s", content)
	}
}

func TestPrepareRecordsNonZeroTailStartForExistingLog(t *testing.T) {
	dir := t.TempDir()
	groupDir := filepath.Join(dir, "web")
	if err := os.MkdirAll(groupDir, 0o755); err != nil {
		t.Fatal(err)
	}
	logPath := filepath.Join(groupDir, "main.log")
	if err := os.WriteFile(logPath, []byte("already here"), 0o644); err != nil {
		t.Fatal(err)
	}

	proc := procmodel.ResolvedProcess{
		Key:              procmodel.ProcessKey{Group: "web", Process: "main"},
		ExecutablePath:   "/bin/true",
		WorkingDirectory: dir,
		OutputMode:       procmodel.OutputFile,
		OutputPath:       logPath,
	}

	prepared, err := Prepare(proc)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if prepared.TailStart != int64(len("already here")) {
		t.Fatalf("TailStart = %d, want %d", prepared.TailStart, len("already here"))
	}
}
