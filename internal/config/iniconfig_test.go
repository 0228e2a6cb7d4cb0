package config

import (
	"strings"
	"testing"

	"gopkg.in/ini.v1"

	"github.com/itexoft/procvd/internal/procmodel"
)

const testINIConfig = `
baseDirectory = /srv/app

[defaults]
restartMode = process
restartDelayMs = 1000
env.LOG_LEVEL = info

[groupset.backend]
restartMode = group
env.REGION = us-east-1

[group.worker]
groupSets = backend
maxRestarts = 3
restartDelayMs = 500
outputMode = file

[process.worker.main]
path = bin/worker
args = --once
env.REGION = ~unset~
env.WORKER_ID = 1

[group.api]
restartMode = group

[process.api.server]
command = ./run-api.sh
`

func TestDecodeINIAndResolveMatchesJSONSemantics(t *testing.T) {
	f, err := ini.Load([]byte(testINIConfig))
	if err != nil {
		t.Fatalf("ini.Load: %v", err)
	}
	raw, err := DecodeINI(f)
	if err != nil {
		t.Fatalf("DecodeINI: %v", err)
	}

	resolved, err := Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	worker, ok := resolved.Groups["worker"]
	if !ok {
		t.Fatal("missing group worker")
	}
	if worker.RestartMode != procmodel.RestartGroup {
		t.Fatalf("worker.RestartMode = %v, want RestartGroup", worker.RestartMode)
	}
	if worker.RestartPolicy.MaxRestarts == nil || *worker.RestartPolicy.MaxRestarts != 3 {
		t.Fatalf("worker.RestartPolicy.MaxRestarts = %v, want 3", worker.RestartPolicy.MaxRestarts)
	}

	if len(worker.Processes) != 1 {
		t.Fatalf("len(worker.Processes) = %d, want 1", len(worker.Processes))
	}
	main := worker.Processes[0]
	if main.OutputMode != procmodel.OutputFile {
		t.Fatalf("main.OutputMode = %v, want OutputFile", main.OutputMode)
	}
	if main.Environment["LOG_LEVEL"].Value != "info" {
		t.Fatalf("main.Environment[LOG_LEVEL] = %+v, want inherited info", main.Environment["LOG_LEVEL"])
	}
	if !main.Environment["REGION"].Unset {
		t.Fatalf("main.Environment[REGION] = %+v, want explicit unset", main.Environment["REGION"])
	}
	if main.Environment["WORKER_ID"].Value != "1" {
		t.Fatalf("main.Environment[WORKER_ID] = %+v, want 1", main.Environment["WORKER_ID"])
	}

	api := resolved.Groups["api"]
	if api.Processes[0].ShellCommand != "./run-api.sh" {
		t.Fatalf("api server ShellCommand = %q, want ./run-api.sh", api.Processes[0].ShellCommand)
	}
}

func TestSplitCSVTrimsAndDropsEmpties(t *testing.T) {
	got := splitCSV(" a, b ,, c")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("splitCSV = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("splitCSV = %v, want %v", got, want)
		}
	}
}

func TestWriteSampleProducesNonEmptyOutput(t *testing.T) {
	var sb strings.Builder
	if err := WriteSample(&sb, "json"); err != nil {
		t.Fatalf("WriteSample(json): %v", err)
	}
	if !strings.Contains(sb.String(), "\"groups\"") {
		t.Fatal("sample json missing groups key")
	}

	sb.Reset()
	if err := WriteSample(&sb, "ini"); err != nil {
		t.Fatalf("WriteSample(ini): %v", err)
	}
	if !strings.Contains(sb.String(), "[group.web]") {
		t.Fatal("sample ini missing group.web section")
	}
}
