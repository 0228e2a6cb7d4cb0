//go:build windows

package wrapper

import (
	"os"
	"strings"
	"text/template"

	"github.com/itexoft/procvd/internal/procmodel"
)

func scriptExtension() string { return ".cmd" }

func scriptMode() os.FileMode { return 0o644 }

var windowsScriptTemplate = template.Must(template.New("windows-wrapper").Parse(
	`@echo off
cd /d {{.WorkDir}}
if errorlevel 1 exit /b 1
{{if .IsShell}}cmd /c {{.ShellCommand}} >>{{.LogPath}} 2>&1
{{else}}{{.Executable}} %* >>{{.LogPath}} 2>&1
{{end}}exit /b %errorlevel%
`))

type windowsScriptData struct {
	LogPath      string
	WorkDir      string
	IsShell      bool
	ShellCommand string
	Executable   string
}

func buildScript(proc procmodel.ResolvedProcess) string {
	data := windowsScriptData{
		LogPath: windowsQuote(proc.OutputPath),
		WorkDir: windowsQuote(proc.WorkingDirectory),
	}
	if proc.HasShellCommand() {
		data.IsShell = true
		data.ShellCommand = windowsQuote(proc.ShellCommand)
	} else {
		data.Executable = windowsQuote(proc.ExecutablePath)
	}

	var b strings.Builder
	_ = windowsScriptTemplate.Execute(&b, data)
	return b.String()
}
