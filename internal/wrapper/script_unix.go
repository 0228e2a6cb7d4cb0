//go:build !windows

package wrapper

import (
	"os"
	"strings"
	"text/template"

	"github.com/itexoft/procvd/internal/procmodel"
)

func scriptExtension() string { return ".sh" }

func scriptMode() os.FileMode { return 0o755 }

var posixScriptTemplate = template.Must(template.New("posix-wrapper").Parse(
	`#!/bin/sh
exec >>{{.LogPath}} 2>>{{.LogPath}}
cd {{.WorkDir}} || exit 1
{{if .IsShell}}exec /bin/sh -c {{.ShellCommand}}
{{else}}exec {{.Executable}} "$@"
{{end}}`))

type posixScriptData struct {
	LogPath      string
	WorkDir      string
	IsShell      bool
	ShellCommand string
	Executable   string
}

func buildScript(proc procmodel.ResolvedProcess) string {
	data := posixScriptData{
		LogPath: posixQuote(proc.OutputPath),
		WorkDir: posixQuote(proc.WorkingDirectory),
	}
	if proc.HasShellCommand() {
		data.IsShell = true
		data.ShellCommand = posixQuote(proc.ShellCommand)
	} else {
		data.Executable = posixQuote(proc.ExecutablePath)
	}

	var b strings.Builder
	_ = posixScriptTemplate.Execute(&b, data)
	return b.String()
}
