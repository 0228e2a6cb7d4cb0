//go:build windows

package executor

import "os/exec"

func configureProcAttr(cmd *exec.Cmd) {}

// terminateGracefully has no SIGTERM equivalent on Windows; escalate
// directly, matching os/exec's own Kill as the only portable primitive.
func terminateGracefully(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}

func killForcefully(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}

func shellInvocation(command string) (string, []string) {
	return "cmd", []string{"/C", command}
}

// buildLaunchCommand runs a .cmd wrapper through cmd.exe /C: CreateProcess
// cannot exec a script file directly the way POSIX exec can.
func buildLaunchCommand(scriptPath string, args []string) (string, []string) {
	full := append([]string{"/C", scriptPath}, args...)
	return "cmd", full
}
