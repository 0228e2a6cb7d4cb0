//go:build !windows

package executor

import (
	"os/exec"
	"syscall"
)

func configureProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pdeathsig: syscall.SIGKILL}
}

// terminateGracefully signals the whole process group, matching the
// teacher's graceful-shutdown sequence in process_manager.go and
// process.go (SIGTERM the group, not just the child, so any
// grandchildren it spawned are reached too).
func terminateGracefully(cmd *exec.Cmd) error {
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
}

func killForcefully(cmd *exec.Cmd) error {
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}

func shellInvocation(command string) (string, []string) {
	return "/bin/sh", []string{"-c", command}
}

// buildLaunchCommand runs the generated wrapper script directly; it was
// already marked executable by internal/wrapper.
func buildLaunchCommand(scriptPath string, args []string) (string, []string) {
	return scriptPath, args
}
