// Package executor implements the Process Executor contract from
// spec.md §4.2 and the Default Executor from §4.3: spawn one process,
// optionally through the wrapper-script/file-tailing strategy for
// OutputMode=File, and report exactly one terminal event per
// invocation.
//
// Grounded on the teacher's process.go and process_manager.go: the
// SIGTERM-then-grace-then-SIGKILL teardown, the done-channel Wait()
// pattern, and per-invocation zap logging are all reused, generalized
// from a hardcoded supervision loop to a single Run() call the Group
// Supervisor drives.
package executor

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/itexoft/procvd/internal/procmodel"
	"github.com/itexoft/procvd/internal/sink"
	"github.com/itexoft/procvd/internal/tailer"
	"github.com/itexoft/procvd/internal/wrapper"
)

// DefaultGracePeriod is how long Run waits after SIGTERM before
// escalating to SIGKILL, matching the teacher's 3-second grace window.
const DefaultGracePeriod = 3 * time.Second

// Executor is the Process Executor contract: spawn one process and
// report its outcome, observing cancel for prompt teardown.
type Executor interface {
	Run(ctx context.Context, proc procmodel.ResolvedProcess, snk sink.Sink) procmodel.ExecutionResult
}

// DefaultExecutor is the Default Executor from spec.md §4.3.
type DefaultExecutor struct {
	log          *zap.Logger
	gracePeriod  time.Duration
	pollInterval time.Duration
}

// NewDefaultExecutor creates a DefaultExecutor. gracePeriod and
// pollInterval fall back to DefaultGracePeriod and
// tailer.DefaultPollInterval when zero.
func NewDefaultExecutor(log *zap.Logger, gracePeriod, pollInterval time.Duration) *DefaultExecutor {
	if gracePeriod <= 0 {
		gracePeriod = DefaultGracePeriod
	}
	if pollInterval <= 0 {
		pollInterval = tailer.DefaultPollInterval
	}
	return &DefaultExecutor{
		log:          log.Named("executor"),
		gracePeriod:  gracePeriod,
		pollInterval: pollInterval,
	}
}

// Run implements Executor.
func (e *DefaultExecutor) Run(ctx context.Context, proc procmodel.ResolvedProcess, snk sink.Sink) procmodel.ExecutionResult {
	invocationID := uuid.NewString()
	log := e.log.With(
		zap.String("invocation_id", invocationID),
		zap.String("key", proc.Key.String()),
	)

	snk.WriteEvent(procmodel.OutputEvent{
		Key:         proc.Key,
		DisplayPath: proc.DisplayPath,
		Kind:        procmodel.EventStarting,
		Timestamp:   time.Now(),
	})

	var result procmodel.ExecutionResult
	switch proc.OutputMode {
	case procmodel.OutputFile:
		result = e.runFileMode(ctx, proc, snk, log)
	default:
		result = e.runInheritMode(ctx, proc, log)
	}

	e.emitTerminalEvent(snk, proc, result)
	return result
}

func (e *DefaultExecutor) emitTerminalEvent(snk sink.Sink, proc procmodel.ResolvedProcess, result procmodel.ExecutionResult) {
	event := procmodel.OutputEvent{
		Key:         proc.Key,
		DisplayPath: proc.DisplayPath,
		Timestamp:   time.Now(),
		ExitCode:    result.ExitCode,
	}
	switch {
	case result.IsFaulted():
		event.Kind = procmodel.EventFailed
		event.Message = result.Failure.Error()
	case result.IsCancelled:
		event.Kind = procmodel.EventStopped
	default:
		event.Kind = procmodel.EventExited
	}
	snk.WriteEvent(event)
}

func (e *DefaultExecutor) runInheritMode(ctx context.Context, proc procmodel.ResolvedProcess, log *zap.Logger) procmodel.ExecutionResult {
	cmd := e.buildCmd(proc)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	res := runCmd(ctx, cmd, e.gracePeriod)
	if res.waitErr != nil {
		log.Warn("process spawn or wait failed", zap.Error(res.waitErr))
		return procmodel.ExecutionResult{Failure: res.waitErr}
	}
	return procmodel.ExecutionResult{ExitCode: res.exitCode, IsCancelled: res.isCancelled}
}

func (e *DefaultExecutor) runFileMode(ctx context.Context, proc procmodel.ResolvedProcess, snk sink.Sink, log *zap.Logger) procmodel.ExecutionResult {
	prepared, err := wrapper.Prepare(proc)
	if err != nil {
		log.Warn("failed to prepare file-mode wrapper", zap.Error(err))
		return procmodel.ExecutionResult{Failure: err}
	}

	done := make(chan struct{})
	tailerCtx, cancelTailer := context.WithCancel(context.Background())
	defer cancelTailer()

	t := &tailer.Tailer{
		Path:         prepared.LogPath,
		Key:          proc.Key,
		DisplayPath:  prepared.DisplayPath,
		Sink:         snk,
		StartOffset:  prepared.TailStart,
		PollInterval: e.pollInterval,
		Log:          log,
	}
	tailerFinished := make(chan struct{})
	go func() {
		t.Run(tailerCtx, done)
		close(tailerFinished)
	}()

	cmd := e.buildWrapperCmd(proc, prepared.ScriptPath)

	res := runCmd(ctx, cmd, e.gracePeriod)
	close(done)
	<-tailerFinished

	if res.waitErr != nil {
		log.Warn("process spawn or wait failed", zap.Error(res.waitErr))
		return procmodel.ExecutionResult{Failure: res.waitErr}
	}
	return procmodel.ExecutionResult{ExitCode: res.exitCode, IsCancelled: res.isCancelled}
}

func (e *DefaultExecutor) buildCmd(proc procmodel.ResolvedProcess) *exec.Cmd {
	var cmd *exec.Cmd
	if proc.HasShellCommand() {
		shell, args := shellInvocation(proc.ShellCommand)
		cmd = exec.Command(shell, args...)
	} else {
		cmd = exec.Command(proc.ExecutablePath, proc.Arguments...)
	}
	cmd.Dir = proc.WorkingDirectory
	cmd.Env = buildEnv(proc.Environment)
	configureProcAttr(cmd)
	return cmd
}

func (e *DefaultExecutor) buildWrapperCmd(proc procmodel.ResolvedProcess, scriptPath string) *exec.Cmd {
	var args []string
	if !proc.HasShellCommand() {
		args = proc.Arguments
	}
	name, fullArgs := buildLaunchCommand(scriptPath, args)
	cmd := exec.Command(name, fullArgs...)
	cmd.Dir = proc.WorkingDirectory
	cmd.Env = buildEnv(proc.Environment)
	configureProcAttr(cmd)
	return cmd
}
