package nordgo

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

const (
	// timeoutExitCode is reported when a command is killed for exceeding its budget.
	timeoutExitCode = -1
	// timeoutMarker replaces stderr when a command is killed for exceeding its budget.
	timeoutMarker = "process timed out"

	// defaultCommandTimeout bounds external client invocations that carry no
	// explicit budget of their own.
	defaultCommandTimeout = 60 * time.Second
)

// commandSpec describes one external command invocation.
type commandSpec struct {
	// name is the executable to run, resolved via PATH when not absolute.
	name string
	// args are passed to the executable verbatim.
	args []string
	// dir optionally sets the working directory.
	dir string
	// timeout bounds the wall-clock run time; zero means defaultCommandTimeout.
	timeout time.Duration
}

// commandResult captures the outcome of one external command invocation.
// A nonzero exit code is data, not an error; interpretation belongs to the
// caller because the external client signals state through free-text output
// as much as through its exit status.
type commandResult struct {
	// exitCode is the process exit code, or timeoutExitCode on forced kill.
	exitCode int
	// stdout holds the captured standard output.
	stdout string
	// stderr holds the captured standard error, or timeoutMarker on timeout.
	stderr string
	// timedOut reports whether the process was killed for exceeding its budget.
	timedOut bool
}

// combinedOutput returns stdout and stderr joined for phrase scanning.
func (r commandResult) combinedOutput() string {
	if r.stdout == "" {
		return r.stderr
	}
	if r.stderr == "" {
		return r.stdout
	}
	return r.stdout + "\n" + r.stderr
}

// runCommand executes the described command, capturing both output streams and
// enforcing the wall-clock timeout. On timeout the process is forcibly killed
// and the result carries timeoutExitCode with whatever partial output was
// captured. It returns an error only when the command could not be started at
// all (binary missing, permission denied); the command's own failure exit
// codes are returned in the result.
func runCommand(ctx context.Context, spec commandSpec) (commandResult, error) {
	timeout := spec.timeout
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// #nosec G204 -- command and arguments come from validated settings.
	cmd := exec.CommandContext(runCtx, spec.name, spec.args...)
	cmd.Dir = spec.dir

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if startErr := cmd.Start(); startErr != nil {
		return commandResult{}, newError(ErrIO, "runCommand", "failed to start "+spec.name, startErr)
	}

	waitErr := cmd.Wait()

	if runCtx.Err() != nil && ctx.Err() == nil {
		// Killed by the per-command budget, not by the caller.
		return commandResult{
			exitCode: timeoutExitCode,
			stdout:   stdoutBuf.String(),
			stderr:   timeoutMarker,
			timedOut: true,
		}, nil
	}
	if ctx.Err() != nil {
		return commandResult{
			exitCode: timeoutExitCode,
			stdout:   stdoutBuf.String(),
			stderr:   timeoutMarker,
			timedOut: true,
		}, newError(ErrTimeout, "runCommand", spec.name+" canceled by caller", ctx.Err())
	}

	exitCode := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return commandResult{}, newError(ErrIO, "runCommand", "failed waiting for "+spec.name, waitErr)
		}
	}

	return commandResult{
		exitCode: exitCode,
		stdout:   stdoutBuf.String(),
		stderr:   stderrBuf.String(),
	}, nil
}

// startDetached launches the command without waiting for it to finish. The
// child is released so it outlives the caller; output is discarded.
func startDetached(spec commandSpec) error {
	// #nosec G204 -- command and arguments come from validated settings.
	cmd := exec.Command(spec.name, spec.args...) //nolint:noctx // the child must outlive any caller context
	cmd.Dir = spec.dir
	if err := cmd.Start(); err != nil {
		return newError(ErrIO, "startDetached", "failed to start "+spec.name, err)
	}
	if err := cmd.Process.Release(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return newError(ErrIO, "startDetached", "failed to release "+spec.name, err)
	}
	return nil
}
