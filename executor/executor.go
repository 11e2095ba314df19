package executor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// DefaultRetry is the number of attempts GetCmdOutput makes by default
const DefaultRetry = 3

// Options are options for the executor
type Options struct {
	// Verbose echoes every command line to Stderr before running it
	Verbose bool

	// Stdin, Stdout and Stderr are inherited by child processes.
	// Nil means the current process's own stream.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Output is the result of a captured invocation
type Output struct {
	// Text is the child's standard output with trailing newlines trimmed
	Text string
	// ExitCode is the child's exit status. Nonzero is not an error.
	ExitCode int
	// Attempts is how many launches it took
	Attempts int
}

// Executor runs external programs. It holds no mutable state and is safe
// for concurrent use.
type Executor struct {
	verbose bool
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer

	// run starts the process and waits for it
	run func(*exec.Cmd) error
}

// NewExecutor creates a new Executor
func NewExecutor(opts Options) *Executor {
	e := &Executor{
		verbose: opts.Verbose,
		stdin:   opts.Stdin,
		stdout:  opts.Stdout,
		stderr:  opts.Stderr,
		run:     (*exec.Cmd).Run,
	}
	if e.stdin == nil {
		e.stdin = os.Stdin
	}
	if e.stdout == nil {
		e.stdout = os.Stdout
	}
	if e.stderr == nil {
		e.stderr = os.Stderr
	}
	return e
}

// ExecCmd runs cmd to completion with the executor's streams inherited and
// returns its exit status. It fails only with a *LaunchError.
func (e *Executor) ExecCmd(cmd *Command) (int, error) {
	e.logInvocation("executing command", cmd)

	c, err := e.prepare(cmd)
	if err != nil {
		return 0, err
	}
	c.Stdin = e.stdin
	c.Stdout = e.stdout
	c.Stderr = e.stderr

	return e.wait(cmd, c)
}

// GetCmdOutput runs cmd and returns its standard output with trailing
// newlines trimmed. Launch failures are retried up to retry attempts in
// total; a nonzero exit status is returned as a normal capture.
func (e *Executor) GetCmdOutput(cmd *Command, retry int) (string, error) {
	out, err := e.CaptureOutput(cmd, retry)
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

// CaptureOutput is GetCmdOutput that also reports the exit status and the
// number of attempts made.
func (e *Executor) CaptureOutput(cmd *Command, retry int) (*Output, error) {
	if retry < 1 {
		retry = 1
	}
	e.logInvocation("capturing command output", cmd)

	out := &Output{}
	operation := func() error {
		out.Attempts++

		c, err := e.prepare(cmd)
		if err != nil {
			return err
		}

		var stdout bytes.Buffer
		c.Stdin = e.stdin
		c.Stdout = &stdout
		c.Stderr = e.stderr

		exitCode, err := e.wait(cmd, c)
		if err != nil {
			return err
		}

		out.Text = strings.TrimRight(stdout.String(), "\r\n")
		out.ExitCode = exitCode
		return nil
	}

	notify := func(err error, _ time.Duration) {
		zap.S().Warnw("command failed to launch, retrying",
			"command", cmd.String(),
			"attempt", out.Attempts,
			"max_attempts", retry,
			"error", err)
	}

	policy := backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(retry-1))
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		zap.S().Debugw("giving up on command",
			"command", cmd.String(),
			"attempts", out.Attempts,
			"error", err)
		return nil, err
	}

	return out, nil
}

// CommandExists reports whether name resolves to an executable on PATH
func (e *Executor) CommandExists(name string) bool {
	exists := CommandExists(name)
	zap.S().Debugw("checked command availability",
		"command", name,
		"exists", exists)
	return exists
}

// CommandExists reports whether name resolves to an executable on PATH.
// Nothing is spawned.
func CommandExists(name string) bool {
	if name == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}

// prepare builds the exec.Cmd for cmd without starting it
func (e *Executor) prepare(cmd *Command) (*exec.Cmd, error) {
	if cmd == nil || cmd.Program() == "" {
		return nil, &LaunchError{Err: ErrEmptyProgram}
	}
	// Arguments are passed as a vector; no shell is involved
	return exec.Command(cmd.Program(), cmd.Args()...), nil
}

// wait runs c and turns the outcome into an exit status or a *LaunchError
func (e *Executor) wait(cmd *Command, c *exec.Cmd) (int, error) {
	err := e.run(c)
	if err == nil {
		return c.ProcessState.ExitCode(), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// -1 means the process did not exit on its own (e.g. killed by a signal)
		if code := exitErr.ExitCode(); code >= 0 {
			zap.S().Debugw("command exited",
				"command", cmd.String(),
				"exit_code", code)
			return code, nil
		}
	}

	zap.S().Debugw("command could not be run",
		"command", cmd.String(),
		"error", err)
	return 0, &LaunchError{Program: cmd.Program(), Err: err}
}

// logInvocation echoes the command line to stderr when verbose
func (e *Executor) logInvocation(msg string, cmd *Command) {
	zap.S().Debugw(msg, "command", cmd.String())
	if e.verbose {
		fmt.Fprintf(e.stderr, "%12s `%s`\n", "Running", cmd.String())
	}
}
