package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/reztools/rt/internal/logging"
	"github.com/reztools/rt/internal/platform"
	"github.com/reztools/rt/internal/rez"
)

// ErrSpawnFailed is the Kind of a LaunchError raised when the process could
// not be started at all.
var ErrSpawnFailed = errors.New("spawn failed")

// LaunchError reports a process that never started. It is distinct from a
// started process exiting non-zero.
type LaunchError struct {
	Kind    error
	Program string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("cannot start %s: %v", e.Program, e.Err)
}

func (e *LaunchError) Unwrap() []error { return []error{e.Kind, e.Err} }

// Result describes a finished attached run or a started detached one.
type Result struct {
	// ExitCode is the child's exit code, 128+signal when it was killed, and
	// 0 for detached launches.
	ExitCode int
	Signaled bool
	Signal   string
	PID      int
	Detached bool
}

// Executor runs invocations. Zero value streams are replaced by the
// process's own stdio in attached mode.
type Executor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Env is the child environment; nil inherits this process's.
	Env []string
}

// Run executes inv. Attached runs block until the child exits; detached runs
// return as soon as the child has been spawned.
func (e *Executor) Run(ctx context.Context, inv *rez.Invocation) (*Result, error) {
	if len(inv.Args) == 0 {
		return nil, &LaunchError{Kind: ErrSpawnFailed, Program: "", Err: errors.New("empty command")}
	}
	logging.From(ctx).Info().Bool("detached", inv.Detached).Msg(inv.CommandLine())

	if inv.Detached {
		return e.runDetached(ctx, inv.Args)
	}
	return e.runAttached(ctx, inv.Args)
}

func (e *Executor) runAttached(ctx context.Context, args []string) (*Result, error) {
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Env = e.Env
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if e.Stdin != nil {
		cmd.Stdin = e.Stdin
	}
	if e.Stdout != nil {
		cmd.Stdout = e.Stdout
	}
	if e.Stderr != nil {
		cmd.Stderr = e.Stderr
	}

	// The child shares the terminal and receives interrupts itself.
	restore := platform.IgnoreInterrupts()
	defer restore()

	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Kind: ErrSpawnFailed, Program: args[0], Err: err}
	}
	logging.From(ctx).Debug().Int("pid", cmd.Process.Pid).Msg("child started")

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("waiting for %s: %w", args[0], err)
		}
	}

	st := platform.ExitStatus(cmd.ProcessState)
	logging.From(ctx).Debug().Int("exit_code", st.Code).Bool("signaled", st.Signaled).Msg("child exited")
	return &Result{
		ExitCode: st.Code,
		Signaled: st.Signaled,
		Signal:   st.Signal,
		PID:      cmd.Process.Pid,
	}, nil
}

func (e *Executor) runDetached(ctx context.Context, args []string) (*Result, error) {
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Env = e.Env
	cmd.SysProcAttr = platform.DetachAttrs()

	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Kind: ErrSpawnFailed, Program: args[0], Err: err}
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		logging.From(ctx).Debug().Err(err).Msg("releasing detached process")
	}
	logging.From(ctx).Info().Int("pid", pid).Msg("started detached")
	return &Result{PID: pid, Detached: true}, nil
}
