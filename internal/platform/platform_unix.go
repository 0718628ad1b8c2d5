//go:build !windows

package platform

import (
	"os"
	"syscall"

	"github.com/alessio/shellescape"
	"github.com/google/shlex"
	"golang.org/x/sys/unix"
)

var forwardedSignals = []os.Signal{os.Interrupt, unix.SIGQUIT}

// CommandLine renders args as one POSIX shell command line. Split reverses it.
func CommandLine(args []string) string {
	return shellescape.QuoteCommand(args)
}

// Split breaks a command line into arguments using shell rules.
func Split(s string) ([]string, error) {
	return shlex.Split(s)
}

// DetachAttrs starts the child in its own session so it survives the
// controlling terminal.
func DetachAttrs() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}

// ExitStatus decodes state, mapping a fatal signal to 128+signal.
func ExitStatus(state *os.ProcessState) Status {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		sig := ws.Signal()
		return Status{Code: 128 + int(sig), Signaled: true, Signal: unix.SignalName(sig)}
	}
	return Status{Code: state.ExitCode()}
}
