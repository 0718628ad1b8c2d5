//go:build windows

package platform

import (
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

var forwardedSignals = []os.Signal{os.Interrupt}

// CommandLine renders args as one command line following the
// CommandLineToArgvW conventions. Split reverses it.
func CommandLine(args []string) string {
	return windows.ComposeCommandLine(args)
}

// Split breaks a command line into arguments using CommandLineToArgvW rules.
func Split(s string) ([]string, error) {
	return windows.DecomposeCommandLine(s)
}

// DetachAttrs starts the child without a console in its own process group.
func DetachAttrs() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.DETACHED_PROCESS | windows.CREATE_NEW_PROCESS_GROUP,
	}
}

// ExitStatus decodes state. Windows has no signal exits.
func ExitStatus(state *os.ProcessState) Status {
	return Status{Code: state.ExitCode()}
}
