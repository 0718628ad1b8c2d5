package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reztools/rt/internal/config"
	"github.com/reztools/rt/internal/rez"
	"github.com/reztools/rt/internal/runtime"
)

// Process exit codes. An attached plugin run exits with the child's own code
// instead.
const (
	ExitOK           = 0
	ExitUsage        = 1
	ExitConfig       = 2
	ExitUnknown      = 3
	ExitLaunch       = 4
	ExitInvalidFlags = 5
)

// PluginNotFoundError is returned when no plugin has the requested name.
type PluginNotFoundError struct {
	Name  string
	Known []string
}

func (e *PluginNotFoundError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown plugin %q (no plugins found)", e.Name)
	}
	return fmt.Sprintf("unknown plugin %q (available: %s)", e.Name, strings.Join(e.Known, ", "))
}

// childExitError carries a non-zero exit code of an attached child. The
// child has already reported its own failure, so nothing is printed.
type childExitError struct {
	code int
}

func (e *childExitError) Error() string {
	return fmt.Sprintf("child exited with code %d", e.code)
}

// codeFor maps an error returned by a command to the process exit code.
func codeFor(err error) int {
	var (
		child    *childExitError
		notFound *PluginNotFoundError
		cmdErr   *rez.CommandError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &child):
		return child.code
	case errors.Is(err, config.ErrSourceMissing), errors.Is(err, config.ErrAllStrategiesFailed):
		return ExitConfig
	case errors.As(err, &notFound):
		return ExitUnknown
	case errors.Is(err, runtime.ErrSpawnFailed):
		return ExitLaunch
	case errors.As(err, &cmdErr):
		return ExitInvalidFlags
	default:
		return ExitUsage
	}
}
