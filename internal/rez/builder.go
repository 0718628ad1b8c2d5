package rez

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/reztools/rt/internal/descriptor"
	"github.com/reztools/rt/internal/platform"
)

// ErrNothingToRun is returned when --ignore-cmd is given without arguments
// to run instead of the plugin command.
var ErrNothingToRun = errors.New("--ignore-cmd needs a command to run after it")

// CommandError reports an invalid combination of control flags.
type CommandError struct {
	Plugin string
	Err    error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("plugin %q: %v", e.Plugin, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Flags are the control flags every plugin command accepts.
type Flags struct {
	IgnoreCmd   bool
	Print       bool
	RunDetached bool
}

// Invocation is one synthesized rez command line.
type Invocation struct {
	Args     []string
	Detached bool
}

// CommandLine renders the invocation as a single quoted command line.
func (i *Invocation) CommandLine() string {
	return platform.CommandLine(i.Args)
}

// Plan is the outcome of Build: either an Invocation to execute, or, for
// --print, the descriptor dump to display.
type Plan struct {
	Invocation *Invocation
	Print      []byte
}

// Builder turns descriptors into rez invocations.
type Builder struct {
	Rez Command
}

// Build synthesizes "rez env -q <requires...> -- <command> <args...>" for d.
// With IgnoreCmd the args replace the plugin command. With Print no
// invocation is built.
func (b Builder) Build(d *descriptor.Descriptor, args []string, flags Flags) (*Plan, error) {
	if flags.Print {
		out, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding plugin %q: %w", d.Name, err)
		}
		return &Plan{Print: append(out, '\n')}, nil
	}

	var trailing []string
	if flags.IgnoreCmd {
		if len(args) == 0 {
			return nil, &CommandError{Plugin: d.Name, Err: ErrNothingToRun}
		}
		trailing = args
	} else {
		trailing = append([]string{d.Command}, args...)
	}

	out := make([]string, 0, len(b.Rez.Prefix)+3+len(d.Requires)+len(trailing))
	out = append(out, b.Rez.Prefix...)
	out = append(out, "env", "-q")
	out = append(out, d.Requires...)
	out = append(out, "--")
	out = append(out, trailing...)

	return &Plan{Invocation: &Invocation{
		Args:     out,
		Detached: d.RunDetached || flags.RunDetached,
	}}, nil
}
