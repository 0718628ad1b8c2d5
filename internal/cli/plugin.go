package cli

import (
	"fmt"
	"strings"

	"github.com/reztools/rt/internal/descriptor"
	"github.com/reztools/rt/internal/logging"
	"github.com/reztools/rt/internal/rez"
	"github.com/reztools/rt/internal/runtime"
	"github.com/spf13/cobra"
)

// controlArgs is the result of separating control flags from passthrough
// arguments.
type controlArgs struct {
	Flags rez.Flags
	Help  bool
	Args  []string
}

// splitControlArgs recognizes --ignore-cmd, --print, --run-detached and
// --help anywhere before a literal "--". The first "--" is dropped and
// everything after it passes through untouched.
func splitControlArgs(args []string) controlArgs {
	out := controlArgs{Args: make([]string, 0, len(args))}
	for i, arg := range args {
		switch arg {
		case "--":
			out.Args = append(out.Args, args[i+1:]...)
			return out
		case "--ignore-cmd":
			out.Flags.IgnoreCmd = true
		case "--print":
			out.Flags.Print = true
		case "--run-detached":
			out.Flags.RunDetached = true
		case "--help", "-h":
			out.Help = true
		default:
			out.Args = append(out.Args, arg)
		}
	}
	return out
}

func newPluginCmd(a *app, d *descriptor.Descriptor) *cobra.Command {
	return &cobra.Command{
		Use:                d.Name + " [args...]",
		Short:              d.ShortHelpText(),
		GroupID:            groupPlugins,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPlugin(cmd, d.Name, args)
		},
	}
}

// runPlugin resolves name and builds, prints or executes its invocation.
func (a *app) runPlugin(cmd *cobra.Command, name string, args []string) error {
	ctx := cmd.Context()
	log := logging.From(ctx)

	_, reg, err := a.load(ctx)
	if err != nil {
		return err
	}
	d, ok := reg.Lookup(name)
	if !ok {
		return &PluginNotFoundError{Name: name, Known: reg.Names()}
	}

	ctl := splitControlArgs(args)
	if ctl.Help {
		printPluginHelp(cmd, d)
		return nil
	}

	var builder rez.Builder
	if !ctl.Flags.Print {
		builder.Rez, err = rez.Locate(ctx, a.env)
		if err != nil {
			return &runtime.LaunchError{Kind: runtime.ErrSpawnFailed, Program: "rez", Err: err}
		}
		log.Debug().Strs("prefix", builder.Rez.Prefix).Str("origin", builder.Rez.Origin).Msg("rez located")
	}

	plan, err := builder.Build(d, ctl.Args, ctl.Flags)
	if err != nil {
		return err
	}
	if plan.Print != nil {
		_, err := a.streams.Out.Write(plan.Print)
		return err
	}

	res, err := a.executor.Run(ctx, plan.Invocation)
	if err != nil {
		return err
	}
	if res.Signaled {
		log.Debug().Str("signal", res.Signal).Int("exit_code", res.ExitCode).Msg("child terminated by signal")
	}
	if res.ExitCode != 0 {
		return &childExitError{code: res.ExitCode}
	}
	return nil
}

func printPluginHelp(cmd *cobra.Command, d *descriptor.Descriptor) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n", d.ShortHelpText())
	fmt.Fprintf(out, "Usage:\n  %s [--print] [--ignore-cmd] [--run-detached] [--] [args...]\n\n", cmd.Root().Name()+" "+d.Name)
	fmt.Fprintf(out, "Command:   %s\n", d.Command)
	if len(d.Requires) > 0 {
		fmt.Fprintf(out, "Requires:  %s\n", strings.Join(d.Requires, " "))
	}
	if d.RunDetached {
		fmt.Fprintln(out, "Detached:  yes")
	}
	fmt.Fprintf(out, "Source:    %s\n\n", d.SourcePath)
	fmt.Fprintln(out, `Control flags (before "--"):
  --print          Show the plugin definition instead of running it
  --ignore-cmd     Run the arguments instead of the plugin command
  --run-detached   Start in the background and return immediately
  -h, --help       Show this help`)
}
