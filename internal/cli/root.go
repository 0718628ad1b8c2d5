package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/reztools/rt/internal/branding"
	"github.com/reztools/rt/internal/config"
	"github.com/reztools/rt/internal/logging"
	"github.com/reztools/rt/internal/registry"
	"github.com/reztools/rt/internal/runtime"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BuildInfo is injected via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Streams are the standard streams of one invocation.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// app is the state shared by the commands of one invocation. Settings and
// the registry are loaded at most once.
type app struct {
	env      *viper.Viper
	fs       afero.Fs
	streams  Streams
	build    BuildInfo
	logOpts  logging.Options
	executor *runtime.Executor
	builtins map[string]bool

	loaded   bool
	settings *config.Settings
	registry *registry.Registry
	loadErr  error
}

// load resolves the configuration and discovers plugins. Plugins named like
// a built-in command are dropped with a diagnostic.
func (a *app) load(ctx context.Context) (*config.Settings, *registry.Registry, error) {
	if a.loaded {
		return a.settings, a.registry, a.loadErr
	}
	a.loaded = true

	a.settings, a.loadErr = config.NewResolver(a.env).Resolve(ctx)
	if a.loadErr != nil {
		return nil, nil, a.loadErr
	}
	a.registry, a.loadErr = registry.Discover(ctx, a.fs, a.settings)
	if a.loadErr != nil {
		return nil, nil, a.loadErr
	}
	for _, name := range a.registry.Names() {
		if a.builtins[name] {
			a.registry.ShadowByBuiltin(name)
		}
	}
	return a.settings, a.registry, nil
}

// Execute runs rt with the process arguments and returns the exit code.
func Execute(version, commit, date string) int {
	return Run(context.Background(), os.Args[1:],
		Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr},
		BuildInfo{Version: version, Commit: commit, Date: date})
}

// Run executes one rt invocation.
func Run(ctx context.Context, args []string, streams Streams, build BuildInfo) int {
	opts, rest := prescan(args)
	if rest == nil {
		rest = []string{}
	}
	opts.Out = streams.Err
	ctx = logging.Into(ctx, logging.New(opts))

	a := &app{
		env:     config.NewEnv(),
		fs:      afero.NewOsFs(),
		streams: streams,
		build:   build,
		logOpts: opts,
		executor: &runtime.Executor{
			Stdin:  streams.In,
			Stdout: streams.Out,
			Stderr: streams.Err,
		},
	}
	root := newRootCmd(a)
	root.SetArgs(rest)
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)

	if needsPlugins(rest, a.builtins) {
		if _, reg, err := a.load(ctx); err == nil {
			for _, d := range reg.Plugins() {
				root.AddCommand(newPluginCmd(a, d))
			}
		}
	}

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	if _, ok := err.(*childExitError); !ok {
		fmt.Fprintf(streams.Err, "Error: %v\n", err)
	}
	return codeFor(err)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   branding.CLIName() + " <plugin> [args...]",
		Short: branding.Description(),
		Long: branding.DisplayName() + ` runs tools inside rez environments. Each plugin is a small descriptor
file naming a command and the rez packages it requires; "` + branding.CLIName() + ` <plugin>" resolves
the environment and runs the command in it.

Every plugin accepts the control flags --print, --ignore-cmd and
--run-detached before an optional "--". Everything else is passed through.`,
		Version:       a.build.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{
			UnknownFlags: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts := a.logOpts
			if v, err := cmd.Flags().GetBool("verbose"); err == nil && v {
				opts.Verbose = true
			}
			if q, err := cmd.Flags().GetBool("quiet"); err == nil && q {
				opts.Quiet = true
			}
			if opts.Verbose != a.logOpts.Verbose || opts.Quiet != a.logOpts.Quiet {
				a.logOpts = opts
				cmd.SetContext(logging.Into(cmd.Context(), logging.New(opts)))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			_, reg, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			return &PluginNotFoundError{Name: args[0], Known: reg.Names()}
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("%s version {{.Version}} (commit: %s, built: %s)\n",
		branding.CLIName(), a.build.Commit, a.build.Date))
	addGlobalFlags(root.PersistentFlags(), new(bool), new(bool))

	root.AddGroup(
		&cobra.Group{ID: groupCommands, Title: "Commands:"},
		&cobra.Group{ID: groupPlugins, Title: "Plugins:"},
	)
	root.SetHelpCommandGroupID(groupCommands)
	root.SetCompletionCommandGroupID(groupCommands)

	root.AddCommand(
		newListCmd(a),
		newRunCmd(a),
		newCheckRezCmd(a),
		newConvertCmd(a),
		newVersionCmd(a),
	)

	a.builtins = map[string]bool{"help": true, "completion": true}
	for _, c := range root.Commands() {
		a.builtins[c.Name()] = true
		for _, alias := range c.Aliases {
			a.builtins[alias] = true
		}
	}
	return root
}

const (
	groupCommands = "commands"
	groupPlugins  = "plugins"
)

func addGlobalFlags(fs *pflag.FlagSet, verbose, quiet *bool) {
	fs.BoolVarP(verbose, "verbose", "v", false, "Enable debug logging")
	fs.BoolVarP(quiet, "quiet", "q", false, "Only log errors")
}

// prescan reads the global flags that precede the command name so logging
// is configured before plugins are discovered. The consumed flags are
// removed from the returned arguments; plugin commands never parse flags
// and would otherwise receive them. Any flag it does not know leaves args
// untouched for Cobra to handle.
func prescan(args []string) (logging.Options, []string) {
	var opts logging.Options
	fs := pflag.NewFlagSet("prescan", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(false)
	addGlobalFlags(fs, &opts.Verbose, &opts.Quiet)

	if err := fs.Parse(args); err != nil {
		return logging.Options{}, args
	}
	consumed := len(args) - len(fs.Args())
	if consumed > 0 && args[consumed-1] == "--" {
		// "--" belongs to the caller, not to prescan.
		return opts, args[consumed-1:]
	}
	return opts, fs.Args()
}

// needsPlugins reports whether the command line may address a plugin, in
// which case plugin commands are registered before parsing.
func needsPlugins(args []string, builtins map[string]bool) bool {
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		return arg == "help" || !builtins[arg]
	}
	return true
}
