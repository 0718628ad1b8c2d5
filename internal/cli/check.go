package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/reztools/rt/internal/config"
	"github.com/reztools/rt/internal/descriptor"
	"github.com/reztools/rt/internal/registry"
	"github.com/reztools/rt/internal/rez"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newCheckRezCmd(a *app) *cobra.Command {
	var descriptorPath string
	cmd := &cobra.Command{
		Use:   "check-rez",
		Short: "Check the configuration, plugins and rez installation",
		Long: `Report where the configuration came from, which search paths exist, which
plugins were found and which rez will be used, including its version.

Only a configuration that cannot be resolved makes this command fail.`,
		GroupID: groupCommands,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if descriptorPath != "" {
				return checkDescriptor(w, a.fs, descriptorPath)
			}

			settings, reg, err := a.load(cmd.Context())
			if err != nil {
				fmt.Fprintln(w, "Configuration:")
				fmt.Fprintf(w, "  [FAIL] %s\n", strings.ReplaceAll(err.Error(), "\n", "\n    "))
				return err
			}
			checkConfig(w, a.fs, settings)
			checkPlugins(w, reg)
			checkRez(cmd.Context(), w, a)
			return nil
		},
	}
	cmd.Flags().StringVar(&descriptorPath, "descriptor", "", "Validate a single descriptor file and exit")
	return cmd
}

func checkConfig(w io.Writer, fsys afero.Fs, s *config.Settings) {
	fmt.Fprintln(w, "Configuration:")
	if s.Source == "" {
		fmt.Fprintln(w, "  [INFO] No configuration file, using defaults")
	} else {
		fmt.Fprintf(w, "  [ OK ] %s (%s)\n", s.Source, s.Strategy)
	}
	fmt.Fprintf(w, "  [ OK ] Descriptor extension %s\n", s.Extension)
	if len(s.SearchPaths) == 0 {
		fmt.Fprintln(w, "  [WARN] No search paths configured")
	}
	for _, p := range s.SearchPaths {
		info, err := fsys.Stat(p)
		switch {
		case err != nil:
			fmt.Fprintf(w, "  [MISS] %s\n", p)
		case !info.IsDir():
			fmt.Fprintf(w, "  [WARN] %s is not a directory\n", p)
		default:
			fmt.Fprintf(w, "  [ OK ] %s\n", p)
		}
	}
}

func checkPlugins(w io.Writer, reg *registry.Registry) {
	fmt.Fprintln(w, "Plugins:")
	fmt.Fprintf(w, "  [ OK ] %d plugin(s) found\n", reg.Len())
	for _, d := range reg.Diagnostics {
		tag := "[WARN]"
		if d.Kind == registry.KindParseError {
			tag = "[FAIL]"
		}
		fmt.Fprintf(w, "  %s %s\n", tag, d.Message)
	}
}

func checkRez(ctx context.Context, w io.Writer, a *app) {
	fmt.Fprintln(w, "Rez:")
	c, err := rez.Locate(ctx, a.env)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return
	}
	if c.Origin == "default" {
		fmt.Fprintln(w, "  [MISS] rez not found on PATH or REZ_PATH")
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s (from %s)\n", strings.Join(c.Prefix, " "), c.Origin)

	info, err := rez.ProbeVersion(ctx, c)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return
	}
	if !info.Supported {
		fmt.Fprintf(w, "  [WARN] rez %s is older than %s\n", info.Version, rez.MinimumVersion)
		return
	}
	fmt.Fprintf(w, "  [ OK ] rez %s\n", info.Version)
}

// checkDescriptor validates one descriptor file. The extension is taken
// from the file itself.
func checkDescriptor(w io.Writer, fsys afero.Fs, path string) error {
	fmt.Fprintf(w, "Descriptor validation: %s\n", path)

	d, err := descriptor.Parse(fsys, path, filepath.Ext(path))
	if err != nil {
		var pe *descriptor.ParseError
		if errors.As(err, &pe) && pe.Field != "" {
			fmt.Fprintf(w, "  [FAIL] %s: %s\n", pe.Field, pe.Reason)
		} else {
			fmt.Fprintf(w, "  [FAIL] %v\n", err)
		}
		return fmt.Errorf("descriptor validation failed: %w", err)
	}
	fmt.Fprintf(w, "  [ OK ] Valid plugin %q runs %q\n", d.Name, d.Command)
	if d.InheritsFrom != "" {
		fmt.Fprintf(w, "  [WARN] inherits_from %q is not resolved\n", d.InheritsFrom)
	}
	return nil
}
