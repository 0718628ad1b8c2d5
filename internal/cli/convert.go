package cli

import (
	"bytes"
	"fmt"

	"github.com/reztools/rt/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "convert-config <input> <output>",
		Short: "Rewrite a configuration file in another format",
		Long: `Resolve <input> like any configuration source and write the result to
<output>. The output format follows its extension: .toml, .yaml, .yml, .json
or .py. Search paths are written as absolute paths.`,
		Example: `  rt convert-config ~/reztoolsconfig.py ~/reztoolsconfig.toml`,
		GroupID: groupCommands,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]

			format, err := config.FormatFromPath(out)
			if err != nil {
				return err
			}
			if !force {
				if _, err := a.fs.Stat(out); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", out)
				}
			}

			settings, err := config.NewResolver(a.env).ResolveFile(cmd.Context(), in)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := config.Encode(&buf, settings, format); err != nil {
				return err
			}
			if err := afero.WriteFile(a.fs, out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, read with %s strategy)\n", out, format, settings.Strategy)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing output file")
	return cmd
}
