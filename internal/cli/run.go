package cli

import (
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <plugin> [args...]",
		Short: "Run a plugin by name",
		Long:  `Run a plugin by name. Equivalent to "rt <plugin> [args...]".`,
		GroupID:            groupCommands,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
				return cmd.Help()
			}
			return a.runPlugin(cmd, args[0], args[1:])
		},
	}
}
