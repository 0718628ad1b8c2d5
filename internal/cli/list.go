package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/reztools/rt/internal/descriptor"
	"github.com/reztools/rt/internal/logging"
	"github.com/reztools/rt/internal/registry"
	"github.com/spf13/cobra"
)

type listEntry struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Command     string   `json:"command"`
	Requires    []string `json:"requires"`
	RunDetached bool     `json:"run_detached"`
	Source      string   `json:"source"`
}

type listOutput struct {
	Plugins     []listEntry `json:"plugins"`
	Diagnostics []string    `json:"diagnostics"`
}

func newListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List available plugins",
		Long: `List every plugin found on the configured search paths, sorted by name.
Problems found during discovery (missing paths, broken descriptor files,
shadowed names) are reported on stderr and never hide valid plugins.`,
		GroupID: groupCommands,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			reportDiagnostics(cmd, reg)
			if asJSON {
				return writeListJSON(cmd, reg)
			}
			writeListTable(cmd, reg)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func reportDiagnostics(cmd *cobra.Command, reg *registry.Registry) {
	log := logging.From(cmd.Context())
	for _, d := range reg.Diagnostics {
		log.Warn().Str("kind", string(d.Kind)).Str("path", d.Path).Msg(d.Message)
	}
}

func entryFor(d *descriptor.Descriptor) listEntry {
	return listEntry{
		Name:        d.Name,
		Description: d.ShortHelpText(),
		Command:     d.Command,
		Requires:    d.Requires,
		RunDetached: d.RunDetached,
		Source:      d.SourcePath,
	}
}

func writeListJSON(cmd *cobra.Command, reg *registry.Registry) error {
	out := listOutput{
		Plugins:     []listEntry{},
		Diagnostics: []string{},
	}
	for _, d := range reg.Plugins() {
		out.Plugins = append(out.Plugins, entryFor(d))
	}
	for _, d := range reg.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, d.String())
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling plugin list: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func writeListTable(cmd *cobra.Command, reg *registry.Registry) {
	w := cmd.OutOrStdout()
	if reg.Len() == 0 {
		fmt.Fprintln(w, "No plugins found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Name", "Description", "Source"})
	for _, d := range reg.Plugins() {
		t.AppendRow(table.Row{d.Name, d.ShortHelpText(), d.SourcePath})
	}
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
}
