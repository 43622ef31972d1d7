// cmd/ingest/sources.go
package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cl0ver012/whd-ai-assistant/pkg/source"
)

func sourcesCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the known sources and aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := source.Builtin()
			if err := applySourcesFile(cmd, g, registry); err != nil {
				return err
			}
			printSources(cmd.OutOrStdout(), registry)
			return nil
		},
	}
}

// applySourcesFile applies the override file without loading the store or
// embedding settings, so listing works on a machine with no credentials
func applySourcesFile(cmd *cobra.Command, g *globalFlags, registry *source.Registry) error {
	overrides, err := loadOverrides(cmd, g)
	if err != nil {
		return err
	}
	return registry.ApplyOverrides(overrides)
}

func printSources(out io.Writer, registry *source.Registry) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTABLE\tFILES\tKEY\tMODE\tENABLED")
	for _, def := range registry.List() {
		key := strings.Join(def.KeyFields, ",")
		if key == "" {
			key = "-"
		}
		mode := string(def.Mode)
		if def.Mode == source.ModeRow && def.RowDelay > 0 {
			mode = fmt.Sprintf("%s (%s)", def.Mode, def.RowDelay)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n",
			def.Name,
			def.Table,
			strings.Join(def.Patterns, " "),
			key,
			mode,
			def.Enabled)
	}
	_ = w.Flush()

	aliases := registry.Aliases()
	if len(aliases) == 0 {
		return
	}
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out, "\nAliases:")
	for _, name := range names {
		fmt.Fprintf(out, "  %s = %s\n", name, strings.Join(aliases[name], ", "))
	}
}
