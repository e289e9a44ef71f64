package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/MeKo-Tech/noisegraph/internal/preset"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List available presets",
	Long:  `List the built-in presets and those defined under "presets" in the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loadPresets()
		if err != nil {
			return err
		}
		return writePresets(cmd.OutOrStdout(), set)
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

func writePresets(w io.Writer, set *preset.Set) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tSEED\tSOURCE\tDESCRIPTION")
	for _, name := range set.Names() {
		p, err := set.Get(name)
		if err != nil {
			return err
		}
		source := "builtin"
		if set.IsCustom(name) {
			source = "config"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", name, p.Kind, p.Seed, source, p.Description)
	}
	return tw.Flush()
}
