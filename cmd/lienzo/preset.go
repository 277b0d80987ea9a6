package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/lienzo/pkg/presets"
)

func (a *app) presetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Start a canvas from a ready-made structure",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for _, p := range presets.List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, p.Description)
			}
			return tw.Flush()
		},
	}

	create := &cobra.Command{
		Use:   "new ID",
		Short: "Print a fresh canvas built from a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := presets.Build(args[0], presets.WithLogger(a.logger))
			if err != nil {
				return err
			}
			return a.write(doc, a.format(""))
		},
	}

	cmd.AddCommand(list, create)
	return cmd
}
