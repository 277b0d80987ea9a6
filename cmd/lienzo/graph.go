package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/lienzo/internal/docio"
	"github.com/aretw0/lienzo/internal/presentation/graph"
)

func (a *app) graphCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "graph FILE",
		Short: "Export the canvas as a Mermaid diagram",
		Long: `Outputs a Mermaid flowchart of the canvas. Nodes with validation errors
or warnings are highlighted unless --plain is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := docio.LoadCanvas(args[0])
			if err != nil {
				return err
			}
			var overlay *graph.Overlay
			if !plain {
				overlay = graph.OverlayFor(a.engine().Validate(doc))
			}
			_, err = fmt.Fprint(a.stdout, graph.GenerateMermaid(doc, overlay))
			return err
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Do not highlight nodes with issues")
	return cmd
}
