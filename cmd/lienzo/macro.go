package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/lienzo/internal/docio"
	"github.com/aretw0/lienzo/pkg/macros"
)

func (a *app) macroCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "macro",
		Short: "List and apply editing macros",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the available macros and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.output != "" {
				return a.write(macros.Catalog(), a.format(""))
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for _, m := range macros.Catalog() {
				fmt.Fprintf(tw, "%s\t%s\n", m.Name, m.Description)
				for _, p := range m.Params {
					fmt.Fprintf(tw, "  %s\t%s, %s\n", p.Name, p.Type, p.Description)
				}
			}
			return tw.Flush()
		},
	}

	var nodeID, params string
	apply := &cobra.Command{
		Use:   "apply NAME FILE",
		Short: "Apply a macro to a canvas and print the result",
		Long: `Applies the macro NAME to the node given by --node. Parameters are passed
as a JSON or YAML object with --params, for example:

  lienzo macro apply create_branching_path flow.json --node intro \
    --params '{branches: [{label: Teoría}, {label: Práctica}]}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := docio.LoadCanvas(args[1])
			if err != nil {
				return err
			}
			var p map[string]any
			if params != "" {
				if err := docio.Decode([]byte(params), docio.YAML, &p); err != nil {
					return fmt.Errorf("invalid --params: %w", err)
				}
			}
			out, err := a.engine().ApplyMacro(doc, args[0], nodeID, p)
			if err != nil {
				return err
			}
			return a.write(out, a.format(args[1]))
		},
	}
	apply.Flags().StringVar(&nodeID, "node", "", "Node the macro is applied to")
	apply.Flags().StringVar(&params, "params", "", "Macro parameters as a JSON or YAML object")
	_ = apply.MarkFlagRequired("node")

	cmd.AddCommand(list, apply)
	return cmd
}
