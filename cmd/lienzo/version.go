package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/lienzo"
	"github.com/aretw0/lienzo/internal/presentation/report"
)

func (a *app) versionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of lienzo",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Fprintln(a.stdout, lienzo.Version)
				return
			}
			report.PrintBanner(a.stdout, "lienzo version "+lienzo.Version)
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}
