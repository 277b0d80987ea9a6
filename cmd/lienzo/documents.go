package main

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/aretw0/lienzo/internal/docio"
	"github.com/aretw0/lienzo/pkg/convert"
	"github.com/aretw0/lienzo/pkg/validate"
)

func (a *app) validateCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a canvas for structural errors",
		Long: `Validates a canvas in draft mode, or in the stricter publish mode with
--strict. Exits with status 1 when errors are found; warnings never fail.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := docio.LoadCanvas(args[0])
			if err != nil {
				return err
			}
			var opts []validate.Option
			if strict || a.cfg.Strict {
				opts = append(opts, validate.Strict())
			}
			res := a.engine().Validate(doc, opts...)

			if a.output != "" {
				if err := a.write(res, a.format(args[0])); err != nil {
					return err
				}
			} else {
				printIssues(a.stdout, res)
			}
			if !res.OK {
				return errInvalid
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Apply the publish rules")
	return cmd
}

func printIssues(w io.Writer, res validate.Result) {
	out := termenv.NewOutput(w)
	for _, i := range res.Errors {
		fmt.Fprintln(w, out.String("error  ").Foreground(termenv.ANSIRed).Bold(), i.String())
	}
	for _, i := range res.Warnings {
		fmt.Fprintln(w, out.String("warning").Foreground(termenv.ANSIYellow), i.String())
	}
	if res.OK {
		fmt.Fprintln(w, out.String(fmt.Sprintf("canvas is valid (%d warnings)", len(res.Warnings))).Foreground(termenv.ANSIGreen))
		return
	}
	fmt.Fprintf(w, "%d errors, %d warnings\n", len(res.Errors), len(res.Warnings))
}

func (a *app) normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize FILE",
		Short: "Print the canonical form of a canvas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := docio.LoadCanvas(args[0])
			if err != nil {
				return err
			}
			return a.write(a.engine().Normalize(doc), a.format(args[0]))
		},
	}
}

func (a *app) repairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair FILE",
		Short: "Connect unreachable end nodes and print the canvas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := docio.LoadCanvas(args[0])
			if err != nil {
				return err
			}
			return a.write(a.engine().Repair(doc), a.format(args[0]))
		},
	}
}

func (a *app) compileCmd() *cobra.Command {
	var keep bool
	cmd := &cobra.Command{
		Use:   "compile FILE",
		Short: "Compile a canvas into a recorrido",
		Long: `Normalizes the canvas, validates it in publish mode and prints the
compiled recorrido. Nothing is printed when validation fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := docio.LoadCanvas(args[0])
			if err != nil {
				return err
			}
			eng := a.engine()
			doc = eng.Normalize(doc)
			if res := eng.Validate(doc, validate.Strict()); !res.OK {
				printIssues(a.stderr, res)
				return errInvalid
			}
			var opts []convert.Option
			if keep {
				opts = append(opts, convert.KeepUnreachable())
			}
			rec, err := eng.Compile(doc, opts...)
			if err != nil {
				return err
			}
			return a.write(rec, a.format(args[0]))
		},
	}
	cmd.Flags().BoolVar(&keep, "keep-unreachable", false, "Keep steps that cannot be reached from the entry")
	return cmd
}

func (a *app) liftCmd() *cobra.Command {
	var noLayout bool
	cmd := &cobra.Command{
		Use:   "lift FILE",
		Short: "Turn a recorrido back into an editable canvas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := docio.LoadRecorrido(args[0])
			if err != nil {
				return err
			}
			var opts []convert.Option
			if noLayout {
				opts = append(opts, convert.WithoutLayout())
			}
			doc, err := a.engine().Lift(rec, opts...)
			if err != nil {
				return err
			}
			return a.write(doc, a.format(args[0]))
		},
	}
	cmd.Flags().BoolVar(&noLayout, "no-layout", false, "Place every node at the origin")
	return cmd
}
