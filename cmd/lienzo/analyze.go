package main

import (
	"fmt"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/aretw0/lienzo/internal/docio"
	"github.com/aretw0/lienzo/internal/presentation/report"
	"github.com/aretw0/lienzo/pkg/analysis"
	"github.com/aretw0/lienzo/pkg/validate"
)

// analysisOutput is the machine-readable form of the analyze command.
type analysisOutput struct {
	Validation  validate.Result       `json:"validation"`
	Analysis    analysis.Report       `json:"analysis"`
	Suggestions []analysis.Suggestion `json:"suggestions"`
}

func (a *app) analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze FILE",
		Short: "Report structural, pedagogical and rhythm findings with suggestions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := docio.LoadCanvas(args[0])
			if err != nil {
				return err
			}
			res := a.engine().Validate(doc)
			rep := analysis.Analyze(doc)
			tips := analysis.Suggest(doc, &rep)

			if a.output != "" {
				return a.write(analysisOutput{Validation: res, Analysis: rep, Suggestions: tips}, a.format(args[0]))
			}

			md := report.Markdown(report.Input{
				Canvas:      doc,
				Validation:  &res,
				Analysis:    &rep,
				Suggestions: tips,
			})
			tty := termenv.NewOutput(a.stdout).Profile != termenv.Ascii
			out, err := report.NewRenderer(tty)(md)
			if err != nil {
				return fmt.Errorf("failed to render report: %w", err)
			}
			_, err = fmt.Fprint(a.stdout, out)
			return err
		},
	}
}
