// Package report renders validation and analysis findings as Markdown.
package report

import (
	"fmt"
	"strings"

	"github.com/aretw0/lienzo/pkg/analysis"
	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/validate"
)

// Input gathers everything a report can show. Nil sections are omitted.
type Input struct {
	Canvas      *domain.Canvas
	Validation  *validate.Result
	Analysis    *analysis.Report
	Suggestions []analysis.Suggestion
}

// Markdown builds the report document.
func Markdown(in Input) string {
	var b strings.Builder

	title := "canvas"
	if in.Canvas != nil {
		title = in.Canvas.ID
		if in.Canvas.Name != "" {
			title = in.Canvas.Name + " (" + in.Canvas.ID + ")"
		}
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if in.Analysis != nil {
		s := in.Analysis.Stats
		b.WriteString("## Summary\n\n")
		b.WriteString("| Nodes | Executable | Edges | Decisions | Endings | With meta |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		fmt.Fprintf(&b, "| %d | %d | %d | %d | %d | %d |\n\n",
			s.Nodes, s.Executable, s.Edges, s.Decisions, s.Ends, s.WithMeta)
	}

	if v := in.Validation; v != nil {
		b.WriteString("## Validation\n\n")
		if v.OK && len(v.Warnings) == 0 {
			b.WriteString("No issues found.\n\n")
		}
		issues(&b, "Errors", v.Errors)
		issues(&b, "Warnings", v.Warnings)
	}

	if a := in.Analysis; a != nil && len(a.Warnings)+len(a.Infos) > 0 {
		b.WriteString("## Analysis\n\n")
		for _, d := range a.Warnings {
			fmt.Fprintf(&b, "- **%s** %s%s\n", d.Type, d.Message, at(d.NodeID))
		}
		for _, d := range a.Infos {
			fmt.Fprintf(&b, "- *%s* %s%s\n", d.Type, d.Message, at(d.NodeID))
		}
		b.WriteString("\n")
	}

	if len(in.Suggestions) > 0 {
		b.WriteString("## Suggestions\n\n")
		for _, s := range in.Suggestions {
			fmt.Fprintf(&b, "- [%s] **%s** %s%s\n", s.Priority, s.Topic, s.Message, at(s.NodeID))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func issues(b *strings.Builder, heading string, list []validate.Issue) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", heading)
	for _, i := range list {
		fmt.Fprintf(b, "- `%s` %s%s\n", i.Code, i.Message, at(i.NodeID))
	}
	b.WriteString("\n")
}

func at(nodeID string) string {
	if nodeID == "" {
		return ""
	}
	return " (`" + nodeID + "`)"
}
