package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/validate"
)

// Overlay marks nodes to highlight on the graph, typically the nodes a
// validation run complained about.
type Overlay struct {
	ErrorNodes   []string
	WarningNodes []string
}

// OverlayFor collects the nodes named by the issues of res.
func OverlayFor(res validate.Result) *Overlay {
	o := &Overlay{}
	for _, i := range res.Errors {
		if i.NodeID != "" {
			o.ErrorNodes = append(o.ErrorNodes, i.NodeID)
		}
	}
	for _, i := range res.Warnings {
		if i.NodeID != "" {
			o.WarningNodes = append(o.WarningNodes, i.NodeID)
		}
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a canvas.
// It applies semantic styling:
// - Start: ((Circle))
// - End: (((Double circle)))
// - Decision: {Rhombus}
// - Condition: {{Hexagon}}
// - Delay: [/Parallelogram/]
// - Default: [Rectangle]
// Group and comment nodes are editor annotations and are left out. Edges
// pointing at unknown nodes are drawn to a placeholder so they stay visible.
func GenerateMermaid(doc *domain.Canvas, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if doc == nil {
		return sb.String()
	}

	drawn := domain.NewIDSet()
	for _, node := range doc.Nodes {
		if node.Kind.Annotation() {
			continue
		}
		drawn.Add(node.ID)
		opener, closer := shape(node.Kind)
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(node.ID), opener, escape(label(node)), closer))
	}

	for _, e := range doc.Edges {
		if !drawn.Has(e.From) && !drawn.Has(e.To) {
			continue
		}
		for _, id := range []string{e.From, e.To} {
			if !drawn.Has(id) {
				drawn.Add(id)
				sb.WriteString(fmt.Sprintf("    %s[\"%s ?\"]\n", sanitizeMermaidID(id), escape(id)))
			}
		}

		arrow := "-->"
		if text := edgeLabel(e); text != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", escape(text))
			if e.Conditional() {
				arrow = fmt.Sprintf("-. \"%s\" .->", escape(text))
			}
		} else if e.Conditional() {
			arrow = "-.->"
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(e.From), arrow, sanitizeMermaidID(e.To)))
	}

	if overlay != nil && len(overlay.ErrorNodes)+len(overlay.WarningNodes) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef warning fill:#fff8e1,stroke:#f9a825,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef error fill:#ffebee,stroke:#c62828,stroke-width:3px,color:#000;\n")

		styled := domain.NewIDSet()
		for _, group := range []struct {
			class string
			ids   []string
		}{{"error", overlay.ErrorNodes}, {"warning", overlay.WarningNodes}} {
			for _, id := range group.ids {
				safeID := sanitizeMermaidID(id)
				if safeID == "" || styled.Has(safeID) || !drawn.Has(id) {
					continue
				}
				styled.Add(safeID)
				sb.WriteString(fmt.Sprintf("    class %s %s;\n", safeID, group.class))
			}
		}
	}

	return sb.String()
}

func shape(k domain.Kind) (string, string) {
	switch k {
	case domain.KindStart:
		return "((", "))"
	case domain.KindEnd:
		return "(((", ")))"
	case domain.KindDecision:
		return "{", "}"
	case domain.KindCondition:
		return "{{", "}}"
	case domain.KindDelay:
		return "[/", "/]"
	default:
		return "[", "]"
	}
}

func label(n domain.Node) string {
	if n.Label != "" && n.Label != n.ID {
		return n.Label + " <br/> " + n.ID
	}
	return n.ID
}

// edgeLabel prefers the edge label, then the choice it answers, then the
// condition type.
func edgeLabel(e domain.Edge) string {
	if e.Label != "" {
		return e.Label
	}
	if e.Condition == nil {
		return ""
	}
	if id, ok := e.Condition.Params[domain.PropChoiceID].(string); ok && id != "" {
		return id
	}
	if e.Condition.Type != domain.ConditionAlways {
		return e.Condition.Type
	}
	return ""
}

// escape replaces double quotes, which Mermaid labels cannot contain.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
