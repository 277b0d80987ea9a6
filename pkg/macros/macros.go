// Package macros provides composite canvas edits built only from the
// primitives of package actions. Each step of a macro goes through the
// repair, validate and normalize pipeline of the primitive it calls, so a
// macro either returns a settled document or fails as a whole.
package macros

import (
	"fmt"

	"github.com/aretw0/lienzo/pkg/actions"
	"github.com/aretw0/lienzo/pkg/domain"
)

// Defaults used when a macro parameter is left empty.
const (
	DefaultEndingLabel   = "Finalización"
	DefaultDecisionLabel = "Decisión"
)

// Prefixes of the ids generated by macros.
const (
	EndingIDPrefix   = "ending"
	DecisionIDPrefix = "decision"
	SequenceIDPrefix = "sequence"
)

// EndingParams configures AppendStandardEnding.
type EndingParams struct {
	Label      string `json:"label,omitempty"`
	TemplateID string `json:"template_id,omitempty"`
}

// AppendStandardEnding inserts an ending screen after afterID and marks it
// as an end node.
func AppendStandardEnding(doc *domain.Canvas, afterID string, p EndingParams, opts ...actions.Option) (*domain.Canvas, error) {
	if doc == nil {
		return nil, invalid(MacroStandardEnding, "canvas document is required")
	}
	if p.Label == "" {
		p.Label = DefaultEndingLabel
	}
	if p.TemplateID == "" {
		p.TemplateID = domain.EndingTemplate
	}
	id := domain.NextID(EndingIDPrefix, doc.NodeIDs())

	out, err := actions.InsertNodeAfter(doc, afterID, domain.Node{
		ID:    id,
		Kind:  domain.KindScreen,
		Label: p.Label,
		Props: map[string]any{domain.PropTemplateID: p.TemplateID},
	}, opts...)
	if err != nil {
		return nil, err
	}
	return actions.MarkAsEnd(out, id, opts...)
}

func invalid(macro, format string, args ...any) error {
	err := actions.ErrInvalidArgument.Clone()
	err.Message = fmt.Sprintf(format, args...)
	return err.WithMetadata(map[string]any{"macro": macro})
}
