package macros

import (
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/lienzo/pkg/actions"
	"github.com/aretw0/lienzo/pkg/domain"
)

// Macro names as listed by Catalog and accepted by Apply.
const (
	MacroStandardEnding = "insert_standard_ending"
	MacroGuidedChoice   = "create_guided_choice"
	MacroBranchingPath  = "create_branching_path"
	MacroLinearSequence = "create_linear_sequence"
)

// Param documents one parameter of a macro.
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description"`
}

// Descriptor documents a macro.
type Descriptor struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params"`
}

// Catalog lists the available macros.
func Catalog() []Descriptor {
	node := Param{Name: "node_id", Type: "string", Required: true, Description: "node the macro is applied to"}
	return []Descriptor{
		{
			Name:        MacroStandardEnding,
			Description: "Insert a standard ending after a node",
			Params: []Param{
				node,
				{Name: "label", Type: "string", Default: DefaultEndingLabel, Description: "label of the ending node"},
				{Name: "template_id", Type: "string", Default: domain.EndingTemplate, Description: "screen template of the ending"},
			},
		},
		{
			Name:        MacroGuidedChoice,
			Description: "Turn a node into a decision with a follow-up node per choice",
			Params: []Param{
				node,
				{Name: "choices", Type: "[]{choice_id, label, next_node_label, add_ending}", Description: "custom choices, used when at least two are given"},
				{Name: "add_ending", Type: "bool", Default: "false", Description: "append an ending after every follow-up node"},
			},
		},
		{
			Name:        MacroBranchingPath,
			Description: "Insert a decision after a node and fan it out into branches",
			Params: []Param{
				node,
				{Name: "branches", Type: "[]{label, choice_label, add_ending}", Default: "2 branches", Description: "one entry per branch, at least two"},
				{Name: "decision_label", Type: "string", Default: DefaultDecisionLabel, Description: "label of the decision node"},
			},
		},
		{
			Name:        MacroLinearSequence,
			Description: "Chain a list of nodes after a node",
			Params: []Param{
				node,
				{Name: "nodes", Type: "[]node", Required: true, Description: "nodes to insert, in order"},
				{Name: "add_ending", Type: "bool", Default: "false", Description: "append an ending after the last node"},
			},
		},
	}
}

// Apply runs the macro called name on nodeID, decoding params into the
// macro's parameter struct.
func Apply(doc *domain.Canvas, name, nodeID string, params map[string]any, opts ...actions.Option) (*domain.Canvas, error) {
	switch name {
	case MacroStandardEnding:
		var p EndingParams
		if err := decode(name, params, &p); err != nil {
			return nil, err
		}
		return AppendStandardEnding(doc, nodeID, p, opts...)
	case MacroGuidedChoice:
		var p GuidedChoiceParams
		if err := decode(name, params, &p); err != nil {
			return nil, err
		}
		return GuidedChoice(doc, nodeID, p, opts...)
	case MacroBranchingPath:
		var p BranchingParams
		if err := decode(name, params, &p); err != nil {
			return nil, err
		}
		return BranchingPath(doc, nodeID, p, opts...)
	case MacroLinearSequence:
		var p SequenceParams
		if err := decode(name, params, &p); err != nil {
			return nil, err
		}
		return LinearSequence(doc, nodeID, p, opts...)
	default:
		return nil, invalid(name, "unknown macro %q", name)
	}
}

func decode(macro string, params map[string]any, out any) error {
	if len(params) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return invalid(macro, "invalid parameters: %v", err)
	}
	return nil
}
