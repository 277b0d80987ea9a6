package macros

import (
	"github.com/aretw0/lienzo/pkg/actions"
	"github.com/aretw0/lienzo/pkg/domain"
)

// ChoiceSpec describes one option of a guided choice.
type ChoiceSpec struct {
	ID    string `json:"choice_id,omitempty"`
	Label string `json:"label,omitempty"`
	// NextLabel labels the follow-up node created for the choice.
	NextLabel string `json:"next_node_label,omitempty"`
	// AddEnding overrides GuidedChoiceParams.AddEnding for this choice.
	AddEnding *bool `json:"add_ending,omitempty"`
}

// GuidedChoiceParams configures GuidedChoice. Custom choices are only used
// when at least two are given; otherwise the decision keeps its own.
type GuidedChoiceParams struct {
	Choices   []ChoiceSpec `json:"choices,omitempty"`
	AddEnding bool         `json:"add_ending,omitempty"`
}

// GuidedChoice turns nodeID into a decision and gives every choice its own
// follow-up screen, reached through a conditional edge. Previous outgoing
// edges of the node are replaced. Choices flagged for it get an ending
// after their follow-up screen.
func GuidedChoice(doc *domain.Canvas, nodeID string, p GuidedChoiceParams, opts ...actions.Option) (*domain.Canvas, error) {
	out, err := actions.ConvertToDecision(doc, nodeID, opts...)
	if err != nil {
		return nil, err
	}
	decision, _ := out.Node(nodeID)

	specs := p.Choices
	if len(specs) < actions.MinChoices {
		specs = specs[:0:0]
		for _, c := range decision.Choices() {
			specs = append(specs, ChoiceSpec{ID: c.ID, Label: c.Label})
		}
	}

	choiceIDs := domain.NewIDSet()
	for _, s := range specs {
		if s.ID != "" {
			choiceIDs.Add(s.ID)
		}
	}
	nodeIDs := out.NodeIDs()
	edgeIDs := out.EdgeIDs()

	branches := make([]actions.Branch, len(specs))
	endings := make([]bool, len(specs))
	for i, s := range specs {
		if s.ID == "" {
			s.ID = domain.NextID("choice", choiceIDs)
			choiceIDs.Add(s.ID)
		}
		if s.Label == "" {
			s.Label = actions.DefaultChoiceLabel(i + 1)
		}
		next := s.NextLabel
		if next == "" {
			next = "Seguimiento: " + s.Label
		}
		targetID := domain.NextID("choice_"+s.ID+"_node", nodeIDs)
		nodeIDs.Add(targetID)
		edgeID := domain.NextID("edge_"+s.ID, edgeIDs)
		edgeIDs.Add(edgeID)

		branches[i] = actions.Branch{
			Choice: domain.Choice{ID: s.ID, Label: s.Label},
			Target: domain.Node{
				ID:    targetID,
				Kind:  domain.KindScreen,
				Label: next,
				Props: map[string]any{domain.PropTemplateID: domain.DefaultTemplate},
			},
			EdgeID: edgeID,
		}
		endings[i] = p.AddEnding
		if s.AddEnding != nil {
			endings[i] = *s.AddEnding
		}
	}

	out, err = actions.ReplaceBranches(out, nodeID, branches, opts...)
	if err != nil {
		return nil, err
	}

	for i, b := range branches {
		if !endings[i] {
			continue
		}
		out, err = AppendStandardEnding(out, b.Target.ID, EndingParams{
			Label: "Finalización: " + b.Choice.Label,
		}, opts...)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// BranchSpec describes one branch of a branching path.
type BranchSpec struct {
	// Label names the branch's follow-up node.
	Label string `json:"label,omitempty"`
	// ChoiceLabel is shown on the decision; it defaults to Label.
	ChoiceLabel string `json:"choice_label,omitempty"`
	// AddEnding defaults to true.
	AddEnding *bool `json:"add_ending,omitempty"`
}

// BranchingParams configures BranchingPath. Nil branches mean two default
// branches.
type BranchingParams struct {
	Branches      []BranchSpec `json:"branches,omitempty"`
	DecisionLabel string       `json:"decision_label,omitempty"`
}

// BranchingPath inserts a new decision after afterID and fans it out into
// one branch per BranchSpec.
func BranchingPath(doc *domain.Canvas, afterID string, p BranchingParams, opts ...actions.Option) (*domain.Canvas, error) {
	if doc == nil {
		return nil, invalid(MacroBranchingPath, "canvas document is required")
	}
	branches := p.Branches
	if branches == nil {
		branches = []BranchSpec{{Label: "Rama 1"}, {Label: "Rama 2"}}
	}
	if len(branches) < 2 {
		return nil, invalid(MacroBranchingPath, "a branching path needs at least 2 branches, got %d", len(branches))
	}
	label := p.DecisionLabel
	if label == "" {
		label = DefaultDecisionLabel
	}

	specs := make([]ChoiceSpec, len(branches))
	choices := make([]domain.Choice, len(branches))
	for i, b := range branches {
		choiceLabel := b.ChoiceLabel
		if choiceLabel == "" {
			choiceLabel = b.Label
		}
		if choiceLabel == "" {
			choiceLabel = actions.DefaultChoiceLabel(i + 1)
		}
		next := b.Label
		if next == "" {
			next = "Rama " + itoa(i+1)
		}
		ending := true
		if b.AddEnding != nil {
			ending = *b.AddEnding
		}
		id := "choice_" + itoa(i+1)
		choices[i] = domain.Choice{ID: id, Label: choiceLabel}
		specs[i] = ChoiceSpec{ID: id, Label: choiceLabel, NextLabel: next, AddEnding: &ending}
	}

	decisionID := domain.NextID(DecisionIDPrefix, doc.NodeIDs())
	out, err := actions.InsertNodeAfter(doc, afterID, domain.Node{
		ID:    decisionID,
		Kind:  domain.KindDecision,
		Label: label,
		Props: map[string]any{domain.PropChoices: domain.ChoicesValue(choices)},
	}, opts...)
	if err != nil {
		return nil, err
	}
	return GuidedChoice(out, decisionID, GuidedChoiceParams{Choices: specs}, opts...)
}
