package actions

import (
	"strconv"

	"github.com/aretw0/lienzo/pkg/domain"
)

// MinChoices is the number of choices a converted decision is padded to.
const MinChoices = 2

// DefaultChoiceLabel returns the placeholder label of the n-th choice.
func DefaultChoiceLabel(n int) string {
	return "Opción " + strconv.Itoa(n)
}

// ConvertToDecision retypes nodeID as a decision with at least two
// choices. Converting a node that already is a decision only normalizes
// the document.
func ConvertToDecision(doc *domain.Canvas, nodeID string, opts ...Option) (*domain.Canvas, error) {
	return run(ActionConvertToDecision, doc, opts, func(doc *domain.Canvas) error {
		i, err := indexOf(ActionConvertToDecision, doc, nodeID)
		if err != nil {
			return err
		}
		n := doc.Nodes[i]
		if n.Kind == domain.KindDecision {
			return nil
		}
		n.Kind = domain.KindDecision

		choices := n.Choices()
		ids := domain.NewIDSet()
		for _, c := range choices {
			ids.Add(c.ID)
		}
		for len(choices) < MinChoices {
			id := domain.NextID("choice", ids)
			ids.Add(id)
			choices = append(choices, domain.Choice{ID: id, Label: DefaultChoiceLabel(len(choices) + 1)})
		}
		n.SetProp(domain.PropChoices, domain.ChoicesValue(choices))
		doc.Nodes[i] = n
		return nil
	})
}

// Branch pairs a decision choice with the node taken when it is picked.
type Branch struct {
	Choice domain.Choice
	// Target is added to the canvas unless a node with its id exists, in
	// which case the existing node is reused.
	Target domain.Node
	// EdgeID names the conditional edge; a free edge_N is used when empty.
	EdgeID string
}

// ReplaceBranches sets the choices of the decision nodeID and replaces all
// its outgoing edges with one conditional edge per branch, labeled with the
// choice label.
func ReplaceBranches(doc *domain.Canvas, nodeID string, branches []Branch, opts ...Option) (*domain.Canvas, error) {
	return run(ActionReplaceBranches, doc, opts, func(doc *domain.Canvas) error {
		i, err := indexOf(ActionReplaceBranches, doc, nodeID)
		if err != nil {
			return err
		}
		decision := doc.Nodes[i]
		if decision.Kind != domain.KindDecision {
			return invalidArgument(ActionReplaceBranches, "node %q is a %s, not a decision", nodeID, decision.Kind)
		}
		if len(branches) == 0 {
			return invalidArgument(ActionReplaceBranches, "at least one branch is required")
		}
		seen := domain.NewIDSet()
		choices := make([]domain.Choice, 0, len(branches))
		for _, b := range branches {
			if b.Choice.ID == "" {
				return invalidArgument(ActionReplaceBranches, "branch choice id is required")
			}
			if seen.Has(b.Choice.ID) {
				return invalidArgument(ActionReplaceBranches, "duplicate choice id %q", b.Choice.ID)
			}
			if b.Target.Kind == domain.KindStart {
				return invalidArgument(ActionReplaceBranches, "a branch cannot lead to a start node")
			}
			seen.Add(b.Choice.ID)
			choices = append(choices, b.Choice)
		}

		decision.SetProp(domain.PropChoices, domain.ChoicesValue(choices))
		doc.Nodes[i] = decision
		doc.RemoveEdges(func(e domain.Edge) bool { return e.From == nodeID })

		for k, b := range branches {
			target := b.Target.ID
			if target == "" || doc.NodeIndex(target) < 0 {
				anchor := domain.Position{X: decision.Position.X, Y: decision.Position.Y + float64(k)*150}
				added := newNode(doc, b.Target, anchor)
				doc.Nodes = append(doc.Nodes, added)
				target = added.ID
			}

			edgeIDs := doc.EdgeIDs()
			id := b.EdgeID
			if id == "" || edgeIDs.Has(id) {
				id = domain.NextID("edge", edgeIDs)
			}
			doc.Edges = append(doc.Edges, domain.Edge{
				ID:        id,
				From:      nodeID,
				To:        target,
				Kind:      domain.TransitionConditional,
				Condition: domain.ChoiceCondition(b.Choice.ID),
				Label:     b.Choice.Label,
			})
		}
		return nil
	})
}
