package dsl

import "github.com/aretw0/lienzo/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.Node
	builder *Builder
}

// Kind sets the node kind.
func (n *NodeBuilder) Kind(k domain.Kind) *NodeBuilder {
	n.node.Kind = k
	return n
}

// Label sets the display label.
func (n *NodeBuilder) Label(label string) *NodeBuilder {
	n.node.Label = label
	return n
}

// At sets the layout position.
func (n *NodeBuilder) At(x, y float64) *NodeBuilder {
	n.node.Position = domain.Position{X: x, Y: y}
	return n
}

// Prop sets a property of the node's bag.
func (n *NodeBuilder) Prop(key string, value any) *NodeBuilder {
	n.node.SetProp(key, value)
	return n
}

// Meta sets a pedagogical metadata entry.
func (n *NodeBuilder) Meta(key string, value any) *NodeBuilder {
	if n.node.Meta == nil {
		n.node.Meta = make(map[string]any)
	}
	n.node.Meta[key] = value
	return n
}

// Choice appends a choice to a decision node.
func (n *NodeBuilder) Choice(id, label string) *NodeBuilder {
	choices := append(n.node.Choices(), domain.Choice{ID: id, Label: label})
	n.node.SetProp(domain.PropChoices, domain.ChoicesValue(choices))
	return n
}

// Go adds a direct edge to the target node.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	n.builder.edges = append(n.builder.edges, domain.Edge{
		From: n.node.ID,
		To:   target,
		Kind: domain.TransitionDirect,
	})
	return n
}

// Branch adds a conditional edge to the target node. A nil condition
// produces a conditional edge without payload.
func (n *NodeBuilder) Branch(cond *domain.Condition, target string) *NodeBuilder {
	n.builder.edges = append(n.builder.edges, domain.Edge{
		From:      n.node.ID,
		To:        target,
		Kind:      domain.TransitionConditional,
		Condition: cond,
	})
	return n
}

// When adds the conditional edge taken when the given choice is picked.
func (n *NodeBuilder) When(choiceID, target string) *NodeBuilder {
	return n.Branch(domain.ChoiceCondition(choiceID), target)
}

// Build returns the underlying domain.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.Node {
	return n.node
}
