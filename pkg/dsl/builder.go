package dsl

import (
	"github.com/aretw0/lienzo/pkg/domain"
)

// Builder manages the canvas construction.
type Builder struct {
	id    string
	name  string
	order []string
	nodes map[string]*NodeBuilder
	edges []domain.Edge
}

// New creates a new canvas builder for the given document id.
func New(id string) *Builder {
	return &Builder{
		id:    id,
		nodes: make(map[string]*NodeBuilder),
	}
}

// Name sets the display name of the canvas.
func (b *Builder) Name(name string) *Builder {
	b.name = name
	return b
}

// Add creates a new node in the canvas.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{
			ID:    id,
			Kind:  domain.KindScreen,
			Label: id,
			Props: map[string]any{},
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Start adds the start node.
func (b *Builder) Start(id string) *NodeBuilder {
	return b.Add(id).Kind(domain.KindStart).Label(domain.DefaultStartLabel)
}

// End adds an end node.
func (b *Builder) End(id string) *NodeBuilder {
	return b.Add(id).Kind(domain.KindEnd)
}

// Screen adds a screen node rendering the given template.
func (b *Builder) Screen(id, template string) *NodeBuilder {
	return b.Add(id).Kind(domain.KindScreen).Prop(domain.PropTemplateID, template)
}

// Decision adds a decision node without choices.
func (b *Builder) Decision(id string) *NodeBuilder {
	return b.Add(id).Kind(domain.KindDecision).Prop(domain.PropChoices, []any{})
}

// Condition adds a condition node of the given condition type.
func (b *Builder) Condition(id, conditionType string) *NodeBuilder {
	return b.Add(id).Kind(domain.KindCondition).Prop(domain.PropConditionType, conditionType)
}

// Delay adds a delay node lasting the given number of seconds.
func (b *Builder) Delay(id string, seconds float64) *NodeBuilder {
	return b.Add(id).Kind(domain.KindDelay).Prop(domain.PropDurationSeconds, seconds)
}

// Build assembles the canvas. Nodes keep declaration order; the entry points
// at the first start node. Edge ids are derived from their endpoints.
func (b *Builder) Build() *domain.Canvas {
	doc := &domain.Canvas{
		Version: domain.SchemaVersion,
		ID:      b.id,
		Name:    b.name,
		Nodes:   make([]domain.Node, 0, len(b.order)),
		Edges:   make([]domain.Edge, 0, len(b.edges)),
	}
	for _, id := range b.order {
		n := b.nodes[id].node
		n.Props = domain.CopyMap(n.Props)
		n.Meta = domain.CopyMap(n.Meta)
		doc.Nodes = append(doc.Nodes, n)
		if n.Kind == domain.KindStart && doc.EntryNodeID == "" {
			doc.EntryNodeID = n.ID
		}
	}

	ids := domain.NewIDSet()
	for _, e := range b.edges {
		if e.ID == "" {
			e.ID = domain.UniqueID("edge_"+e.From+"_"+e.To, ids)
		}
		ids.Add(e.ID)
		doc.Edges = append(doc.Edges, e)
	}
	return doc
}
