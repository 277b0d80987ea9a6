package actions

import (
	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/normalize"
)

// InsertNodeAfter adds n right after the node afterID.
//
// When afterID has outgoing edges they are moved to leave from the new node
// and a single edge afterID → n is added, splicing n inline. Otherwise the
// edge afterID → n is the only one added. A missing or taken id on n is
// replaced by the next free node_N; kind defaults to screen and the label
// to the id.
func InsertNodeAfter(doc *domain.Canvas, afterID string, n domain.Node, opts ...Option) (*domain.Canvas, error) {
	return run(ActionInsertNodeAfter, doc, opts, func(doc *domain.Canvas) error {
		i, err := indexOf(ActionInsertNodeAfter, doc, afterID)
		if err != nil {
			return err
		}
		if n.Kind != "" && !n.Kind.Valid() {
			return invalidArgument(ActionInsertNodeAfter, "unknown node kind %q", n.Kind)
		}
		anchor := doc.Nodes[i]
		added := newNode(doc, n, anchor.Position)

		for j := range doc.Edges {
			if doc.Edges[j].From == afterID {
				doc.Edges[j].From = added.ID
			}
		}
		doc.Nodes = append(doc.Nodes, added)
		doc.Edges = append(doc.Edges, domain.Edge{
			ID:   domain.NextID("edge", doc.EdgeIDs()),
			From: afterID,
			To:   added.ID,
			Kind: domain.TransitionDirect,
		})
		return nil
	})
}

// newNode completes n for insertion into doc next to a node at anchor.
func newNode(doc *domain.Canvas, n domain.Node, anchor domain.Position) domain.Node {
	ids := doc.NodeIDs()
	if n.ID == "" || ids.Has(n.ID) {
		n.ID = domain.NextID("node", ids)
	}
	if n.Kind == "" {
		n.Kind = domain.KindScreen
	}
	if n.Label == "" {
		n.Label = n.ID
	}
	if n.Position == (domain.Position{}) {
		n.Position = domain.Position{X: anchor.X + 300, Y: anchor.Y}
	}
	n.Props = domain.DeepCopyMap(n.Props)
	n.Meta = domain.DeepCopyMap(n.Meta)
	return normalize.KindDefaults(n)
}
