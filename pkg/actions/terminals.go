package actions

import "github.com/aretw0/lienzo/pkg/domain"

// MarkAsStart promotes nodeID to the start node. Any other start node is
// demoted to a blank screen, incoming edges of both are removed, and the
// entry is moved to nodeID.
func MarkAsStart(doc *domain.Canvas, nodeID string, opts ...Option) (*domain.Canvas, error) {
	return run(ActionMarkAsStart, doc, opts, func(doc *domain.Canvas) error {
		i, err := indexOf(ActionMarkAsStart, doc, nodeID)
		if err != nil {
			return err
		}
		stripped := domain.NewIDSet(nodeID)
		for j, n := range doc.Nodes {
			if n.Kind != domain.KindStart || n.ID == nodeID {
				continue
			}
			n.Kind = domain.KindScreen
			if n.StringProp(domain.PropTemplateID) == "" {
				n.SetProp(domain.PropTemplateID, domain.DefaultTemplate)
			}
			doc.Nodes[j] = n
			stripped.Add(n.ID)
		}
		doc.Nodes[i].Kind = domain.KindStart
		doc.RemoveEdges(func(e domain.Edge) bool { return stripped.Has(e.To) })
		doc.EntryNodeID = nodeID
		return nil
	})
}

// MarkAsEnd retypes nodeID as an end node and removes its outgoing edges.
// The start node cannot be marked as an end.
func MarkAsEnd(doc *domain.Canvas, nodeID string, opts ...Option) (*domain.Canvas, error) {
	return run(ActionMarkAsEnd, doc, opts, func(doc *domain.Canvas) error {
		i, err := indexOf(ActionMarkAsEnd, doc, nodeID)
		if err != nil {
			return err
		}
		switch doc.Nodes[i].Kind {
		case domain.KindEnd:
			return nil
		case domain.KindStart:
			return invalidArgument(ActionMarkAsEnd, "the start node %q cannot be marked as an end", nodeID)
		}
		doc.Nodes[i].Kind = domain.KindEnd
		doc.RemoveEdges(func(e domain.Edge) bool { return e.From == nodeID })
		return nil
	})
}
