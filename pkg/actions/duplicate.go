package actions

import (
	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/graph"
)

// DuplicateOffset is added to the position of every copied node.
var DuplicateOffset = domain.Position{X: 200, Y: 200}

// DuplicateSubgraph copies every node reachable from rootID together with
// the edges between them. Copies are named <id>_copy_N and are not
// connected to the rest of the canvas. The start node cannot be the root.
func DuplicateSubgraph(doc *domain.Canvas, rootID string, opts ...Option) (*domain.Canvas, error) {
	return run(ActionDuplicateSubgraph, doc, opts, func(doc *domain.Canvas) error {
		i, err := indexOf(ActionDuplicateSubgraph, doc, rootID)
		if err != nil {
			return err
		}
		if doc.Nodes[i].Kind == domain.KindStart {
			return invalidArgument(ActionDuplicateSubgraph, "the start node %q cannot be duplicated", rootID)
		}

		ix := graph.NewIndex(doc)
		walk := ix.BFS(rootID)

		nodeIDs := doc.NodeIDs()
		renamed := make(map[string]string, len(walk.Order))
		copies := make([]domain.Node, 0, len(walk.Order))
		for _, id := range walk.Order {
			n, _ := ix.Node(id)
			if n.Kind == domain.KindStart {
				// A reachable start would be a second start once copied.
				continue
			}
			cp := n
			cp.ID = domain.NextID(id+"_copy", nodeIDs)
			nodeIDs.Add(cp.ID)
			cp.Position = domain.Position{X: n.Position.X + DuplicateOffset.X, Y: n.Position.Y + DuplicateOffset.Y}
			cp.Props = domain.DeepCopyMap(n.Props)
			cp.Meta = domain.DeepCopyMap(n.Meta)
			renamed[id] = cp.ID
			copies = append(copies, cp)
		}

		edgeIDs := doc.EdgeIDs()
		var edges []domain.Edge
		for _, e := range doc.Edges {
			from, okFrom := renamed[e.From]
			to, okTo := renamed[e.To]
			if !okFrom || !okTo {
				continue
			}
			cp := e
			cp.ID = domain.NextID(e.ID+"_copy", edgeIDs)
			edgeIDs.Add(cp.ID)
			cp.From, cp.To = from, to
			if cp.Kind == "" {
				cp.Kind = domain.TransitionDirect
			}
			if e.Condition != nil {
				cp.Condition = &domain.Condition{Type: e.Condition.Type, Params: domain.DeepCopyMap(e.Condition.Params)}
			}
			edges = append(edges, cp)
		}

		doc.Nodes = append(doc.Nodes, copies...)
		doc.Edges = append(doc.Edges, edges...)
		return nil
	})
}
