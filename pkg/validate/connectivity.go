package validate

import (
	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/graph"
)

func (v *validator) connectivity() {
	doc := v.doc

	starts := doc.NodesOfKind(domain.KindStart)
	switch len(starts) {
	case 0:
		v.errorf(CodeStartCount, "", "", "canvas must have exactly one start node, found none")
	case 1:
		if v.ix.OutDegree(starts[0].ID) == 0 {
			v.errorf(CodeStartNoOutgoing, starts[0].ID, "", "start node %q must have at least one outgoing edge", starts[0].ID)
		}
	default:
		v.errorf(CodeStartCount, starts[1].ID, "", "canvas must have exactly one start node, found %d", len(starts))
	}

	if entry, ok := v.ix.Node(doc.EntryNodeID); ok && entry.Kind != domain.KindStart {
		v.errorf(CodeEntryNotStart, entry.ID, "", "entry_node_id %q must reference the start node", entry.ID)
	}

	orphans := domain.NewIDSet()
	for _, n := range doc.Nodes {
		if n.ID == "" || !n.Kind.Executable() {
			continue
		}
		if v.ix.InDegree(n.ID) == 0 && v.ix.OutDegree(n.ID) == 0 {
			orphans.Add(n.ID)
			v.warnf(CodeOrphan, n.ID, "", "node %q is orphaned (no incoming or outgoing edges)", n.ID)
		}
	}

	root := graph.Root(doc)
	if root == "" {
		return
	}
	reached := v.ix.BFS(root)

	reachableEnds := 0
	for _, n := range doc.Nodes {
		if n.Kind == domain.KindEnd && reached.Reached(n.ID) {
			reachableEnds++
		}
		if n.ID == "" || reached.Reached(n.ID) {
			continue
		}
		switch n.Kind {
		case domain.KindEnd:
			v.errorf(CodeEndUnreachable, n.ID, "", "end node %q is unreachable from %q", n.ID, root)
		case domain.KindStart, domain.KindGroup, domain.KindComment:
		case domain.KindScreen, domain.KindDecision, domain.KindCondition, domain.KindDelay:
			if !orphans.Has(n.ID) {
				v.warnf(CodeUnreachable, n.ID, "", "node %q is unreachable from %q", n.ID, root)
			}
		default:
		}
	}

	if reachableEnds == 0 {
		v.warnf(CodeNoReachableEnd, "", "", "no end node is reachable from %q; no path can finish", root)
		if v.strict() {
			v.errorf(CodeNoReachableEnd, "", "", "publishing requires a reachable end node")
		}
	}
}
