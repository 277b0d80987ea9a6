// Package repair reconnects end nodes that cannot be reached from the
// entry of a canvas.
//
// Repair is purely additive: it only ever adds direct edges pointing into
// end nodes, so it can run after any edit without destroying work.
package repair

import (
	"log/slog"

	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/graph"
)

type config struct {
	logger *slog.Logger
}

// Option configures a repair run.
type Option func(*config)

// WithLogger sets a logger that records every added edge at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// UnreachableEnds returns a copy of doc in which every end node that is not
// reachable from the root has an incoming edge from a reachable node.
//
// The anchor node is chosen once per document, in order of preference:
// the deepest reachable leaf (excluding start and end), the deepest
// reachable non-end node with outgoing edges, the first node the root
// points to, and finally the root itself. Ties go to BFS order. Existing
// from/to pairs are never duplicated.
func UnreachableEnds(doc *domain.Canvas, opts ...Option) *domain.Canvas {
	if doc == nil {
		return nil
	}
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	out := doc.Clone()
	added := Plan(doc)
	out.Edges = append(out.Edges, added...)

	if cfg.logger != nil {
		for _, e := range added {
			cfg.logger.Debug("reconnected end node",
				slog.String("canvas_id", doc.ID),
				slog.String("edge_id", e.ID),
				slog.String("from", e.From),
				slog.String("to", e.To),
			)
		}
	}
	return out
}

// Plan computes the edges UnreachableEnds would add, without applying them.
func Plan(doc *domain.Canvas) []domain.Edge {
	if doc == nil {
		return nil
	}
	root := graph.Root(doc)
	if root == "" {
		return nil
	}
	ix := graph.NewIndex(doc)
	walk := ix.BFS(root)

	var ends []string
	seen := domain.NewIDSet()
	for _, n := range doc.Nodes {
		if n.Kind == domain.KindEnd && !walk.Reached(n.ID) && !seen.Has(n.ID) {
			seen.Add(n.ID)
			ends = append(ends, n.ID)
		}
	}
	if len(ends) == 0 {
		return nil
	}

	anchor := pickAnchor(ix, walk, root)
	if anchor == "" {
		return nil
	}

	edgeIDs := doc.EdgeIDs()
	var added []domain.Edge
	for _, end := range ends {
		if doc.HasEdge(anchor, end) {
			continue
		}
		id := domain.NextID("edge", edgeIDs)
		edgeIDs.Add(id)
		added = append(added, domain.Edge{
			ID:   id,
			From: anchor,
			To:   end,
			Kind: domain.TransitionDirect,
		})
	}
	return added
}

func pickAnchor(ix *graph.Index, walk graph.Traversal, root string) string {
	kindOf := func(id string) domain.Kind {
		n, _ := ix.Node(id)
		return n.Kind
	}

	deepest := func(accept func(id string) bool) string {
		best, depth := "", -1
		for _, id := range walk.Order {
			if accept(id) && walk.Depth[id] > depth {
				best, depth = id, walk.Depth[id]
			}
		}
		return best
	}

	if leaf := deepest(func(id string) bool {
		k := kindOf(id)
		return k != domain.KindStart && k != domain.KindEnd && ix.OutDegree(id) == 0
	}); leaf != "" {
		return leaf
	}

	if branch := deepest(func(id string) bool {
		return kindOf(id) != domain.KindEnd && ix.OutDegree(id) > 0
	}); branch != "" {
		return branch
	}

	if next := ix.Successors(root); len(next) > 0 && kindOf(next[0]) != domain.KindEnd {
		return next[0]
	}

	if kindOf(root) != domain.KindEnd {
		return root
	}
	return ""
}
