// Package graph provides read-only traversal helpers over a canvas.
package graph

import "github.com/aretw0/lienzo/pkg/domain"

// Index is an adjacency view of a canvas built once per operation.
type Index struct {
	doc   *domain.Canvas
	nodes map[string]int
	out   map[string][]int
	in    map[string][]int
}

// NewIndex indexes doc. When node ids repeat, the first occurrence wins.
func NewIndex(doc *domain.Canvas) *Index {
	ix := &Index{
		doc:   doc,
		nodes: make(map[string]int, len(doc.Nodes)),
		out:   make(map[string][]int),
		in:    make(map[string][]int),
	}
	for i, n := range doc.Nodes {
		if _, dup := ix.nodes[n.ID]; !dup {
			ix.nodes[n.ID] = i
		}
	}
	for i, e := range doc.Edges {
		ix.out[e.From] = append(ix.out[e.From], i)
		ix.in[e.To] = append(ix.in[e.To], i)
	}
	return ix
}

// Node returns the node with the given id.
func (ix *Index) Node(id string) (domain.Node, bool) {
	i, ok := ix.nodes[id]
	if !ok {
		return domain.Node{}, false
	}
	return ix.doc.Nodes[i], true
}

// Has reports whether a node with the given id exists.
func (ix *Index) Has(id string) bool {
	_, ok := ix.nodes[id]
	return ok
}

// Outgoing returns the edges leaving id in document order.
func (ix *Index) Outgoing(id string) []domain.Edge {
	return ix.edges(ix.out[id])
}

// Incoming returns the edges entering id in document order.
func (ix *Index) Incoming(id string) []domain.Edge {
	return ix.edges(ix.in[id])
}

// OutDegree is the number of edges leaving id.
func (ix *Index) OutDegree(id string) int { return len(ix.out[id]) }

// InDegree is the number of edges entering id.
func (ix *Index) InDegree(id string) int { return len(ix.in[id]) }

func (ix *Index) edges(idx []int) []domain.Edge {
	out := make([]domain.Edge, 0, len(idx))
	for _, i := range idx {
		out = append(out, ix.doc.Edges[i])
	}
	return out
}

// Successors returns the distinct existing targets of id, in edge order.
func (ix *Index) Successors(id string) []string {
	seen := domain.NewIDSet()
	var out []string
	for _, i := range ix.out[id] {
		to := ix.doc.Edges[i].To
		if !ix.Has(to) || seen.Has(to) {
			continue
		}
		seen.Add(to)
		out = append(out, to)
	}
	return out
}

// Root resolves the traversal root of doc: the entry node when it is a
// start node, otherwise the first start node, otherwise the entry node when
// it exists. It returns "" when none of these exist.
func Root(doc *domain.Canvas) string {
	if doc == nil {
		return ""
	}
	if n, ok := doc.Node(doc.EntryNodeID); ok && n.Kind == domain.KindStart {
		return n.ID
	}
	for _, n := range doc.Nodes {
		if n.Kind == domain.KindStart {
			return n.ID
		}
	}
	if doc.EntryNodeID != "" && doc.NodeIndex(doc.EntryNodeID) >= 0 {
		return doc.EntryNodeID
	}
	return ""
}

// Traversal is the result of a breadth-first walk.
type Traversal struct {
	// Order lists reached node ids in visit order, root first.
	Order []string
	// Depth is the BFS depth of each reached node.
	Depth map[string]int
}

// Reached reports whether id was visited.
func (t Traversal) Reached(id string) bool {
	_, ok := t.Depth[id]
	return ok
}

// BFS walks outgoing edges from root.
func (ix *Index) BFS(root string) Traversal {
	t := Traversal{Depth: make(map[string]int)}
	if !ix.Has(root) {
		return t
	}
	queue := []string{root}
	t.Depth[root] = 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		t.Order = append(t.Order, id)
		for _, next := range ix.Successors(id) {
			if _, seen := t.Depth[next]; seen {
				continue
			}
			t.Depth[next] = t.Depth[id] + 1
			queue = append(queue, next)
		}
	}
	return t
}

// ReachableFrom returns every node reachable from the given roots.
func (ix *Index) ReachableFrom(roots ...string) domain.IDSet {
	seen := domain.NewIDSet()
	var stack []string
	for _, r := range roots {
		if ix.Has(r) && !seen.Has(r) {
			seen.Add(r)
			stack = append(stack, r)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range ix.Successors(id) {
			if !seen.Has(next) {
				seen.Add(next)
				stack = append(stack, next)
			}
		}
	}
	return seen
}
