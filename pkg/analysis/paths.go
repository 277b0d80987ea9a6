package analysis

import (
	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/graph"
)

// sequences lists the linear runs of the canvas: chains of non-decision
// executable nodes linked by single outgoing edges. Runs shorter than two
// nodes are omitted. Each node belongs to at most one run.
func sequences(doc *domain.Canvas, ix *graph.Index) [][]string {
	visited := domain.NewIDSet()
	var out [][]string
	for _, n := range doc.Nodes {
		if !sequenceNode(n.Kind) || visited.Has(n.ID) {
			continue
		}
		var seq []string
		cur := n
		for {
			if visited.Has(cur.ID) {
				break
			}
			visited.Add(cur.ID)
			seq = append(seq, cur.ID)

			edges := ix.Outgoing(cur.ID)
			if len(edges) != 1 {
				break
			}
			next, ok := ix.Node(edges[0].To)
			if !ok || !sequenceNode(next.Kind) {
				break
			}
			cur = next
		}
		if len(seq) > 1 {
			out = append(out, seq)
		}
	}
	return out
}

func sequenceNode(k domain.Kind) bool {
	return k.Executable() && k != domain.KindDecision
}

// depths measures the longest path, in nodes, from a node to the end of
// its branch. Back edges of cycles are ignored and results are capped.
type depths struct {
	ix    *graph.Index
	limit int
	memo  map[string]int
}

func newDepths(ix *graph.Index, limit int) *depths {
	return &depths{ix: ix, limit: limit, memo: map[string]int{}}
}

func (d *depths) of(root string) int {
	if v, ok := d.memo[root]; ok {
		return v
	}
	if !d.ix.Has(root) {
		return 1
	}

	type frame struct {
		id   string
		succ []string
		next int
		best int
	}
	onStack := domain.NewIDSet(root)
	stack := []*frame{{id: root, succ: d.successors(root)}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next < len(top.succ) {
			s := top.succ[top.next]
			top.next++
			if v, ok := d.memo[s]; ok {
				top.best = max(top.best, v)
				continue
			}
			if onStack.Has(s) {
				continue
			}
			onStack.Add(s)
			stack = append(stack, &frame{id: s, succ: d.successors(s)})
			continue
		}
		v := min(1+top.best, d.limit)
		d.memo[top.id] = v
		delete(onStack, top.id)
		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			parent.best = max(parent.best, v)
		}
	}
	return d.memo[root]
}

func (d *depths) successors(id string) []string {
	n, _ := d.ix.Node(id)
	if n.Kind == domain.KindEnd {
		return nil
	}
	return d.ix.Successors(id)
}
