package validate

import (
	"strings"

	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/graph"
)

func (v *validator) loops() {
	cycles, truncated := simpleCycles(v.ix, v.doc, v.cfg.maxCycles)
	if truncated {
		v.warnf(CodeCycleLimit, "", "", "cycle enumeration stopped after %d cycles", v.cfg.maxCycles)
	}

	for _, cycle := range cycles {
		if v.hasConditionalEdge(cycle) {
			continue
		}
		end := false
		for id := range v.ix.ReachableFrom(cycle...) {
			if n, _ := v.ix.Node(id); n.Kind == domain.KindEnd {
				end = true
				break
			}
		}
		rendered := strings.Join(append(append([]string(nil), cycle...), cycle[0]), " → ")
		issue := Issue{NodeID: cycle[0], Path: cycle}
		if end {
			issue.Code, issue.Severity = CodeLoopWithoutExit, SeverityWarning
			issue.Message = "loop without an explicit exit condition: " + rendered
			v.warnings = append(v.warnings, issue)
			continue
		}
		issue.Code, issue.Severity = CodeInfiniteLoop, SeverityError
		issue.Message = "infinite loop with no exit: " + rendered
		v.errors = append(v.errors, issue)
	}
}

// hasConditionalEdge reports whether any hop of the cycle can be taken
// through a conditional edge.
func (v *validator) hasConditionalEdge(cycle []string) bool {
	for i, from := range cycle {
		to := cycle[(i+1)%len(cycle)]
		for _, e := range v.ix.Outgoing(from) {
			if e.To == to && e.Conditional() {
				return true
			}
		}
	}
	return false
}

type frame struct {
	id   string
	succ []string
	next int
}

// simpleCycles enumerates every elementary cycle of the graph exactly once.
// Each cycle is rooted at its member that comes first in document order, and
// the search from a root only visits later nodes that can reach back to it.
// The walk is iterative so deep graphs cannot exhaust the stack.
func simpleCycles(ix *graph.Index, doc *domain.Canvas, limit int) (cycles [][]string, truncated bool) {
	pos := make(map[string]int, len(doc.Nodes))
	var order []string
	for _, n := range doc.Nodes {
		if n.ID == "" {
			continue
		}
		if _, dup := pos[n.ID]; dup {
			continue
		}
		pos[n.ID] = len(order)
		order = append(order, n.ID)
	}

	for _, root := range order {
		rootPos := pos[root]
		allowed := func(id string) bool { return pos[id] >= rootPos }
		back := reachesBack(ix, root, allowed)

		path := []string{root}
		onPath := domain.NewIDSet(root)
		stack := []frame{{id: root, succ: ix.Successors(root)}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next >= len(top.succ) {
				delete(onPath, top.id)
				path = path[:len(path)-1]
				stack = stack[:len(stack)-1]
				continue
			}
			next := top.succ[top.next]
			top.next++

			if next == root {
				if len(cycles) == limit {
					return cycles, true
				}
				cycles = append(cycles, append([]string(nil), path...))
				continue
			}
			if onPath.Has(next) || !allowed(next) || !back.Has(next) {
				continue
			}
			path = append(path, next)
			onPath.Add(next)
			stack = append(stack, frame{id: next, succ: ix.Successors(next)})
		}
	}
	return cycles, false
}

// reachesBack returns the allowed nodes from which root can be reached.
func reachesBack(ix *graph.Index, root string, allowed func(string) bool) domain.IDSet {
	seen := domain.NewIDSet(root)
	queue := []string{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, e := range ix.Incoming(id) {
			if !ix.Has(e.From) || !allowed(e.From) || seen.Has(e.From) {
				continue
			}
			seen.Add(e.From)
			queue = append(queue, e.From)
		}
	}
	return seen
}
