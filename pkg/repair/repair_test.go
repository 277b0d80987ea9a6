package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/dsl"
	"github.com/aretw0/lienzo/pkg/graph"
	"github.com/aretw0/lienzo/pkg/normalize"
	"github.com/aretw0/lienzo/pkg/validate"
)

func TestUnreachableEnds_ConnectsFromLeaf(t *testing.T) {
	b := dsl.New("c1")
	b.Start("start").Go("a")
	b.Add("a").Go("b")
	b.Add("b")
	b.End("fin")
	doc := b.Build()
	before := doc.DeepCopy()

	out := UnreachableEnds(doc)

	assert.Equal(t, before, doc, "input must not be modified")
	require.Len(t, out.Edges, len(doc.Edges)+1)
	assert.Equal(t, doc.Edges, out.Edges[:len(doc.Edges)], "existing edges are untouched")
	assert.Equal(t, domain.Edge{ID: "edge_1", From: "b", To: "fin", Kind: domain.TransitionDirect}, out.Edges[len(out.Edges)-1])
	assert.Equal(t, doc.Nodes, out.Nodes)
}

func TestUnreachableEnds_Anchor(t *testing.T) {
	tests := []struct {
		name   string
		build  func(b *dsl.Builder)
		anchor string
	}{
		{
			name: "deepest leaf wins",
			build: func(b *dsl.Builder) {
				b.Start("start").Go("a")
				b.Add("a").Go("b").Go("c")
				b.Add("b")
				b.Add("c").Go("d")
				b.Add("d")
			},
			anchor: "d",
		},
		{
			name: "ties go to traversal order",
			build: func(b *dsl.Builder) {
				b.Start("start").Go("x").Go("y")
				b.Add("x")
				b.Add("y")
			},
			anchor: "x",
		},
		{
			name: "deepest node with outgoing edges when there is no leaf",
			build: func(b *dsl.Builder) {
				b.Start("start").Go("a")
				b.Add("a").Go("b")
				b.Add("b").Go("a")
			},
			anchor: "b",
		},
		{
			name: "reachable end is not a leaf candidate",
			build: func(b *dsl.Builder) {
				b.Start("start").Go("a")
				b.Add("a").Go("done")
				b.End("done")
			},
			anchor: "a",
		},
		{
			name: "bare start connects directly",
			build: func(b *dsl.Builder) {
				b.Start("start")
			},
			anchor: "start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := dsl.New("c1")
			tt.build(b)
			b.End("fin")

			added := Plan(b.Build())
			require.Len(t, added, 1)
			assert.Equal(t, tt.anchor, added[0].From)
			assert.Equal(t, "fin", added[0].To)
		})
	}
}

func TestUnreachableEnds_SharedAnchor(t *testing.T) {
	b := dsl.New("c1")
	b.Start("start").Go("a")
	b.Add("a")
	b.End("fin_1")
	b.End("fin_2")

	added := Plan(b.Build())

	require.Len(t, added, 2)
	assert.Equal(t, []string{"edge_1", "edge_2"}, []string{added[0].ID, added[1].ID})
	for _, e := range added {
		assert.Equal(t, "a", e.From)
	}
}

func TestUnreachableEnds_NoOp(t *testing.T) {
	assert.Nil(t, UnreachableEnds(nil))

	b := dsl.New("c1")
	b.Start("start").Go("fin")
	b.End("fin")
	doc := b.Build()
	assert.Equal(t, doc, UnreachableEnds(doc))

	rootless := &domain.Canvas{Nodes: []domain.Node{{ID: "a", Kind: domain.KindScreen}, {ID: "z", Kind: domain.KindEnd}}}
	assert.Empty(t, Plan(rootless))
}

// Every end is reachable after repair whenever the document has a root that
// is not itself an end.
func TestUnreachableEnds_AllEndsReachable(t *testing.T) {
	docs := map[string]func(b *dsl.Builder){
		"chain": func(b *dsl.Builder) {
			b.Start("start").Go("a")
			b.Add("a").Go("b")
			b.Add("b")
		},
		"diamond": func(b *dsl.Builder) {
			b.Start("start").Go("q")
			b.Decision("q").Choice("l", "L").Choice("r", "R").When("l", "left").When("r", "right")
			b.Add("left").Go("join")
			b.Add("right").Go("join")
			b.Add("join")
		},
		"cycle": func(b *dsl.Builder) {
			b.Start("start").Go("a")
			b.Add("a").Go("b")
			b.Add("b").Go("start")
		},
		"island": func(b *dsl.Builder) {
			b.Start("start").Go("a")
			b.Add("a")
			b.Add("island").Go("fin_1")
		},
	}

	for name, build := range docs {
		t.Run(name, func(t *testing.T) {
			b := dsl.New(name)
			build(b)
			b.End("fin_1")
			b.End("fin_2")

			out := UnreachableEnds(b.Build())

			ix := graph.NewIndex(out)
			walk := ix.BFS(graph.Root(out))
			for _, n := range out.NodesOfKind(domain.KindEnd) {
				assert.True(t, walk.Reached(n.ID), "end %s is unreachable", n.ID)
				assert.Empty(t, ix.Outgoing(n.ID))
			}

			pairs := map[[2]string]int{}
			for _, e := range out.Edges {
				pairs[[2]string{e.From, e.To}]++
			}
			for pair, count := range pairs {
				assert.Equal(t, 1, count, "duplicate edge %v", pair)
			}
		})
	}
}

func TestUnreachableEnds_EntryIsNotStart(t *testing.T) {
	b := dsl.New("c1")
	b.Start("start").Go("a")
	b.Add("a")
	b.End("fin")
	b.End("fin2")
	doc := b.Build()
	doc.EntryNodeID = "fin"

	out := UnreachableEnds(normalize.Canvas(doc))

	assert.True(t, out.HasEdge("a", "fin"))
	assert.True(t, out.HasEdge("a", "fin2"))
	res := validate.Canvas(out)
	assert.False(t, res.Has(validate.CodeEndUnreachable), "errors: %v", res.Errors)
	assert.True(t, res.Has(validate.CodeEntryNotStart))
}
