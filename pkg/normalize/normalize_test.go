package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/dsl"
)

// tickingClock returns a time source that advances one second per call.
func tickingClock() func() time.Time {
	t := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestCanvas_NilYieldsDefault(t *testing.T) {
	out := Canvas(nil, WithClock(tickingClock()))

	require.Len(t, out.Nodes, 1)
	assert.Equal(t, "start", out.Nodes[0].ID)
	assert.Equal(t, domain.KindStart, out.Nodes[0].Kind)
	assert.Equal(t, "Inicio", out.Nodes[0].Label)
	assert.Equal(t, domain.Position{X: 100, Y: 100}, out.Nodes[0].Position)
	assert.Equal(t, "start", out.EntryNodeID)
	assert.Equal(t, DefaultName, out.Name)
	assert.Equal(t, "", out.ID)
	assert.Empty(t, out.Edges)
	assert.Equal(t, "2026-01-01T10:00:01Z", out.Meta[domain.MetaCreatedAt])
}

func TestCanvas_Canonicalizes(t *testing.T) {
	in := &domain.Canvas{
		ID: "c1",
		Nodes: []domain.Node{
			{ID: "fin", Kind: domain.KindEnd},
			{ID: "b", Kind: domain.KindScreen},
			{Kind: domain.KindDecision},
			{ID: "b"},
			{ID: "s", Kind: domain.KindStart},
			{ID: "grp", Kind: domain.KindGroup},
			{ID: "note", Kind: domain.KindComment},
			{ID: "cond", Kind: domain.KindCondition},
		},
		Edges: []domain.Edge{
			{ID: "e1", From: "s", To: "b"},
			{From: "b", To: "fin"},
			{ID: "e1", From: "b", To: "node_3"},
			{ID: "ghost", From: "b", To: "nowhere"},
			{ID: "c", From: "node_3", To: "fin", Kind: domain.TransitionConditional, Condition: &domain.Condition{}},
		},
		Viewport: &domain.Viewport{},
	}
	snapshot := in.DeepCopy()

	out := Canvas(in, WithClock(tickingClock()))

	assert.Equal(t, snapshot, in, "input must not be modified")

	ids := make([]string, len(out.Nodes))
	for i, n := range out.Nodes {
		ids[i] = n.ID
	}
	assert.Equal(t, []string{"s", "b", "b_3", "cond", "grp", "node_3", "note", "fin"}, ids)

	assert.Equal(t, "s", out.EntryNodeID)
	assert.Equal(t, "c1", out.Name)
	assert.Equal(t, domain.SchemaVersion, out.Version)
	assert.Equal(t, 1.0, out.Viewport.Zoom)

	byID := map[string]domain.Node{}
	for _, n := range out.Nodes {
		byID[n.ID] = n
	}
	assert.Equal(t, "blank", byID["b"].StringProp(domain.PropTemplateID))
	assert.Equal(t, domain.KindScreen, byID["b_3"].Kind)
	assert.Equal(t, "b_3", byID["b_3"].Label)
	assert.Equal(t, []any{}, byID["node_3"].Props[domain.PropChoices])
	assert.Equal(t, "always", byID["cond"].StringProp(domain.PropConditionType))
	assert.Equal(t, "Group", byID["grp"].StringProp(domain.PropLabel))
	assert.Equal(t, "", byID["note"].Props[domain.PropText])
	assert.NotNil(t, byID["fin"].Props)

	require.Len(t, out.Edges, 4)
	assert.Equal(t, "edge_2", out.Edges[0].ID)
	assert.Equal(t, [2]string{"b", "fin"}, [2]string{out.Edges[0].From, out.Edges[0].To})
	assert.Equal(t, "e1_2", out.Edges[1].ID)
	assert.Equal(t, "c", out.Edges[2].ID)
	assert.Nil(t, out.Edges[2].Condition, "empty condition payload is dropped")
	assert.Equal(t, "e1", out.Edges[3].ID)
	for _, e := range out.Edges {
		assert.NotEmpty(t, e.Kind)
	}
}

func TestCanvas_EntryFallsBackToFirstNode(t *testing.T) {
	out := Canvas(&domain.Canvas{ID: "x", Nodes: []domain.Node{{ID: "b"}, {ID: "a"}}})
	assert.Equal(t, "a", out.EntryNodeID)
}

func TestCanvas_Timestamps(t *testing.T) {
	clock := tickingClock()
	b := dsl.New("c1")
	b.Start("start").Go("fin")
	b.End("fin")

	first := Canvas(b.Build(), WithClock(clock))
	created := first.Meta[domain.MetaCreatedAt]
	updated := first.Meta[domain.MetaUpdatedAt]
	assert.Equal(t, created, updated)

	second := Canvas(first, WithClock(clock))
	assert.Equal(t, updated, second.Meta[domain.MetaUpdatedAt], "unchanged content keeps updated_at")

	edited := second.Clone()
	edited.Nodes[0].Label = "Comienzo"
	third := Canvas(edited, WithClock(clock))
	assert.NotEqual(t, updated, third.Meta[domain.MetaUpdatedAt])
	assert.Equal(t, created, third.Meta[domain.MetaCreatedAt])
}

func TestCanvas_Idempotent(t *testing.T) {
	b := dsl.New("c1")
	b.Start("start").Go("q")
	b.Decision("q").Choice("a", "A").Choice("b", "B").When("a", "x").When("b", "fin")
	b.Add("x").Go("fin")
	b.Delay("wait", 30).Go("fin")
	b.End("fin")

	docs := []*domain.Canvas{
		nil,
		{},
		b.Build(),
		{Nodes: []domain.Node{{}, {}, {ID: "node_1"}}, Edges: []domain.Edge{{From: "node_1", To: "node_2"}, {From: "node_1", To: "node_2"}}},
	}

	clock := tickingClock()
	for i, doc := range docs {
		once := Canvas(doc, WithClock(clock))
		twice := Canvas(once, WithClock(clock))

		a, err := json.Marshal(once)
		require.NoError(t, err)
		b, err := json.Marshal(twice)
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), "document %d", i)

		var decoded domain.Canvas
		require.NoError(t, json.Unmarshal(a, &decoded))
		c, err := json.Marshal(Canvas(&decoded, WithClock(clock)))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(c), "document %d after a JSON round trip", i)
	}
}
