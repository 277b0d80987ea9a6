package convert

import (
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/dsl"
	"github.com/aretw0/lienzo/pkg/normalize"
	"github.com/aretw0/lienzo/pkg/validate"
)

var clock = WithClock(func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) })

// lesson is a small canvas exercising every executable kind but condition.
func lesson() *domain.Canvas {
	b := dsl.New("lesson").Name("Lesson")
	b.Start("start").Go("intro")
	b.Screen("intro", "text").At(300, 100).Prop(domain.PropProps, map[string]any{"title": "Hola"}).Meta("intention", "welcome").Go("q")
	b.Decision("q").Prop(domain.PropQuestion, "¿Seguimos?").
		Choice("a", "Sí").Choice("b", "Luego").
		When("a", "lesson").When("b", "wait")
	b.Screen("lesson", "video").Prop(domain.PropResourceID, "res-1").Go("fin")
	b.Delay("wait", 30).Go("lesson")
	b.Screen("island", "text")
	b.Add("note").Kind(domain.KindComment).Prop(domain.PropText, "todo")
	b.End("fin")
	return b.Build()
}

func pairs(ts []domain.Transition) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.From + "->" + t.To
	}
	sort.Strings(out)
	return out
}

func TestCompile(t *testing.T) {
	rec, err := Compile(lesson())
	require.NoError(t, err)

	assert.Equal(t, "lesson", rec.ID)
	assert.Equal(t, "Lesson", rec.Name)
	assert.Equal(t, "intro", rec.EntryStepID)
	assert.Equal(t, []string{"intro", "q", "lesson", "wait"}, rec.StepIDs(), "breadth-first from the entry, island pruned")
	assert.Equal(t, []string{"intro->q", "q->lesson", "q->wait", "wait->lesson"}, pairs(rec.Edges))

	intro, _ := rec.Step("intro")
	assert.Equal(t, "text", intro.ScreenTemplateID)
	assert.Equal(t, map[string]any{"title": "Hola"}, intro.Props)
	assert.Equal(t, "welcome", intro.Meta["intention"])
	assert.Equal(t, map[string]any{"x": 300.0, "y": 100.0}, intro.Meta[domain.MetaCanvasPosition])

	q, _ := rec.Step("q")
	assert.Equal(t, domain.ChoiceTemplate, q.ScreenTemplateID)
	assert.Equal(t, "decision", q.StepType)
	assert.Equal(t, "¿Seguimos?", q.Props[domain.PropQuestion])
	assert.Len(t, q.Props[domain.PropChoices], 2)

	wait, _ := rec.Step("wait")
	assert.Equal(t, "delay", wait.StepType)
	assert.Equal(t, domain.DefaultTemplate, wait.ScreenTemplateID)
	assert.Equal(t, map[string]any{domain.PropDurationSeconds: 30.0}, wait.Props)

	video, _ := rec.Step("lesson")
	assert.Equal(t, "res-1", video.ResourceID)

	for _, tr := range rec.Edges {
		if tr.From == "intro" {
			assert.Equal(t, domain.ConditionAlways, tr.Condition.Type)
		}
		if tr.From == "q" {
			assert.Equal(t, domain.ConditionChoice, tr.Condition.Type)
		}
	}
	assert.Equal(t, true, rec.Meta[domain.MetaConvertedFromCanvas])
	assert.Equal(t, 1, rec.Meta[domain.MetaCanvasVersion])
}

func TestCompile_KeepUnreachable(t *testing.T) {
	rec, err := Compile(lesson(), KeepUnreachable())
	require.NoError(t, err)
	assert.Equal(t, []string{"intro", "q", "lesson", "wait", "island"}, rec.StepIDs())
}

func TestCompile_StartEdgesAreReRooted(t *testing.T) {
	b := dsl.New("c1")
	b.Start("start").Go("a").Go("b")
	b.Add("a").Go("fin")
	b.Add("b").Go("fin")
	b.End("fin")

	rec, err := Compile(b.Build())
	require.NoError(t, err)

	assert.Equal(t, "a", rec.EntryStepID)
	assert.Equal(t, []string{"a->b"}, pairs(rec.Edges))
	assert.Equal(t, []string{"a", "b"}, rec.StepIDs())
}

func TestCompile_ReRootedEdgeMatchesExistingTransition(t *testing.T) {
	b := dsl.New("c1")
	b.Start("start").Go("x").Go("y")
	b.Add("x").Go("y")
	b.Add("y").Go("fin")
	b.End("fin")
	doc := normalize.Canvas(b.Build())
	require.Equal(t, "start", doc.Edges[0].From, "start edges sort first")

	rec, err := Compile(doc)
	require.NoError(t, err)

	assert.Equal(t, "x", rec.EntryStepID)
	assert.Equal(t, []string{"x->y"}, pairs(rec.Edges))
	assert.Equal(t, []string{"x", "y"}, rec.StepIDs())
}

func TestCompile_Degenerate(t *testing.T) {
	_, err := Compile(nil)
	assert.ErrorIs(t, err, domain.ErrNilDocument)

	rec, err := Compile(domain.NewCanvas("empty", "Empty"))
	require.NoError(t, err)
	assert.Empty(t, rec.EntryStepID)
	assert.Zero(t, rec.Steps.Len())
	assert.Empty(t, rec.Edges)

	rec, err = Compile(&domain.Canvas{ID: "loose", Nodes: []domain.Node{{ID: "x", Kind: "mystery"}}})
	require.NoError(t, err)
	assert.Equal(t, "x", rec.EntryStepID)
	x, _ := rec.Step("x")
	assert.Equal(t, domain.DefaultTemplate, x.ScreenTemplateID, "unknown kinds degrade to blank screens")
}

func recorrido() *domain.Recorrido {
	rec := domain.NewRecorrido("flow-1")
	rec.Name = "Flow"
	rec.EntryStepID = "intro"
	rec.Steps.Set("intro", domain.Step{ScreenTemplateID: "text", Props: map[string]any{"title": "Hola"}})
	rec.Steps.Set("q", domain.Step{ScreenTemplateID: domain.ChoiceTemplate, Props: map[string]any{
		domain.PropQuestion: "¿Listo?",
		domain.PropChoices:  []any{map[string]any{"choice_id": "a", "label": "Sí"}, map[string]any{"choice_id": "b", "label": "No"}},
	}})
	rec.Steps.Set("yes", domain.Step{ScreenTemplateID: "text", Capture: map[string]any{"field": "ok"}})
	rec.Steps.Set("no", domain.Step{ScreenTemplateID: "text"})
	rec.Edges = []domain.Transition{
		{From: "intro", To: "q", Condition: domain.Condition{Type: domain.ConditionAlways}},
		{From: "q", To: "yes", Condition: *domain.ChoiceCondition("a")},
		{From: "q", To: "no", Condition: *domain.ChoiceCondition("b")},
		{From: "q", To: "ghost"},
	}
	return rec
}

func TestLift(t *testing.T) {
	doc, err := Lift(recorrido(), clock)
	require.NoError(t, err)

	assert.Equal(t, "flow-1", doc.ID)
	assert.Equal(t, "Flow", doc.Name)
	assert.Equal(t, "start", doc.EntryNodeID)

	nodes := map[string]domain.Node{}
	for _, n := range doc.Nodes {
		nodes[n.ID] = n
	}
	assert.Equal(t, domain.KindStart, nodes["start"].Kind)
	assert.Equal(t, domain.Position{X: 100, Y: 100}, nodes["start"].Position)
	assert.Equal(t, domain.KindDecision, nodes["q"].Kind, "screen_choice implies a decision")
	assert.Len(t, nodes["q"].Choices(), 2)
	assert.Equal(t, domain.Position{X: 600, Y: 100}, nodes["q"].Position)
	assert.Equal(t, map[string]any{"field": "ok"}, nodes["yes"].Props[domain.PropCapture])
	assert.Equal(t, map[string]any{"title": "Hola"}, nodes["intro"].Props[domain.PropProps])

	for _, leaf := range []string{"yes", "no"} {
		end, ok := nodes[leaf+"_end"]
		require.True(t, ok, "%s gets an end node", leaf)
		assert.Equal(t, EndLabel, end.Label)
		assert.Equal(t, nodes[leaf].Position.Y+150, end.Position.Y)
		assert.True(t, doc.HasEdge(leaf, leaf+"_end"))
	}

	assert.True(t, doc.HasEdge("start", "intro"))
	for _, e := range doc.Outgoing("q") {
		assert.Equal(t, domain.TransitionConditional, e.Kind)
		assert.Equal(t, domain.ConditionChoice, e.Condition.Type)
	}
	intro := doc.Outgoing("intro")
	require.Len(t, intro, 1)
	assert.Equal(t, domain.TransitionDirect, intro[0].Kind)
	assert.Nil(t, intro[0].Condition)
	assert.Equal(t, "edge_intro_q", intro[0].ID)

	assert.Equal(t, true, doc.Meta[domain.MetaConvertedFromFlow])
	assert.Equal(t, "flow-1", doc.Meta[domain.MetaRecorridoID])
	assert.Equal(t, "2026-03-01T12:00:00Z", doc.Meta[domain.MetaCreatedAt])

	res := validate.Canvas(doc, validate.Strict())
	assert.True(t, res.OK, "lifted canvas: %v", res.Errors)
}

func TestLift_WithoutTransitions(t *testing.T) {
	rec := domain.NewRecorrido("")
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		rec.Steps.Set(id, domain.Step{ScreenTemplateID: "text"})
	}

	doc, err := Lift(rec, clock)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc.ID, "canvas_"))
	assert.Equal(t, "Unnamed Canvas", doc.Name)
	for _, p := range [][2]string{{"start", "a"}, {"a", "b"}, {"e", "f"}, {"f", "f_end"}} {
		assert.True(t, doc.HasEdge(p[0], p[1]), "missing %v", p)
	}
	assert.Len(t, doc.NodesOfKind(domain.KindEnd), 1)

	f, _ := doc.Node("f")
	assert.Equal(t, domain.Position{X: 300, Y: 300}, f.Position, "layout wraps after five steps")
}

func TestLift_Validates(t *testing.T) {
	tests := []struct {
		name  string
		edges []domain.Transition
		check func(t *testing.T, doc *domain.Canvas)
	}{
		{
			name:  "step unreachable from the entry",
			edges: []domain.Transition{{From: "a", To: "b"}},
			check: func(t *testing.T, doc *domain.Canvas) {
				assert.True(t, doc.HasEdge("c", "c_end"))
				assert.False(t, doc.HasEdge("b", "c"))
			},
		},
		{
			name:  "only dangling transitions",
			edges: []domain.Transition{{From: "a", To: "ghost"}, {From: "ghost", To: "c"}},
			check: func(t *testing.T, doc *domain.Canvas) {
				assert.True(t, doc.HasEdge("a", "b"), "read as a sequence")
				assert.True(t, doc.HasEdge("b", "c"), "read as a sequence")
				assert.Len(t, doc.NodesOfKind(domain.KindEnd), 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := domain.NewRecorrido("r1")
			rec.EntryStepID = "a"
			for _, id := range []string{"a", "b", "c"} {
				rec.Steps.Set(id, domain.Step{ScreenTemplateID: "text"})
			}
			rec.Edges = tt.edges

			doc, err := Lift(rec, clock)
			require.NoError(t, err)

			res := validate.Canvas(doc, validate.Strict())
			assert.True(t, res.OK, "lifted canvas: %v", res.Errors)
			tt.check(t, doc)
		})
	}
}

func TestLift_CycleGetsTrailingEnd(t *testing.T) {
	rec := domain.NewRecorrido("loop")
	rec.EntryStepID = "a"
	rec.Steps.Set("a", domain.Step{})
	rec.Steps.Set("start", domain.Step{})
	rec.Edges = []domain.Transition{
		{From: "a", To: "start", Condition: domain.Condition{Type: "score_above", Params: map[string]any{"min": 5}}},
		{From: "start", To: "a"},
	}

	doc, err := Lift(rec, clock, WithoutLayout())
	require.NoError(t, err)

	assert.Equal(t, "start_1", doc.EntryNodeID, "the start node avoids step ids")
	assert.True(t, doc.HasEdge("start_1", "a"))
	assert.True(t, doc.HasEdge("start", "end"), "a single end follows the last step")
	for _, n := range doc.Nodes {
		assert.Equal(t, domain.Position{}, n.Position)
	}
	a, _ := doc.Node("a")
	assert.Equal(t, domain.DefaultTemplate, a.StringProp(domain.PropTemplateID))
}

func TestLift_Nil(t *testing.T) {
	_, err := Lift(nil)
	assert.ErrorIs(t, err, domain.ErrNilDocument)
}

func TestRoundTrip(t *testing.T) {
	rec, err := Compile(lesson())
	require.NoError(t, err)

	lifted, err := Lift(rec, clock)
	require.NoError(t, err)
	res := validate.Canvas(lifted, validate.Strict())
	assert.True(t, res.OK, "lifted canvas: %v", res.Errors)

	intro, _ := lifted.Node("intro")
	assert.Equal(t, domain.Position{X: 300, Y: 100}, intro.Position, "saved positions are restored")
	assert.Equal(t, "welcome", intro.Meta["intention"])

	again, err := Compile(lifted)
	require.NoError(t, err)
	assert.Equal(t, rec.EntryStepID, again.EntryStepID)
	assert.ElementsMatch(t, rec.StepIDs(), again.StepIDs())
	assert.Equal(t, pairs(rec.Edges), pairs(again.Edges))
}
