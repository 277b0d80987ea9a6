package validate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/dsl"
)

func linear() *dsl.Builder {
	b := dsl.New("c1")
	b.Start("start").Go("intro")
	b.Screen("intro", "blank").Go("fin")
	b.End("fin")
	return b
}

func codes(issues []Issue) []Code {
	out := make([]Code, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Code)
	}
	return out
}

func TestCanvas_Valid(t *testing.T) {
	doc := linear().Build()

	for _, mode := range []Mode{ModeDraft, ModeStrict} {
		res := Canvas(doc, WithMode(mode))
		assert.True(t, res.OK, mode)
		assert.Empty(t, res.Errors, mode)
		assert.Empty(t, res.Warnings, mode)
		assert.NoError(t, res.Err())
	}
}

func TestCanvas_NilDocument(t *testing.T) {
	res := Canvas(nil)
	assert.False(t, res.OK)
	assert.Equal(t, []Code{CodeInvalidDocument}, codes(res.Errors))
}

func TestCanvas_Rules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*domain.Canvas)
		strict   bool
		errors   []Code
		warnings []Code
	}{
		{
			name:   "missing canvas id",
			mutate: func(c *domain.Canvas) { c.ID = "" },
			errors: []Code{CodeMissingCanvasID},
		},
		{
			name:     "unexpected version",
			mutate:   func(c *domain.Canvas) { c.Version = "0.9" },
			warnings: []Code{CodeVersionMismatch},
		},
		{
			name: "duplicate node id",
			mutate: func(c *domain.Canvas) {
				c.Nodes = append(c.Nodes, domain.Node{ID: "intro", Kind: domain.KindScreen, Props: map[string]any{domain.PropTemplateID: "x"}})
			},
			errors: []Code{CodeDuplicateNodeID},
		},
		{
			name: "duplicate edge id",
			mutate: func(c *domain.Canvas) {
				c.Edges[1].ID = c.Edges[0].ID
			},
			errors: []Code{CodeDuplicateEdgeID},
		},
		{
			name:   "entry does not exist",
			mutate: func(c *domain.Canvas) { c.EntryNodeID = "ghost" },
			errors: []Code{CodeEntryNotFound},
		},
		{
			name: "screen without template",
			mutate: func(c *domain.Canvas) {
				c.Nodes[1].Props = map[string]any{}
			},
			errors: []Code{CodeScreenTemplate},
		},
		{
			name: "screen without props",
			mutate: func(c *domain.Canvas) {
				c.Nodes[1].Props = nil
			},
			errors:   []Code{CodeScreenTemplate},
			warnings: []Code{CodeMissingProps},
		},
		{
			name: "unknown node kind",
			mutate: func(c *domain.Canvas) {
				c.Nodes[1].Kind = "video"
			},
			errors: []Code{CodeUnknownKind},
		},
		{
			name: "edge into start",
			mutate: func(c *domain.Canvas) {
				c.Edges = append(c.Edges, domain.Edge{ID: "back", From: "intro", To: "start"})
			},
			errors:   []Code{CodeStartIncoming, CodeEdgeIntoStart},
			warnings: []Code{CodeLoopWithoutExit},
		},
		{
			name: "edge out of end",
			mutate: func(c *domain.Canvas) {
				c.Edges = append(c.Edges, domain.Edge{ID: "after", From: "fin", To: "intro"})
			},
			errors:   []Code{CodeEndOutgoing, CodeEdgeFromEnd},
			warnings: []Code{CodeLoopWithoutExit},
		},
		{
			name: "dangling edge",
			mutate: func(c *domain.Canvas) {
				c.Edges = append(c.Edges, domain.Edge{ID: "dangling", From: "intro", To: "ghost"})
			},
			errors: []Code{CodeDanglingEdge},
		},
		{
			name: "edge without id",
			mutate: func(c *domain.Canvas) {
				c.Edges[1].ID = ""
			},
			errors: []Code{CodeMissingEdgeID},
		},
		{
			name: "conditional edge without condition",
			mutate: func(c *domain.Canvas) {
				c.Edges[1].Kind = domain.TransitionConditional
			},
			warnings: []Code{CodeConditionMissing},
		},
		{
			name: "unknown transition kind",
			mutate: func(c *domain.Canvas) {
				c.Edges[1].Kind = "maybe"
			},
			errors: []Code{CodeUnknownTransition},
		},
		{
			name: "two start nodes",
			mutate: func(c *domain.Canvas) {
				c.Nodes = append(c.Nodes, domain.Node{ID: "start2", Kind: domain.KindStart, Props: map[string]any{}})
				c.Edges = append(c.Edges, domain.Edge{ID: "s2", From: "start2", To: "fin"})
			},
			errors: []Code{CodeStartCount},
		},
		{
			name: "entry is not the start",
			mutate: func(c *domain.Canvas) {
				c.EntryNodeID = "intro"
			},
			errors: []Code{CodeEntryNotStart},
		},
		{
			name: "start without outgoing edges",
			mutate: func(c *domain.Canvas) {
				c.Edges = c.Edges[1:]
			},
			errors:   []Code{CodeStartNoOutgoing, CodeEndUnreachable},
			warnings: []Code{CodeUnreachable, CodeNoReachableEnd},
		},
		{
			name: "orphan screen",
			mutate: func(c *domain.Canvas) {
				c.Nodes = append(c.Nodes, domain.Node{ID: "lost", Kind: domain.KindScreen, Props: map[string]any{domain.PropTemplateID: "x"}})
			},
			warnings: []Code{CodeOrphan},
		},
		{
			name: "annotations are never reported",
			mutate: func(c *domain.Canvas) {
				c.Nodes = append(c.Nodes,
					domain.Node{ID: "note", Kind: domain.KindComment, Props: map[string]any{}},
					domain.Node{ID: "box", Kind: domain.KindGroup, Props: map[string]any{}},
				)
			},
		},
		{
			name: "unreachable end",
			mutate: func(c *domain.Canvas) {
				c.Nodes = append(c.Nodes, domain.Node{ID: "fin2", Kind: domain.KindEnd, Props: map[string]any{}})
			},
			errors: []Code{CodeEndUnreachable},
		},
		{
			name: "condition with one branch (draft)",
			mutate: func(c *domain.Canvas) {
				c.Nodes[1] = domain.Node{ID: "intro", Kind: domain.KindCondition, Props: map[string]any{domain.PropConditionType: "score"}}
			},
			warnings: []Code{CodeConditionBranches},
		},
		{
			name: "condition with one branch (strict)",
			mutate: func(c *domain.Canvas) {
				c.Nodes[1] = domain.Node{ID: "intro", Kind: domain.KindCondition, Props: map[string]any{domain.PropConditionType: "score"}}
			},
			strict: true,
			errors: []Code{CodeConditionBranches},
		},
		{
			name: "condition without type",
			mutate: func(c *domain.Canvas) {
				c.Nodes[1] = domain.Node{ID: "intro", Kind: domain.KindCondition, Props: map[string]any{}}
				c.Edges = append(c.Edges, domain.Edge{ID: "alt", From: "intro", To: "fin"})
			},
			errors: []Code{CodeConditionType},
		},
		{
			name: "delay without duration (draft)",
			mutate: func(c *domain.Canvas) {
				c.Nodes[1] = domain.Node{ID: "intro", Kind: domain.KindDelay, Props: map[string]any{}}
			},
			warnings: []Code{CodeDelayDuration},
		},
		{
			name: "delay without duration (strict)",
			mutate: func(c *domain.Canvas) {
				c.Nodes[1] = domain.Node{ID: "intro", Kind: domain.KindDelay, Props: map[string]any{}}
			},
			strict: true,
			errors: []Code{CodeDelayDuration},
		},
		{
			name: "mistyped property (draft)",
			mutate: func(c *domain.Canvas) {
				c.Nodes[1].SetProp(domain.PropProps, "not an object")
			},
			warnings: []Code{CodePropType},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := linear().Build()
			tt.mutate(doc)

			opts := []Option{}
			if tt.strict {
				opts = append(opts, Strict())
			}
			res := Canvas(doc, opts...)

			assert.ElementsMatch(t, tt.errors, codes(res.Errors), "errors: %v", res.Errors)
			assert.ElementsMatch(t, tt.warnings, codes(res.Warnings), "warnings: %v", res.Warnings)
			assert.Equal(t, len(tt.errors) == 0, res.OK)
		})
	}
}

func TestCanvas_MissingEnd(t *testing.T) {
	b := dsl.New("c1")
	b.Start("start").Go("screen")
	b.Screen("screen", "blank")
	doc := b.Build()

	draft := Canvas(doc)
	assert.True(t, draft.OK)
	assert.Equal(t, []Code{CodeNoReachableEnd}, codes(draft.Warnings))

	strict := Canvas(doc, Strict())
	assert.False(t, strict.OK)
	assert.Equal(t, []Code{CodeNoReachableEnd}, codes(strict.Errors))
	assert.Equal(t, []Code{CodeNoReachableEnd}, codes(strict.Warnings))

	b.End("fin")
	detached := Canvas(b.Build())
	assert.Equal(t, []Code{CodeEndUnreachable}, codes(detached.Errors))
	assert.Equal(t, []Code{CodeNoReachableEnd}, codes(detached.Warnings), "an end exists but none can be reached")
}

func TestCanvas_Decisions(t *testing.T) {
	build := func(choices []string, targets int) *domain.Canvas {
		b := dsl.New("c1")
		b.Start("start").Go("q")
		q := b.Decision("q")
		for _, c := range choices {
			q.Choice(c, c)
		}
		for i := 0; i < targets; i++ {
			id := fmt.Sprintf("fin_%d", i)
			q.Go(id)
			b.End(id)
		}
		return b.Build()
	}

	t.Run("choice/edge mismatch is a strict error", func(t *testing.T) {
		doc := build([]string{"a", "b"}, 1)
		strict := Canvas(doc, Strict())
		require.False(t, strict.OK)
		assert.True(t, strict.Has(CodeChoiceEdgeMismatch))
		assert.Contains(t, strict.With(CodeChoiceEdgeMismatch)[0].Message, "2 choices but only 1")

		draft := Canvas(doc)
		assert.True(t, draft.OK)
		assert.Equal(t, []Code{CodeChoiceEdgeMismatch}, codes(draft.Warnings))
	})

	t.Run("single choice is a passthrough warning", func(t *testing.T) {
		doc := build([]string{"a"}, 1)
		res := Canvas(doc, Strict())
		assert.True(t, res.OK)
		assert.Equal(t, []Code{CodeDecisionPassthrough}, codes(res.Warnings))
	})

	t.Run("single choice rejected by policy", func(t *testing.T) {
		doc := build([]string{"a"}, 1)
		res := Canvas(doc, Strict(), WithPassthroughPolicy(PassthroughReject))
		assert.False(t, res.OK)
		assert.Equal(t, []Code{CodeDecisionPassthrough}, codes(res.Errors))

		draft := Canvas(doc, WithPassthroughPolicy(PassthroughReject))
		assert.True(t, draft.OK)
	})

	t.Run("no choices but outgoing edges is a passthrough", func(t *testing.T) {
		res := Canvas(build(nil, 1), Strict())
		assert.True(t, res.OK)
		assert.Equal(t, []Code{CodeDecisionPassthrough}, codes(res.Warnings))
	})

	t.Run("no choices and no edges", func(t *testing.T) {
		doc := build(nil, 0)
		strict := Canvas(doc, Strict())
		assert.True(t, strict.Has(CodeDecisionEmpty))
		assert.False(t, strict.OK)

		draft := Canvas(doc)
		require.True(t, draft.Has(CodeDecisionEmpty))
		assert.Equal(t, SeverityWarning, draft.With(CodeDecisionEmpty)[0].Severity)
	})

	t.Run("duplicate choice ids", func(t *testing.T) {
		res := Canvas(build([]string{"a", "a"}, 2))
		assert.Equal(t, []Code{CodeDuplicateChoiceID}, codes(res.Errors))
	})
}

func TestCanvas_Cycles(t *testing.T) {
	loop := func(conditional bool, withEnd bool) *domain.Canvas {
		b := dsl.New("c1")
		b.Start("start").Go("A")
		b.Screen("A", "blank").Go("B")
		bn := b.Screen("B", "blank")
		if conditional {
			bn.Branch(&domain.Condition{Type: "score_below", Params: map[string]any{"value": 5}}, "A")
		} else {
			bn.Go("A")
		}
		if withEnd {
			bn.Go("fin")
			b.End("fin")
		}
		return b.Build()
	}

	t.Run("loop without exit and without end is a hard error", func(t *testing.T) {
		res := Canvas(loop(false, false), Strict())
		require.True(t, res.Has(CodeInfiniteLoop))
		issue := res.With(CodeInfiniteLoop)[0]
		assert.Equal(t, SeverityError, issue.Severity)
		assert.Equal(t, []string{"A", "B"}, issue.Path)
		assert.Contains(t, issue.Message, "A → B → A")
	})

	t.Run("conditional edge on the loop accepts it", func(t *testing.T) {
		res := Canvas(loop(true, false), Strict())
		assert.False(t, res.Has(CodeInfiniteLoop))
		assert.False(t, res.Has(CodeLoopWithoutExit))
	})

	t.Run("reachable end downgrades to a warning", func(t *testing.T) {
		res := Canvas(loop(false, true), Strict())
		assert.True(t, res.OK, "%v", res.Errors)
		assert.Equal(t, []Code{CodeLoopWithoutExit}, codes(res.Warnings))
	})

	threeCycles := func() *domain.Canvas {
		b := dsl.New("c1")
		b.Start("start").Go("A")
		b.Screen("A", "blank").Go("B").Go("C")
		b.Screen("B", "blank").Go("A")
		b.Screen("C", "blank").Go("A").Go("C")
		return b.Build()
	}

	t.Run("all simple cycles are reported", func(t *testing.T) {
		res := Canvas(threeCycles())

		var paths [][]string
		for _, issue := range res.With(CodeInfiniteLoop) {
			paths = append(paths, issue.Path)
		}
		assert.ElementsMatch(t, [][]string{{"A", "B"}, {"A", "C"}, {"C"}}, paths)
	})

	t.Run("cycle limit", func(t *testing.T) {
		tests := []struct {
			limit     int
			truncated bool
			loops     int
		}{
			{limit: 2, truncated: true, loops: 2},
			{limit: 3, truncated: false, loops: 3},
			{limit: 4, truncated: false, loops: 3},
		}
		for _, tt := range tests {
			res := Canvas(threeCycles(), WithMaxCycles(tt.limit))
			assert.Equal(t, tt.truncated, res.Has(CodeCycleLimit), "limit %d", tt.limit)
			assert.Len(t, res.With(CodeInfiniteLoop), tt.loops, "limit %d", tt.limit)
		}
	})
}

func TestCanvas_DeepChainIsIterative(t *testing.T) {
	b := dsl.New("deep")
	b.Start("start").Go("n0")
	const depth = 20000
	for i := 0; i < depth; i++ {
		b.Screen(fmt.Sprintf("n%d", i), "blank").Go(fmt.Sprintf("n%d", i+1))
	}
	b.Screen(fmt.Sprintf("n%d", depth), "blank").Go("n0")

	res := Canvas(b.Build())
	assert.True(t, res.Has(CodeInfiniteLoop))
}

func TestResultErr(t *testing.T) {
	doc := linear().Build()
	doc.ID = ""
	err := Canvas(doc).Err()
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Issues, 1)
	assert.Contains(t, err.Error(), string(CodeMissingCanvasID))
}
