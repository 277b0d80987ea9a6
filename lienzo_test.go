package lienzo_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lienzo"
	"github.com/aretw0/lienzo/pkg/actions"
	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/dsl"
	"github.com/aretw0/lienzo/pkg/macros"
	"github.com/aretw0/lienzo/pkg/validate"
)

var fixed = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixed }

func linear() *domain.Canvas {
	b := dsl.New("agua").Name("Agua")
	b.Start("start").Go("intro")
	b.Screen("intro", domain.DefaultTemplate).Go("fin")
	b.End("fin")
	return b.Build()
}

// broken has an end node with an outgoing edge, which no repair undoes.
func broken() *domain.Canvas {
	b := dsl.New("agua")
	b.Start("start").Go("intro")
	b.Screen("intro", domain.DefaultTemplate).Go("fin")
	b.End("fin").Go("intro")
	return b.Build()
}

// counter sums the samples of a metric family whose labels include want.
func counter(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	next:
		for _, m := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue next
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestEngine_PureOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	eng := lienzo.New(lienzo.WithClock(clock), lienzo.WithMetrics(reg))

	res := eng.Validate(linear())
	assert.True(t, res.OK)

	res = eng.Validate(broken(), validate.Strict())
	assert.False(t, res.OK)
	assert.True(t, res.Has(validate.CodeEndOutgoing))
	assert.Positive(t, counter(t, reg, "lienzo_validation_issues_total", map[string]string{"code": "end_outgoing"}))

	norm := eng.Normalize(linear())
	assert.Equal(t, fixed.Format(time.RFC3339), norm.Meta[domain.MetaUpdatedAt])

	rec, err := eng.Compile(norm)
	require.NoError(t, err)
	assert.Equal(t, "intro", rec.EntryStepID)

	back, err := eng.Lift(rec)
	require.NoError(t, err)
	assert.Len(t, back.NodesOfKind(domain.KindStart), 1)
}

func TestEngine_Repair(t *testing.T) {
	b := dsl.New("agua")
	b.Start("start").Go("intro")
	b.Screen("intro", domain.DefaultTemplate)
	b.End("fin")
	doc := b.Build()

	fixedDoc := lienzo.New().Repair(doc)
	assert.Len(t, fixedDoc.Edges, 2)
	assert.Len(t, doc.Edges, 1, "input untouched")
}

func TestEngine_ActionsAreObserved(t *testing.T) {
	reg := prometheus.NewRegistry()
	eng := lienzo.New(lienzo.WithClock(clock), lienzo.WithMetrics(reg))

	doc, err := eng.ConvertToDecision(linear(), "intro")
	require.NoError(t, err)
	intro, ok := doc.Node("intro")
	require.True(t, ok)
	assert.Equal(t, domain.KindDecision, intro.Kind)

	_, err = eng.MarkAsEnd(linear(), "ghost")
	require.Error(t, err)
	assert.Equal(t, "NODE_NOT_FOUND", actions.ErrorCode(err))

	assert.Equal(t, 1.0, counter(t, reg, "lienzo_actions_total", map[string]string{
		"action": actions.ActionConvertToDecision, "outcome": "ok",
	}))
	assert.Equal(t, 1.0, counter(t, reg, "lienzo_actions_total", map[string]string{
		"action": actions.ActionMarkAsEnd, "outcome": "error",
	}))
}

func TestEngine_MaxCyclesReachesActions(t *testing.T) {
	b := dsl.New("loops")
	b.Start("start").Go("a")
	b.Screen("a", domain.DefaultTemplate).Go("b").Go("c")
	b.Screen("b", domain.DefaultTemplate).Go("a")
	b.Screen("c", domain.DefaultTemplate).Go("a")
	doc := b.Build()

	loops := func(eng *lienzo.Engine) int {
		_, err := eng.MarkAsStart(doc, "start")
		require.Error(t, err)
		count := 0
		for _, issue := range actions.Issues(err) {
			if issue.Code == validate.CodeInfiniteLoop {
				count++
			}
		}
		return count
	}

	assert.Equal(t, 2, loops(lienzo.New()))
	assert.Equal(t, 1, loops(lienzo.New(lienzo.WithMaxCycles(1))))
	assert.True(t, lienzo.New(lienzo.WithMaxCycles(1)).Validate(doc).Has(validate.CodeCycleLimit))
}

func TestEngine_Macros(t *testing.T) {
	eng := lienzo.New(lienzo.WithClock(clock))

	doc, err := eng.LinearSequence(domain.NewCanvas("agua", ""), domain.DefaultStartID, macros.SequenceParams{
		Nodes:     []domain.Node{{Label: "Uno"}, {Label: "Dos"}},
		AddEnding: true,
	})
	require.NoError(t, err)
	assert.Len(t, doc.NodesOfKind(domain.KindScreen), 2)
	assert.Len(t, doc.NodesOfKind(domain.KindEnd), 1)

	doc, err = eng.ApplyMacro(domain.NewCanvas("agua", ""), macros.MacroBranchingPath, domain.DefaultStartID, nil)
	require.NoError(t, err)
	assert.Len(t, doc.NodesOfKind(domain.KindDecision), 1)
}
