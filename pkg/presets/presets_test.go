package presets

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/normalize"
	"github.com/aretw0/lienzo/pkg/validate"
)

func kindCount(doc *domain.Canvas) map[domain.Kind]int {
	out := map[domain.Kind]int{}
	for _, n := range doc.Nodes {
		out[n.Kind]++
	}
	return out
}

func TestList(t *testing.T) {
	var ids []string
	for _, p := range List() {
		ids = append(ids, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Description)
	}
	assert.Equal(t, []string{SimpleSequence, GuidedDecision, StepByStep, FullBranching}, ids)
}

func TestBuild(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	tests := []struct {
		id    string
		kinds map[domain.Kind]int
	}{
		{id: SimpleSequence, kinds: map[domain.Kind]int{domain.KindStart: 1, domain.KindScreen: 2, domain.KindEnd: 1}},
		{id: GuidedDecision, kinds: map[domain.Kind]int{domain.KindStart: 1, domain.KindDecision: 1, domain.KindScreen: 2, domain.KindEnd: 2}},
		{id: StepByStep, kinds: map[domain.Kind]int{domain.KindStart: 1, domain.KindScreen: 4, domain.KindEnd: 1}},
		{id: FullBranching, kinds: map[domain.Kind]int{domain.KindStart: 1, domain.KindScreen: 4, domain.KindDecision: 1, domain.KindEnd: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			doc, err := Build(tt.id, WithClock(clock))
			require.NoError(t, err)

			res := validate.Canvas(doc, validate.Strict())
			assert.True(t, res.OK, "errors: %v", res.Errors)
			assert.Equal(t, tt.kinds, kindCount(doc))
			assert.Equal(t, StartID, doc.EntryNodeID)
			assert.True(t, strings.HasPrefix(doc.ID, "preset_"), doc.ID)
			assert.Equal(t, true, doc.Meta[domain.MetaPreset])
			assert.Equal(t, doc, normalize.Canvas(doc, normalize.WithClock(clock)), "presets come back normalized")
		})
	}
}

func TestBuild_FreshIDs(t *testing.T) {
	a, err := Build(SimpleSequence)
	require.NoError(t, err)
	b, err := Build(SimpleSequence)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestBuild_Unknown(t *testing.T) {
	_, err := Build("nope")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}
