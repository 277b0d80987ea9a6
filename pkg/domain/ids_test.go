package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextID(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		existing IDSet
		want     string
	}{
		{"empty set", "node", NewIDSet(), "node_1"},
		{"skips taken", "node", NewIDSet("node_1", "node_2"), "node_3"},
		{"fills gaps", "edge", NewIDSet("edge_1", "edge_3"), "edge_2"},
		{"ignores other prefixes", "ending", NewIDSet("node_1"), "ending_1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextID(tt.prefix, tt.existing))
		})
	}
}

func TestUniqueID(t *testing.T) {
	existing := NewIDSet("start", "start_1")
	assert.Equal(t, "intro", UniqueID("intro", existing))
	assert.Equal(t, "start_2", UniqueID("start", existing))
	assert.Equal(t, "id_1", UniqueID("", existing))
}

func TestKind(t *testing.T) {
	for _, k := range Kinds() {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, Kind("video").Valid())
	assert.True(t, KindDelay.Executable())
	assert.False(t, KindEnd.Executable())
	assert.True(t, KindComment.Annotation())
}

func TestTypedProps(t *testing.T) {
	n := Node{ID: "d", Kind: KindDelay, Props: map[string]any{
		PropDurationSeconds: 30,
		PropMessage:         "breathe",
	}}
	p, err := n.Delay()
	assert.NoError(t, err)
	assert.True(t, p.HasDuration())
	assert.Equal(t, 30.0, *p.DurationSeconds)
	assert.Nil(t, p.DurationMinutes)

	dec := Node{ID: "q", Kind: KindDecision, Props: map[string]any{
		PropChoices: ChoicesValue([]Choice{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}}),
	}}
	choices := dec.Choices()
	assert.Equal(t, []Choice{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}}, choices)
}
