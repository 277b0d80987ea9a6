package domain

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// StepMap maps step ids to definitions, remembering insertion order.
type StepMap = orderedmap.OrderedMap[string, Step]

// NewStepMap returns an empty ordered step map.
func NewStepMap() *StepMap {
	return orderedmap.New[string, Step]()
}

// Step is one runtime step of a recorrido.
type Step struct {
	ScreenTemplateID string         `json:"screen_template_id" yaml:"screen_template_id"`
	StepType         string         `json:"step_type,omitempty" yaml:"step_type,omitempty"`
	Props            map[string]any `json:"props" yaml:"props"`
	Capture          any            `json:"capture,omitempty" yaml:"capture,omitempty"`
	Emit             any            `json:"emit,omitempty" yaml:"emit,omitempty"`
	ResourceID       string         `json:"resource_id,omitempty" yaml:"resource_id,omitempty"`
	Meta             map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Transition is a recorrido edge between two steps.
type Transition struct {
	From      string    `json:"from_step_id" yaml:"from_step_id"`
	To        string    `json:"to_step_id" yaml:"to_step_id"`
	Condition Condition `json:"condition" yaml:"condition"`
	Priority  *int      `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// Always reports whether the transition is unconditional.
func (t Transition) Always() bool {
	return t.Condition.Type == "" || t.Condition.Type == ConditionAlways
}

// Recorrido is the linear flow representation executed by the runtime.
type Recorrido struct {
	ID          string       `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string       `json:"name,omitempty" yaml:"name,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	EntryStepID string       `json:"entry_step_id" yaml:"entry_step_id"`
	Steps       *StepMap     `json:"steps" yaml:"steps"`
	Edges       []Transition `json:"edges" yaml:"edges"`

	Meta map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// NewRecorrido returns an empty recorrido with the given id.
func NewRecorrido(id string) *Recorrido {
	return &Recorrido{
		ID:    id,
		Steps: NewStepMap(),
		Edges: []Transition{},
	}
}

// StepIDs returns the step ids in insertion order.
func (r *Recorrido) StepIDs() []string {
	if r == nil || r.Steps == nil {
		return nil
	}
	ids := make([]string, 0, r.Steps.Len())
	for pair := r.Steps.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}
	return ids
}

// Step returns the step with the given id.
func (r *Recorrido) Step(id string) (Step, bool) {
	if r == nil || r.Steps == nil {
		return Step{}, false
	}
	return r.Steps.Get(id)
}

// Outgoing returns the transitions leaving the step in document order.
func (r *Recorrido) Outgoing(id string) []Transition {
	var out []Transition
	for _, t := range r.Edges {
		if t.From == id {
			out = append(out, t)
		}
	}
	return out
}

// DeepCopy returns a copy that shares no mutable state with r.
func (r *Recorrido) DeepCopy() *Recorrido {
	if r == nil {
		return nil
	}
	out := *r
	out.Steps = NewStepMap()
	if r.Steps != nil {
		for pair := r.Steps.Oldest(); pair != nil; pair = pair.Next() {
			s := pair.Value
			s.Props = DeepCopyMap(s.Props)
			s.Meta = DeepCopyMap(s.Meta)
			s.Capture = DeepCopyValue(s.Capture)
			s.Emit = DeepCopyValue(s.Emit)
			out.Steps.Set(pair.Key, s)
		}
	}
	out.Edges = make([]Transition, len(r.Edges))
	for i, t := range r.Edges {
		t.Condition.Params = DeepCopyMap(t.Condition.Params)
		if t.Priority != nil {
			p := *t.Priority
			t.Priority = &p
		}
		out.Edges[i] = t
	}
	out.Meta = DeepCopyMap(r.Meta)
	return &out
}
