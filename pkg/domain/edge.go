package domain

// Condition describes when a transition may be taken.
type Condition struct {
	Type   string         `json:"type" yaml:"type"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// ChoiceCondition is the condition carried by an edge leaving a decision
// for the given choice.
func ChoiceCondition(choiceID string) *Condition {
	return &Condition{
		Type:   ConditionChoice,
		Params: map[string]any{PropChoiceID: choiceID},
	}
}

// Edge is a directed relation between two nodes.
type Edge struct {
	ID        string         `json:"id" yaml:"id"`
	From      string         `json:"from_node_id" yaml:"from_node_id"`
	To        string         `json:"to_node_id" yaml:"to_node_id"`
	Kind      TransitionKind `json:"type,omitempty" yaml:"type,omitempty"`
	Condition *Condition     `json:"condition,omitempty" yaml:"condition,omitempty"`
	Label     string         `json:"label,omitempty" yaml:"label,omitempty"`
	Priority  *int           `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// Conditional reports whether the edge is of the conditional kind.
func (e Edge) Conditional() bool {
	return e.Kind == TransitionConditional
}
