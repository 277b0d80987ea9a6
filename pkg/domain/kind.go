package domain

// Kind is the closed set of roles a canvas node can play.
type Kind string

const (
	// KindStart is the unique entry point of a canvas.
	KindStart Kind = "start"
	// KindEnd terminates a path.
	KindEnd Kind = "end"
	// KindScreen renders a screen template.
	KindScreen Kind = "screen"
	// KindDecision asks the learner to pick one of several choices.
	KindDecision Kind = "decision"
	// KindCondition branches on a runtime condition.
	KindCondition Kind = "condition"
	// KindDelay pauses the flow for a duration.
	KindDelay Kind = "delay"
	// KindGroup is a visual container with no runtime meaning.
	KindGroup Kind = "group"
	// KindComment is an editor annotation with no runtime meaning.
	KindComment Kind = "comment"
)

var kinds = []Kind{
	KindStart, KindEnd, KindScreen, KindDecision,
	KindCondition, KindDelay, KindGroup, KindComment,
}

// Kinds returns every node kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Executable reports whether nodes of this kind become runtime steps.
func (k Kind) Executable() bool {
	switch k {
	case KindScreen, KindDecision, KindCondition, KindDelay:
		return true
	case KindStart, KindEnd, KindGroup, KindComment:
		return false
	default:
		return false
	}
}

// Annotation reports whether the kind is editor-only (group, comment).
func (k Kind) Annotation() bool {
	return k == KindGroup || k == KindComment
}

// TransitionKind distinguishes unconditional edges from conditional ones.
type TransitionKind string

const (
	TransitionDirect      TransitionKind = "direct"
	TransitionConditional TransitionKind = "conditional"
)

// Valid reports whether t is a known transition kind.
func (t TransitionKind) Valid() bool {
	return t == TransitionDirect || t == TransitionConditional
}
