package domain

// Position is the advisory layout coordinate of a node on the canvas.
// It never carries semantics.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Node is a vertex of the canvas graph.
type Node struct {
	ID       string   `json:"id" yaml:"id"`
	Kind     Kind     `json:"type" yaml:"type"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Position Position `json:"position" yaml:"position"`

	// Props is the kind-specific property bag (see the typed views in props.go).
	Props map[string]any `json:"props" yaml:"props"`

	// Meta holds free-form pedagogical metadata (intention, decision_context...).
	Meta map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Prop returns a property value and whether it was present.
func (n Node) Prop(key string) (any, bool) {
	v, ok := n.Props[key]
	return v, ok
}

// StringProp returns a string property, or "" when absent or not a string.
func (n Node) StringProp(key string) string {
	s, _ := n.Props[key].(string)
	return s
}

// SetProp writes a property without touching maps shared with other copies.
func (n *Node) SetProp(key string, value any) {
	props := make(map[string]any, len(n.Props)+1)
	for k, v := range n.Props {
		props[k] = v
	}
	props[key] = value
	n.Props = props
}

// WithKind returns a copy of the node retyped to k.
func (n Node) WithKind(k Kind) Node {
	n.Kind = k
	return n
}
