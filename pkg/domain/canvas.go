package domain

import (
	"slices"

	"github.com/google/uuid"
)

// Viewport is the editor camera state saved alongside a canvas.
type Viewport struct {
	Zoom float64  `json:"zoom" yaml:"zoom"`
	Pan  Position `json:"pan" yaml:"pan"`
}

// Canvas is the graph intermediate representation authored in the editor.
//
// A Canvas is treated as a value: every public operation of the engine
// returns a new document and leaves its input untouched.
type Canvas struct {
	Version     string    `json:"version" yaml:"version"`
	ID          string    `json:"canvas_id" yaml:"canvas_id"`
	Name        string    `json:"name,omitempty" yaml:"name,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	EntryNodeID string    `json:"entry_node_id" yaml:"entry_node_id"`
	Nodes       []Node    `json:"nodes" yaml:"nodes"`
	Edges       []Edge    `json:"edges" yaml:"edges"`
	Viewport    *Viewport `json:"viewport,omitempty" yaml:"viewport,omitempty"`

	Meta map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Start node defaults of a freshly created canvas.
const (
	DefaultStartID    = "start"
	DefaultStartLabel = "Inicio"
)

// NewCanvas returns the minimal document: a single start node.
// An empty id is replaced by a generated one.
func NewCanvas(id, name string) *Canvas {
	if id == "" {
		id = "canvas_" + uuid.NewString()
	}
	return &Canvas{
		Version:     SchemaVersion,
		ID:          id,
		Name:        name,
		EntryNodeID: DefaultStartID,
		Nodes: []Node{{
			ID:       DefaultStartID,
			Kind:     KindStart,
			Label:    DefaultStartLabel,
			Position: Position{X: 100, Y: 100},
			Props:    map[string]any{},
		}},
		Edges: []Edge{},
	}
}

// Clone returns a copy whose node and edge slices and meta map can be
// modified freely. Property bags are shared; use Node.SetProp to write them.
func (c *Canvas) Clone() *Canvas {
	if c == nil {
		return nil
	}
	out := *c
	out.Nodes = slices.Clone(c.Nodes)
	out.Edges = slices.Clone(c.Edges)
	if c.Viewport != nil {
		vp := *c.Viewport
		out.Viewport = &vp
	}
	out.Meta = CopyMap(c.Meta)
	return &out
}

// DeepCopy returns a copy that shares no mutable state with c.
func (c *Canvas) DeepCopy() *Canvas {
	if c == nil {
		return nil
	}
	out := c.Clone()
	for i := range out.Nodes {
		out.Nodes[i].Props = DeepCopyMap(out.Nodes[i].Props)
		out.Nodes[i].Meta = DeepCopyMap(out.Nodes[i].Meta)
	}
	for i := range out.Edges {
		if cond := out.Edges[i].Condition; cond != nil {
			out.Edges[i].Condition = &Condition{Type: cond.Type, Params: DeepCopyMap(cond.Params)}
		}
		if p := out.Edges[i].Priority; p != nil {
			v := *p
			out.Edges[i].Priority = &v
		}
	}
	out.Meta = DeepCopyMap(c.Meta)
	return out
}

// NodeIndex returns the index of the node with the given id, or -1.
func (c *Canvas) NodeIndex(id string) int {
	for i := range c.Nodes {
		if c.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// Node returns the node with the given id.
func (c *Canvas) Node(id string) (Node, bool) {
	if i := c.NodeIndex(id); i >= 0 {
		return c.Nodes[i], true
	}
	return Node{}, false
}

// NodeIDs returns the set of node ids.
func (c *Canvas) NodeIDs() IDSet {
	s := make(IDSet, len(c.Nodes))
	for _, n := range c.Nodes {
		s.Add(n.ID)
	}
	return s
}

// EdgeIDs returns the set of edge ids.
func (c *Canvas) EdgeIDs() IDSet {
	s := make(IDSet, len(c.Edges))
	for _, e := range c.Edges {
		s.Add(e.ID)
	}
	return s
}

// Outgoing returns the edges leaving id in document order.
func (c *Canvas) Outgoing(id string) []Edge {
	var out []Edge
	for _, e := range c.Edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}

// Incoming returns the edges entering id in document order.
func (c *Canvas) Incoming(id string) []Edge {
	var out []Edge
	for _, e := range c.Edges {
		if e.To == id {
			out = append(out, e)
		}
	}
	return out
}

// HasEdge reports whether an edge from -> to exists.
func (c *Canvas) HasEdge(from, to string) bool {
	for _, e := range c.Edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

// NodesOfKind returns the nodes of kind k in document order.
func (c *Canvas) NodesOfKind(k Kind) []Node {
	var out []Node
	for _, n := range c.Nodes {
		if n.Kind == k {
			out = append(out, n)
		}
	}
	return out
}

// RemoveEdges drops every edge for which drop returns true.
func (c *Canvas) RemoveEdges(drop func(Edge) bool) {
	kept := c.Edges[:0:0]
	for _, e := range c.Edges {
		if !drop(e) {
			kept = append(kept, e)
		}
	}
	c.Edges = kept
}

// CopyMap returns a shallow copy of m, or nil when m is nil.
func CopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// DeepCopyMap copies m and every nested map or slice it contains.
func DeepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = DeepCopyValue(v)
	}
	return out
}

// DeepCopyValue copies v when it is a map or slice of the shapes found in
// decoded documents and returns it unchanged otherwise.
func DeepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return DeepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = DeepCopyValue(t[i])
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i := range t {
			out[i] = DeepCopyMap(t[i])
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
