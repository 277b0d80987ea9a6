package domain

import (
	"reflect"
	"sort"
)

// CanvasDiff lists the node and edge ids that differ between two canvases.
// It is used to log the effect of an edit and to assert on it in tests.
type CanvasDiff struct {
	AddedNodes   []string `json:"added_nodes,omitempty"`
	RemovedNodes []string `json:"removed_nodes,omitempty"`
	ChangedNodes []string `json:"changed_nodes,omitempty"`

	AddedEdges   []string `json:"added_edges,omitempty"`
	RemovedEdges []string `json:"removed_edges,omitempty"`
	ChangedEdges []string `json:"changed_edges,omitempty"`

	// EntryNodeID is set when the entry pointer moved.
	EntryNodeID *string `json:"entry_node_id,omitempty"`
}

// DiffCanvas calculates the difference between oldDoc and newDoc.
// If oldDoc is nil, every node and edge of newDoc is reported as added.
func DiffCanvas(oldDoc, newDoc *Canvas) *CanvasDiff {
	if newDoc == nil {
		return nil
	}
	if oldDoc == nil {
		oldDoc = &Canvas{}
	}

	diff := &CanvasDiff{}

	oldNodes := make(map[string]Node, len(oldDoc.Nodes))
	for _, n := range oldDoc.Nodes {
		oldNodes[n.ID] = n
	}
	newNodes := make(map[string]Node, len(newDoc.Nodes))
	for _, n := range newDoc.Nodes {
		newNodes[n.ID] = n
		prev, ok := oldNodes[n.ID]
		switch {
		case !ok:
			diff.AddedNodes = append(diff.AddedNodes, n.ID)
		case !reflect.DeepEqual(prev, n):
			diff.ChangedNodes = append(diff.ChangedNodes, n.ID)
		}
	}
	for id := range oldNodes {
		if _, ok := newNodes[id]; !ok {
			diff.RemovedNodes = append(diff.RemovedNodes, id)
		}
	}

	oldEdges := make(map[string]Edge, len(oldDoc.Edges))
	for _, e := range oldDoc.Edges {
		oldEdges[e.ID] = e
	}
	newEdges := make(map[string]Edge, len(newDoc.Edges))
	for _, e := range newDoc.Edges {
		newEdges[e.ID] = e
		prev, ok := oldEdges[e.ID]
		switch {
		case !ok:
			diff.AddedEdges = append(diff.AddedEdges, e.ID)
		case !reflect.DeepEqual(prev, e):
			diff.ChangedEdges = append(diff.ChangedEdges, e.ID)
		}
	}
	for id := range oldEdges {
		if _, ok := newEdges[id]; !ok {
			diff.RemovedEdges = append(diff.RemovedEdges, id)
		}
	}

	if oldDoc.EntryNodeID != newDoc.EntryNodeID {
		entry := newDoc.EntryNodeID
		diff.EntryNodeID = &entry
	}

	for _, ids := range [][]string{
		diff.AddedNodes, diff.RemovedNodes, diff.ChangedNodes,
		diff.AddedEdges, diff.RemovedEdges, diff.ChangedEdges,
	} {
		sort.Strings(ids)
	}
	return diff
}

// IsEmpty checks if the diff contains any change.
func (d *CanvasDiff) IsEmpty() bool {
	return d == nil || (len(d.AddedNodes) == 0 &&
		len(d.RemovedNodes) == 0 &&
		len(d.ChangedNodes) == 0 &&
		len(d.AddedEdges) == 0 &&
		len(d.RemovedEdges) == 0 &&
		len(d.ChangedEdges) == 0 &&
		d.EntryNodeID == nil)
}
