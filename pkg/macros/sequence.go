package macros

import (
	"strconv"

	"github.com/aretw0/lienzo/pkg/actions"
	"github.com/aretw0/lienzo/pkg/domain"
)

// SequenceParams configures LinearSequence.
type SequenceParams struct {
	Nodes     []domain.Node `json:"nodes,omitempty"`
	AddEnding bool          `json:"add_ending,omitempty"`
}

// LinearSequence chains the given nodes one after another starting at
// afterID. Nodes without a free id are named sequence_N.
func LinearSequence(doc *domain.Canvas, afterID string, p SequenceParams, opts ...actions.Option) (*domain.Canvas, error) {
	if doc == nil {
		return nil, invalid(MacroLinearSequence, "canvas document is required")
	}
	if len(p.Nodes) == 0 {
		return nil, invalid(MacroLinearSequence, "a linear sequence needs at least one node")
	}

	out, last := doc, afterID
	for _, n := range p.Nodes {
		ids := out.NodeIDs()
		if n.ID == "" || ids.Has(n.ID) {
			n.ID = domain.NextID(SequenceIDPrefix, ids)
		}
		var err error
		out, err = actions.InsertNodeAfter(out, last, n, opts...)
		if err != nil {
			return nil, err
		}
		last = n.ID
	}

	if p.AddEnding {
		return AppendStandardEnding(out, last, EndingParams{}, opts...)
	}
	return out, nil
}

func itoa(n int) string { return strconv.Itoa(n) }
