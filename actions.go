package lienzo

import (
	"github.com/aretw0/lienzo/pkg/actions"
	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/macros"
)

// InsertNodeAfter inserts n after afterID.
func (e *Engine) InsertNodeAfter(doc *domain.Canvas, afterID string, n domain.Node) (*domain.Canvas, error) {
	return actions.InsertNodeAfter(doc, afterID, n, e.actionOpts()...)
}

// ConvertToDecision turns nodeID into a decision.
func (e *Engine) ConvertToDecision(doc *domain.Canvas, nodeID string) (*domain.Canvas, error) {
	return actions.ConvertToDecision(doc, nodeID, e.actionOpts()...)
}

// ReplaceBranches replaces the outgoing branches of a decision.
func (e *Engine) ReplaceBranches(doc *domain.Canvas, nodeID string, branches []actions.Branch) (*domain.Canvas, error) {
	return actions.ReplaceBranches(doc, nodeID, branches, e.actionOpts()...)
}

// DuplicateSubgraph copies the nodes reachable from rootID.
func (e *Engine) DuplicateSubgraph(doc *domain.Canvas, rootID string) (*domain.Canvas, error) {
	return actions.DuplicateSubgraph(doc, rootID, e.actionOpts()...)
}

// MarkAsStart makes nodeID the start node.
func (e *Engine) MarkAsStart(doc *domain.Canvas, nodeID string) (*domain.Canvas, error) {
	return actions.MarkAsStart(doc, nodeID, e.actionOpts()...)
}

// MarkAsEnd turns nodeID into an end node.
func (e *Engine) MarkAsEnd(doc *domain.Canvas, nodeID string) (*domain.Canvas, error) {
	return actions.MarkAsEnd(doc, nodeID, e.actionOpts()...)
}

// LinearSequence inserts a chain of screens after afterID.
func (e *Engine) LinearSequence(doc *domain.Canvas, afterID string, p macros.SequenceParams) (*domain.Canvas, error) {
	return macros.LinearSequence(doc, afterID, p, e.actionOpts()...)
}

// GuidedChoice turns nodeID into a decision with one successor per choice.
func (e *Engine) GuidedChoice(doc *domain.Canvas, nodeID string, p macros.GuidedChoiceParams) (*domain.Canvas, error) {
	return macros.GuidedChoice(doc, nodeID, p, e.actionOpts()...)
}

// BranchingPath inserts a decision with one path per branch after afterID.
func (e *Engine) BranchingPath(doc *domain.Canvas, afterID string, p macros.BranchingParams) (*domain.Canvas, error) {
	return macros.BranchingPath(doc, afterID, p, e.actionOpts()...)
}

// AppendStandardEnding inserts an ending screen after afterID.
func (e *Engine) AppendStandardEnding(doc *domain.Canvas, afterID string, p macros.EndingParams) (*domain.Canvas, error) {
	return macros.AppendStandardEnding(doc, afterID, p, e.actionOpts()...)
}

// ApplyMacro runs a catalog macro by name with loosely typed params.
func (e *Engine) ApplyMacro(doc *domain.Canvas, name, nodeID string, params map[string]any) (*domain.Canvas, error) {
	return macros.Apply(doc, name, nodeID, params, e.actionOpts()...)
}
