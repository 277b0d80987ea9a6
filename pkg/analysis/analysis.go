// Package analysis computes advisory diagnostics about the shape of a
// canvas: structural smells, pedagogical coverage and rhythm. Nothing here
// blocks saving or publishing; the validator owns correctness.
package analysis

import (
	"fmt"
	"strings"

	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/graph"
)

// Thresholds of the rhythm heuristics.
const (
	LongSequence        = 5
	VeryLongSequence    = 10
	MinReportedSequence = 3
	UnbalancedDepth     = 3
	MaxBranchDepth      = 50
	DecisionDensity     = 0.5
	LinearMinNodes      = 3
)

// Category groups diagnostics by concern.
type Category string

const (
	CategoryStructural  Category = "structural"
	CategoryPedagogical Category = "pedagogical"
	CategoryRhythm      Category = "rhythm"
)

// Level tells warnings from plain information.
type Level string

const (
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Code identifies a diagnostic.
type Code string

const (
	CodeInvalidCanvas      Code = "invalid_canvas"
	CodeNoStart            Code = "no_start"
	CodeMultipleStarts     Code = "multiple_starts"
	CodeNoEnd              Code = "no_end"
	CodeEndCount           Code = "end_count"
	CodeEntryMissing       Code = "entry_missing"
	CodeEntryNotStart      Code = "entry_not_start"
	CodeOrphan             Code = "orphan"
	CodeNoIncoming         Code = "no_incoming"
	CodeDanglingEdge       Code = "dangling_edge"
	CodeSummary            Code = "summary"
	CodeDecisionCount      Code = "decision_count"
	CodeFewChoices         Code = "few_choices"
	CodeChoiceEdges        Code = "choice_edge_mismatch"
	CodeNoMeta             Code = "no_meta"
	CodeMetaCoverage       Code = "meta_coverage"
	CodeMultipleEndings    Code = "multiple_endings"
	CodeLongSequence       Code = "long_sequence"
	CodeSequenceStats      Code = "sequence_stats"
	CodeVeryLongSequence   Code = "very_long_sequence"
	CodeUnbalancedBranches Code = "unbalanced_branches"
	CodeDecisionDensity    Code = "decision_density"
	CodeFullyLinear        Code = "fully_linear"
)

// Diagnostic is one finding.
type Diagnostic struct {
	Code     Code     `json:"code"`
	Type     Category `json:"type"`
	Severity Level    `json:"severity"`
	Message  string   `json:"message"`
	NodeID   string   `json:"node_id,omitempty"`
	EdgeID   string   `json:"edge_id,omitempty"`
}

// Stats summarizes the canvas.
type Stats struct {
	Nodes      int `json:"nodes"`
	Executable int `json:"executable"`
	Edges      int `json:"edges"`
	Decisions  int `json:"decisions"`
	Ends       int `json:"ends"`
	WithMeta   int `json:"with_meta"`
	// Sequences holds every linear run of two or more nodes.
	Sequences [][]string `json:"sequences,omitempty"`
}

// Report collects the diagnostics of one canvas.
type Report struct {
	Warnings []Diagnostic `json:"warnings"`
	Infos    []Diagnostic `json:"infos"`
	Stats    Stats        `json:"stats"`
}

// Has reports whether any diagnostic carries code.
func (r Report) Has(code Code) bool {
	return r.First(code) != nil
}

// First returns the first diagnostic carrying code, or nil.
func (r Report) First(code Code) *Diagnostic {
	for _, list := range [][]Diagnostic{r.Warnings, r.Infos} {
		for i := range list {
			if list[i].Code == code {
				return &list[i]
			}
		}
	}
	return nil
}

type analyzer struct {
	doc    *domain.Canvas
	ix     *graph.Index
	report Report
}

func (a *analyzer) warn(cat Category, code Code, nodeID, edgeID, format string, args ...any) {
	a.report.Warnings = append(a.report.Warnings, Diagnostic{
		Code: code, Type: cat, Severity: LevelWarning, NodeID: nodeID, EdgeID: edgeID,
		Message: fmt.Sprintf(format, args...),
	})
}

func (a *analyzer) info(cat Category, code Code, format string, args ...any) {
	a.report.Infos = append(a.report.Infos, Diagnostic{
		Code: code, Type: cat, Severity: LevelInfo,
		Message: fmt.Sprintf(format, args...),
	})
}

// Analyze inspects doc. A nil document yields a single warning.
func Analyze(doc *domain.Canvas) Report {
	a := &analyzer{doc: doc, report: Report{Warnings: []Diagnostic{}, Infos: []Diagnostic{}}}
	if doc == nil {
		a.warn(CategoryStructural, CodeInvalidCanvas, "", "", "canvas is missing or empty")
		return a.report
	}
	a.ix = graph.NewIndex(doc)
	a.stats()
	a.structural()
	a.pedagogical()
	a.rhythm()
	return a.report
}

func (a *analyzer) stats() {
	s := &a.report.Stats
	s.Nodes = len(a.doc.Nodes)
	s.Edges = len(a.doc.Edges)
	for _, n := range a.doc.Nodes {
		switch {
		case n.Kind == domain.KindDecision:
			s.Decisions++
		case n.Kind == domain.KindEnd:
			s.Ends++
		}
		if n.Kind.Executable() {
			s.Executable++
		}
		if len(n.Meta) > 0 {
			s.WithMeta++
		}
	}
	s.Sequences = sequences(a.doc, a.ix)
}

func (a *analyzer) structural() {
	doc := a.doc
	starts := doc.NodesOfKind(domain.KindStart)
	switch {
	case len(starts) == 0:
		a.warn(CategoryStructural, CodeNoStart, "", "", "there is no start node")
	case len(starts) > 1:
		a.warn(CategoryStructural, CodeMultipleStarts, starts[1].ID, "", "there are %d start nodes, there should be only one", len(starts))
	}

	if a.report.Stats.Ends == 0 {
		a.warn(CategoryStructural, CodeNoEnd, "", "", "there are no end nodes")
	} else {
		a.info(CategoryStructural, CodeEndCount, "%d end node(s)", a.report.Stats.Ends)
	}

	if doc.EntryNodeID != "" {
		entry, ok := a.ix.Node(doc.EntryNodeID)
		switch {
		case !ok:
			a.warn(CategoryStructural, CodeEntryMissing, "", "", "entry_node_id %q does not exist", doc.EntryNodeID)
		case entry.Kind != domain.KindStart:
			a.warn(CategoryStructural, CodeEntryNotStart, entry.ID, "", "entry_node_id %q is not a start node", entry.ID)
		}
	}

	for _, n := range doc.Nodes {
		if !n.Kind.Executable() {
			continue
		}
		in, out := a.ix.InDegree(n.ID), a.ix.OutDegree(n.ID)
		switch {
		case in == 0 && out == 0:
			a.warn(CategoryStructural, CodeOrphan, n.ID, "", "node %q is orphaned (no incoming or outgoing edges)", n.ID)
		case in == 0:
			a.warn(CategoryStructural, CodeNoIncoming, n.ID, "", "node %q has no incoming edges and cannot be reached", n.ID)
		}
	}

	for _, e := range doc.Edges {
		if !a.ix.Has(e.From) {
			a.warn(CategoryStructural, CodeDanglingEdge, e.From, e.ID, "edge leaves unknown node %q", e.From)
		}
		if !a.ix.Has(e.To) {
			a.warn(CategoryStructural, CodeDanglingEdge, e.To, e.ID, "edge points to unknown node %q", e.To)
		}
	}

	s := a.report.Stats
	a.info(CategoryStructural, CodeSummary, "canvas has %d node(s), %d executable, %d edge(s)", s.Nodes, s.Executable, s.Edges)
}

func (a *analyzer) pedagogical() {
	s := a.report.Stats
	if s.Decisions > 0 {
		a.info(CategoryPedagogical, CodeDecisionCount, "%d decision node(s)", s.Decisions)
	}
	for _, d := range a.doc.NodesOfKind(domain.KindDecision) {
		choices := len(d.Choices())
		if choices < 2 {
			a.warn(CategoryPedagogical, CodeFewChoices, d.ID, "", "decision %q has fewer than 2 choices", d.ID)
		}
		if out := a.ix.OutDegree(d.ID); out < choices {
			a.warn(CategoryPedagogical, CodeChoiceEdges, d.ID, "", "decision %q has %d choices but only %d outgoing edge(s)", d.ID, choices, out)
		}
	}

	if s.WithMeta == 0 {
		a.info(CategoryPedagogical, CodeNoMeta, "no node carries pedagogical metadata")
	} else {
		a.info(CategoryPedagogical, CodeMetaCoverage, "%d node(s) carry pedagogical metadata", s.WithMeta)
	}
	if s.Ends > 1 {
		a.info(CategoryPedagogical, CodeMultipleEndings, "%d endings (several possible paths)", s.Ends)
	}

	for _, seq := range s.Sequences {
		if len(seq) > LongSequence {
			head := seq
			if len(head) > 3 {
				head = head[:3]
			}
			a.warn(CategoryPedagogical, CodeLongSequence, seq[0], "",
				"long linear sequence (%d nodes without decisions): %s...", len(seq), strings.Join(head, " → "))
		}
	}
}

func (a *analyzer) rhythm() {
	s := a.report.Stats
	if len(s.Sequences) > 0 {
		total, longest, shortest := 0, 0, len(s.Sequences[0])
		for _, seq := range s.Sequences {
			total += len(seq)
			longest = max(longest, len(seq))
			shortest = min(shortest, len(seq))
		}
		avg := float64(total) / float64(len(s.Sequences))
		a.info(CategoryRhythm, CodeSequenceStats, "sequences: average %.1f nodes, longest %d, shortest %d", avg, longest, shortest)
		if longest > VeryLongSequence {
			a.warn(CategoryRhythm, CodeVeryLongSequence, "", "", "very long sequence (%d nodes) may be hard to follow", longest)
		}
	}

	depth := newDepths(a.ix, MaxBranchDepth)
	for _, d := range a.doc.NodesOfKind(domain.KindDecision) {
		edges := a.ix.Outgoing(d.ID)
		if len(edges) == 0 {
			continue
		}
		deepest, shallowest := 0, MaxBranchDepth+1
		for _, e := range edges {
			n := depth.of(e.To)
			deepest = max(deepest, n)
			shallowest = min(shallowest, n)
		}
		if diff := deepest - shallowest; diff > UnbalancedDepth {
			a.warn(CategoryRhythm, CodeUnbalancedBranches, d.ID, "", "decision %q has unbalanced branches (%d levels apart)", d.ID, diff)
		}
	}

	ratio := float64(s.Decisions) / float64(max(s.Executable, 1))
	switch {
	case ratio > DecisionDensity:
		a.warn(CategoryRhythm, CodeDecisionDensity, "", "", "high decision density (%.0f%% of nodes are decisions) may overwhelm learners", ratio*100)
	case s.Decisions == 0 && s.Executable > LinearMinNodes:
		a.info(CategoryRhythm, CodeFullyLinear, "canvas is fully linear (no decisions)")
	}
}
