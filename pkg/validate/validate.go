package validate

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/graph"
	"github.com/aretw0/lienzo/pkg/schema"
)

// Canvas validates doc and returns the collected issues. It never panics on
// malformed input; a nil document yields a single invalid_document error.
func Canvas(doc *domain.Canvas, opts ...Option) Result {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	v := &validator{cfg: cfg, doc: doc}
	v.run()

	res := Result{
		OK:       len(v.errors) == 0,
		Errors:   v.errors,
		Warnings: v.warnings,
	}
	if res.Errors == nil {
		res.Errors = []Issue{}
	}
	if res.Warnings == nil {
		res.Warnings = []Issue{}
	}
	if cfg.logger != nil {
		id := ""
		if doc != nil {
			id = doc.ID
		}
		cfg.logger.Debug("canvas validated",
			slog.String("canvas_id", id),
			slog.String("mode", string(cfg.mode)),
			slog.Int("errors", len(res.Errors)),
			slog.Int("warnings", len(res.Warnings)),
		)
	}
	return res
}

type validator struct {
	cfg      config
	doc      *domain.Canvas
	ix       *graph.Index
	errors   []Issue
	warnings []Issue
}

func (v *validator) strict() bool { return v.cfg.mode == ModeStrict }

func (v *validator) errorf(code Code, nodeID, edgeID, format string, args ...any) {
	v.errors = append(v.errors, Issue{
		Code: code, Severity: SeverityError, NodeID: nodeID, EdgeID: edgeID,
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *validator) warnf(code Code, nodeID, edgeID, format string, args ...any) {
	v.warnings = append(v.warnings, Issue{
		Code: code, Severity: SeverityWarning, NodeID: nodeID, EdgeID: edgeID,
		Message: fmt.Sprintf(format, args...),
	})
}

// escalate reports an error in strict mode and a warning in draft mode.
func (v *validator) escalate(code Code, nodeID, edgeID, format string, args ...any) {
	if v.strict() {
		v.errorf(code, nodeID, edgeID, format, args...)
		return
	}
	v.warnf(code, nodeID, edgeID, format, args...)
}

func (v *validator) run() {
	if v.doc == nil {
		v.errorf(CodeInvalidDocument, "", "", "canvas document is missing")
		return
	}
	v.ix = graph.NewIndex(v.doc)

	if !v.structure() && v.strict() {
		return
	}
	for _, n := range v.doc.Nodes {
		v.node(n)
	}
	for _, e := range v.doc.Edges {
		v.edge(e)
	}
	v.connectivity()
	v.loops()
}

// structure checks document-level fields and id uniqueness. It returns
// false when a structural error was found.
func (v *validator) structure() bool {
	before := len(v.errors)
	doc := v.doc

	if doc.Version != "" && doc.Version != domain.SchemaVersion {
		v.warnf(CodeVersionMismatch, "", "", "version %q is not the expected %q", doc.Version, domain.SchemaVersion)
	}
	if strings.TrimSpace(doc.ID) == "" {
		v.errorf(CodeMissingCanvasID, "", "", "canvas must have a canvas_id")
	}
	if strings.TrimSpace(doc.EntryNodeID) == "" {
		v.errorf(CodeMissingEntry, "", "", "canvas must have an entry_node_id")
	}
	if len(doc.Nodes) == 0 {
		v.errorf(CodeNoNodes, "", "", "canvas must have at least one node")
	}

	if dups := duplicates(len(doc.Nodes), func(i int) string { return doc.Nodes[i].ID }); len(dups) > 0 {
		for _, id := range dups {
			v.errorf(CodeDuplicateNodeID, id, "", "duplicate node id %q", id)
		}
	}
	if dups := duplicates(len(doc.Edges), func(i int) string { return doc.Edges[i].ID }); len(dups) > 0 {
		for _, id := range dups {
			v.errorf(CodeDuplicateEdgeID, "", id, "duplicate edge id %q", id)
		}
	}

	if doc.EntryNodeID != "" && !v.ix.Has(doc.EntryNodeID) {
		v.errorf(CodeEntryNotFound, doc.EntryNodeID, "", "entry_node_id %q does not exist", doc.EntryNodeID)
	}
	return len(v.errors) == before
}

// duplicates returns the non-empty ids seen more than once, in first-seen order.
func duplicates(n int, id func(int) string) []string {
	seen := make(map[string]int, n)
	var out []string
	for i := 0; i < n; i++ {
		key := id(i)
		if key == "" {
			continue
		}
		seen[key]++
		if seen[key] == 2 {
			out = append(out, key)
		}
	}
	return out
}

func (v *validator) node(n domain.Node) {
	if strings.TrimSpace(n.ID) == "" {
		v.errorf(CodeMissingNodeID, "", "", "node must have an id")
		return
	}
	if !n.Kind.Valid() {
		v.errorf(CodeUnknownKind, n.ID, "", "node %q has unknown type %q", n.ID, n.Kind)
		return
	}
	if n.Props == nil {
		v.warnf(CodeMissingProps, n.ID, "", "node %q has no props (an empty object is assumed)", n.ID)
	}
	for _, fe := range schema.FieldErrors(schema.CheckNode(n)) {
		v.escalate(CodePropType, n.ID, "", "node %q: %s", n.ID, fe.Error())
	}

	out := v.ix.OutDegree(n.ID)
	switch n.Kind {
	case domain.KindStart:
		if v.ix.InDegree(n.ID) > 0 {
			v.errorf(CodeStartIncoming, n.ID, "", "start node %q cannot have incoming edges", n.ID)
		}
	case domain.KindEnd:
		if out > 0 {
			v.errorf(CodeEndOutgoing, n.ID, "", "end node %q cannot have outgoing edges", n.ID)
		}
	case domain.KindScreen:
		if strings.TrimSpace(n.StringProp(domain.PropTemplateID)) == "" {
			v.errorf(CodeScreenTemplate, n.ID, "", "screen node %q must have a screen_template_id", n.ID)
		}
	case domain.KindDecision:
		v.decision(n, out)
	case domain.KindCondition:
		if strings.TrimSpace(n.StringProp(domain.PropConditionType)) == "" {
			v.errorf(CodeConditionType, n.ID, "", "condition node %q must have a condition_type", n.ID)
		}
		if out != 2 {
			v.escalate(CodeConditionBranches, n.ID, "", "condition node %q must have exactly 2 outgoing edges, has %d", n.ID, out)
		}
	case domain.KindDelay:
		props, err := n.Delay()
		if err != nil || !props.HasDuration() {
			v.escalate(CodeDelayDuration, n.ID, "", "delay node %q must have duration_seconds or duration_minutes", n.ID)
		}
	case domain.KindGroup, domain.KindComment:
	default:
		panic(fmt.Sprintf("validate: unhandled node kind %q", n.Kind))
	}
}

func (v *validator) decision(n domain.Node, out int) {
	choices := n.Choices()
	switch len(choices) {
	case 0:
		if out == 0 {
			v.escalate(CodeDecisionEmpty, n.ID, "", "decision node %q has no choices and no outgoing edges", n.ID)
			return
		}
		v.warnf(CodeDecisionPassthrough, n.ID, "",
			"decision node %q has 0 choices but %d outgoing edge(s); it is treated as a passthrough", n.ID, out)
	case 1:
		msg := "decision node %q has a single choice; it is treated as a passthrough"
		if v.strict() && v.cfg.passthrough == PassthroughReject {
			v.errorf(CodeDecisionPassthrough, n.ID, "", msg, n.ID)
			return
		}
		v.warnf(CodeDecisionPassthrough, n.ID, "", msg, n.ID)
	default:
		dups := duplicates(len(choices), func(i int) string { return choices[i].ID })
		if len(dups) > 0 {
			v.errorf(CodeDuplicateChoiceID, n.ID, "", "decision node %q has duplicate choice_id(s): %s", n.ID, strings.Join(dups, ", "))
		}
		if out < len(choices) {
			v.escalate(CodeChoiceEdgeMismatch, n.ID, "",
				"decision node %q has %d choices but only %d outgoing edge(s)", n.ID, len(choices), out)
		}
	}
}

func (v *validator) edge(e domain.Edge) {
	label := e.ID
	if label == "" {
		label = "(no id)"
		v.errorf(CodeMissingEdgeID, "", "", "edge %s -> %s must have an id", e.From, e.To)
	}

	from, fromOK := v.ix.Node(e.From)
	switch {
	case e.From == "":
		v.errorf(CodeDanglingEdge, "", e.ID, "edge %s must have a from_node_id", label)
	case !fromOK:
		v.errorf(CodeDanglingEdge, e.From, e.ID, "edge %s: from_node_id %q does not exist", label, e.From)
	case from.Kind == domain.KindEnd:
		v.errorf(CodeEdgeFromEnd, e.From, e.ID, "edge %s cannot leave end node %q", label, e.From)
	}

	to, toOK := v.ix.Node(e.To)
	switch {
	case e.To == "":
		v.errorf(CodeDanglingEdge, "", e.ID, "edge %s must have a to_node_id", label)
	case !toOK:
		v.errorf(CodeDanglingEdge, e.To, e.ID, "edge %s: to_node_id %q does not exist", label, e.To)
	case to.Kind == domain.KindStart:
		v.errorf(CodeEdgeIntoStart, e.To, e.ID, "edge %s cannot enter start node %q", label, e.To)
	}

	if e.Kind != "" && !e.Kind.Valid() {
		v.errorf(CodeUnknownTransition, "", e.ID, "edge %s has unknown type %q", label, e.Kind)
	}
	if e.Conditional() && (e.Condition == nil || e.Condition.Type == "") {
		v.warnf(CodeConditionMissing, "", e.ID, "conditional edge %s has no condition", label)
	}
}
